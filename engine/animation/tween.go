// Package animation schedules the time-driven and scroll-driven interpolation of scene
// properties: eased tweens, timelines of chained tweens, scroll-scrubbed tweens, the clone
// fan stagger and the orchestrator that strings them together after a model loads.
package animation

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/common"
)

// Animation is anything that can be rendered at a local time, measured from its own start.
type Animation interface {
	// Duration returns the total length, including any leading delay.
	//
	// Returns:
	//   - float32: the length in seconds
	Duration() float32

	// Render evaluates the animation at local time t and writes the result.
	//
	// Parameters:
	//   - t: seconds since the animation's start
	Render(t float32)
}

type tween struct {
	mu *sync.Mutex

	set      func([3]float32)
	capture  func() [3]float32
	from     [3]float32
	to       [3]float32
	duration float32
	delay    float32
	ease     Ease

	onStart    func()
	onUpdate   func(progress float32)
	onComplete func()

	clock     float32
	last      float32
	started   bool
	completed bool
}

// Tween interpolates a three-component property from one value to another over a fixed
// duration. It writes only when its progress changes, so a finished tween stops writing
// and leaves the property to whoever writes it next.
type Tween interface {
	Animation

	// Advance moves the tween's own clock forward and renders it. Used for tweens that run
	// outside a Timeline.
	//
	// Parameters:
	//   - dt: elapsed seconds
	//
	// Returns:
	//   - bool: true once the tween has completed
	Advance(dt float32) bool

	// Progress returns the un-eased progress of the last render in [0, 1], or 0 before the
	// first render.
	//
	// Returns:
	//   - float32: the progress
	Progress() float32

	// Started reports whether the tween has passed its delay.
	//
	// Returns:
	//   - bool: true once started
	Started() bool

	// Done reports whether the tween has reached its end.
	//
	// Returns:
	//   - bool: true once completed
	Done() bool

	// From returns the start value. Tweens created with WithFromFunc report the captured
	// value once started.
	//
	// Returns:
	//   - [3]float32: the start value
	From() [3]float32

	// To returns the end value.
	//
	// Returns:
	//   - [3]float32: the end value
	To() [3]float32
}

var _ Tween = &tween{}

// NewTween creates a Tween writing through set.
//
// Parameters:
//   - set: receives each interpolated value
//   - from: the value at progress 0
//   - to: the value at progress 1
//   - duration: the length in seconds, not counting the delay
//   - options: functional options to configure the tween
//
// Returns:
//   - Tween: the newly created tween
func NewTween(set func([3]float32), from, to [3]float32, duration float32, options ...TweenBuilderOption) Tween {
	t := &tween{
		mu:       &sync.Mutex{},
		set:      set,
		from:     from,
		to:       to,
		duration: max(duration, 0),
		ease:     DefaultEase,
		last:     -1,
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// NewScalarTween creates a Tween over a single float property such as opacity.
//
// Parameters:
//   - set: receives each interpolated value
//   - from: the value at progress 0
//   - to: the value at progress 1
//   - duration: the length in seconds, not counting the delay
//   - options: functional options to configure the tween
//
// Returns:
//   - Tween: the newly created tween
func NewScalarTween(set func(float32), from, to, duration float32, options ...TweenBuilderOption) Tween {
	return NewTween(func(v [3]float32) { set(v[0]) }, [3]float32{from}, [3]float32{to}, duration, options...)
}

func (t *tween) Duration() float32 {
	return t.delay + t.duration
}

func (t *tween) Render(at float32) {
	t.mu.Lock()
	local := at - t.delay
	if local < 0 {
		if !t.started {
			t.mu.Unlock()
			return
		}
		// Rewound past the start: put the property back and wait to start again.
		t.started, t.completed, t.last = false, false, -1
		from := t.from
		t.mu.Unlock()
		t.set(from)
		return
	}

	p := float32(1)
	if t.duration > 0 {
		p = clamp01(local / t.duration)
	}
	if p == t.last {
		t.mu.Unlock()
		return
	}

	fireStart := !t.started
	if fireStart && t.capture != nil {
		t.from = t.capture()
	}
	t.started = true
	fireComplete := p == 1 && !t.completed
	t.completed = p == 1
	t.last = p
	v := common.Lerp3(t.from, t.to, t.ease(p))
	onStart, onUpdate, onComplete := t.onStart, t.onUpdate, t.onComplete
	t.mu.Unlock()

	if fireStart && onStart != nil {
		onStart()
	}
	t.set(v)
	if onUpdate != nil {
		onUpdate(p)
	}
	if fireComplete && onComplete != nil {
		onComplete()
	}
}

func (t *tween) Advance(dt float32) bool {
	t.mu.Lock()
	t.clock += dt
	clock := t.clock
	t.mu.Unlock()

	t.Render(clock)
	return t.Done()
}

func (t *tween) Progress() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return max(t.last, 0)
}

func (t *tween) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

func (t *tween) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

func (t *tween) From() [3]float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.from
}

func (t *tween) To() [3]float32 {
	return t.to
}
