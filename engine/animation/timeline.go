package animation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrBadPosition is returned when a timeline position string cannot be parsed.
var ErrBadPosition = errors.New("animation: bad timeline position")

type timelineEntry struct {
	anim  Animation
	start float32
}

type timeline struct {
	mu *sync.Mutex

	entries    []timelineEntry
	duration   float32
	lastStart  float32
	cursor     float32
	completed  bool
	onComplete func()
}

// Timeline places animations on a shared clock. Each animation is rendered at the cursor
// minus its start, so chained entries overlap according to their positions.
type Timeline interface {
	Animation

	// Add schedules an animation. The position is "" for the current end, "-=x" or "+=x"
	// relative to the current end, "<" for the start of the previously added entry, or an
	// absolute time such as "2.5". Relative results below 0 are clamped to 0.
	//
	// Parameters:
	//   - anim: the animation
	//   - position: where to place it
	//
	// Returns:
	//   - error: ErrBadPosition if the position cannot be parsed
	Add(anim Animation, position string) error

	// Advance moves the cursor forward and renders every entry. OnComplete fires the first
	// time the cursor reaches the end.
	//
	// Parameters:
	//   - dt: elapsed seconds
	//
	// Returns:
	//   - bool: true once the timeline has completed
	Advance(dt float32) bool

	// Seek moves the cursor to an absolute time, clamped to [0, Duration], and renders.
	//
	// Parameters:
	//   - t: the time in seconds
	Seek(t float32)

	// Cursor returns the current time.
	//
	// Returns:
	//   - float32: the cursor in seconds
	Cursor() float32

	// Progress returns the cursor as a fraction of the duration.
	//
	// Returns:
	//   - float32: the progress in [0, 1]
	Progress() float32

	// Done reports whether the cursor has reached the end.
	//
	// Returns:
	//   - bool: true once completed
	Done() bool

	// Len returns the number of scheduled entries.
	//
	// Returns:
	//   - int: the entry count
	Len() int

	// OnComplete sets the callback fired once when the cursor first reaches the end.
	//
	// Parameters:
	//   - fn: the callback
	OnComplete(fn func())
}

var _ Timeline = &timeline{}

// NewTimeline creates an empty Timeline.
//
// Returns:
//   - Timeline: the timeline
func NewTimeline() Timeline {
	return &timeline{mu: &sync.Mutex{}}
}

func (tl *timeline) Add(anim Animation, position string) error {
	if anim == nil {
		return nil
	}
	tl.mu.Lock()
	defer tl.mu.Unlock()

	start, err := tl.resolve(position)
	if err != nil {
		return err
	}
	tl.entries = append(tl.entries, timelineEntry{anim: anim, start: start})
	tl.lastStart = start
	tl.duration = max(tl.duration, start+anim.Duration())
	return nil
}

func (tl *timeline) resolve(position string) (float32, error) {
	pos := strings.TrimSpace(position)
	switch {
	case pos == "":
		return tl.duration, nil
	case pos == "<":
		return tl.lastStart, nil
	case strings.HasPrefix(pos, "-="), strings.HasPrefix(pos, "+="):
		v, err := strconv.ParseFloat(pos[2:], 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadPosition, position)
		}
		if pos[0] == '-' {
			v = -v
		}
		return max(tl.duration+float32(v), 0), nil
	}
	v, err := strconv.ParseFloat(pos, 32)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadPosition, position)
	}
	return float32(v), nil
}

func (tl *timeline) Duration() float32 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.duration
}

func (tl *timeline) Render(t float32) {
	tl.Seek(t)
}

func (tl *timeline) Advance(dt float32) bool {
	tl.mu.Lock()
	cursor := tl.cursor + dt
	tl.mu.Unlock()

	tl.Seek(cursor)
	return tl.Done()
}

func (tl *timeline) Seek(t float32) {
	tl.mu.Lock()
	tl.cursor = min(max(t, 0), tl.duration)
	cursor := tl.cursor
	entries := make([]timelineEntry, len(tl.entries))
	copy(entries, tl.entries)
	tl.mu.Unlock()

	// Entries render outside the lock: their callbacks may add to other timelines or read this one.
	for _, e := range entries {
		e.anim.Render(cursor - e.start)
	}

	tl.mu.Lock()
	fire := len(entries) > 0 && cursor >= tl.duration && !tl.completed
	if fire {
		tl.completed = true
	}
	onComplete := tl.onComplete
	tl.mu.Unlock()

	if fire && onComplete != nil {
		onComplete()
	}
}

func (tl *timeline) Cursor() float32 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.cursor
}

func (tl *timeline) Progress() float32 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.duration <= 0 {
		if tl.completed {
			return 1
		}
		return 0
	}
	return tl.cursor / tl.duration
}

func (tl *timeline) Done() bool {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.completed
}

func (tl *timeline) Len() int {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return len(tl.entries)
}

func (tl *timeline) OnComplete(fn func()) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.onComplete = fn
}
