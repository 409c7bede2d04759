package animation

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/page"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
)

// ErrAlreadyLoaded is returned when a second model is handed to the orchestrator.
var ErrAlreadyLoaded = errors.New("animation: model already loaded")

// State is the orchestrator's phase.
type State int

const (
	// StateLoading waits for the model. Time advances nothing.
	StateLoading State = iota

	// StateEntering plays the entrance timeline.
	StateEntering

	// StateIdle rests at the entrance pose with the scroll-linked phase armed.
	StateIdle

	// StateScrollLinked has at least one scroll tween away from its start.
	StateScrollLinked
)

// String returns a readable name for the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEntering:
		return "entering"
	case StateIdle:
		return "idle"
	case StateScrollLinked:
		return "scroll-linked"
	default:
		return "unknown"
	}
}

type orchestrator struct {
	mu *sync.Mutex

	group  scene.Node
	store  scene.TransformStore
	page   page.Page
	state  *common.SceneState
	choreo Choreography
	ease   Ease

	phase     State
	model     scene.Node
	clones    []scene.Node
	resting   [3]float32
	preroll   []Tween
	timeline  Timeline
	stagger   CloneStagger
	scroll    []ScrollTween
	onEntered []func()

	missingLogged map[string]bool
}

// Orchestrator sequences the model's animation. It waits in StateLoading until a model
// arrives, plays the entrance timeline and the clone fan, then hands the group over to the
// scroll-linked tweens. There is no way back to StateLoading.
type Orchestrator interface {
	// State returns the current phase.
	//
	// Returns:
	//   - State: the phase
	State() State

	// OnModelLoaded builds the clone row, the entrance timeline and the clone stagger, and
	// moves to StateEntering. The resting pose is picked from the viewport width here and
	// never re-evaluated.
	//
	// Parameters:
	//   - model: the loaded model group; it is not attached to the scene, only its clones are
	//   - viewportWidth: the viewport width in pixels at load time
	//
	// Returns:
	//   - error: ErrAlreadyLoaded if a model was already handed over
	OnModelLoaded(model scene.Node, viewportWidth float32) error

	// Advance updates the page triggers, then moves every running animation forward.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Advance(dt float32)

	// Resting returns the resting pose chosen at load.
	//
	// Returns:
	//   - [3]float32: the group position at the end of the entrance sequence
	Resting() [3]float32

	// Clones returns the clone row in fan order.
	//
	// Returns:
	//   - []scene.Node: the clones
	Clones() []scene.Node

	// Timeline returns the entrance timeline, or nil before load.
	//
	// Returns:
	//   - Timeline: the entrance timeline
	Timeline() Timeline

	// ScrollTweens returns the armed scroll-linked tweens.
	//
	// Returns:
	//   - []ScrollTween: the scroll tweens; empty before the entrance completes
	ScrollTweens() []ScrollTween

	// OnEntered registers a callback fired when the entrance sequence completes.
	//
	// Parameters:
	//   - fn: the callback
	OnEntered(fn func())

	// Close stops the clone stagger's worker pool.
	Close()
}

var _ Orchestrator = &orchestrator{}

// NewOrchestrator creates an Orchestrator driving group, the inner model group. The sway
// readiness trigger is bound to the page immediately; a missing section is logged and skipped.
//
// Parameters:
//   - group: the inner group holding the clone row
//   - store: the transform store tweens write into
//   - p: the page providing scroll triggers
//   - state: the shared scene flags
//   - options: functional options to configure the orchestrator
//
// Returns:
//   - Orchestrator: the newly created orchestrator
func NewOrchestrator(group scene.Node, store scene.TransformStore, p page.Page, state *common.SceneState, options ...OrchestratorBuilderOption) Orchestrator {
	o := &orchestrator{
		mu:            &sync.Mutex{},
		group:         group,
		store:         store,
		page:          p,
		state:         state,
		choreo:        DefaultChoreography(),
		phase:         StateLoading,
		missingLogged: make(map[string]bool),
	}
	for _, option := range options {
		option(o)
	}
	if o.state == nil {
		o.state = &common.SceneState{}
	}

	ease, err := EaseByName(o.choreo.Ease)
	if err != nil {
		log.Printf("[Animation] %v, using power2.inOut", err)
		ease = PowerInOut(2)
	}
	o.ease = ease

	o.armSwayTrigger()
	return o
}

func (o *orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *orchestrator) OnModelLoaded(model scene.Node, viewportWidth float32) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase != StateLoading {
		return ErrAlreadyLoaded
	}
	c := o.choreo
	o.model = model
	o.resting = c.RestingFor(viewportWidth)

	model.SetPosition([3]float32{})
	model.SetScale(c.ModelScale)

	tl := NewTimeline()
	color := c.Color()
	for _, m := range scene.Meshes(model) {
		mat := m.Material()
		if mat == nil {
			continue
		}
		mat.SetColor(color)
		mat.SetMetalness(c.Metalness)
		mat.SetRoughness(c.Roughness)
		mat.SetTransparent(true)
		mat.SetOpacity(0)
		if err := tl.Add(NewScalarTween(OpacitySetter(mat), 0, 1, c.FadeDuration, WithEase(o.ease)), ""); err != nil {
			return fmt.Errorf("schedule fade of %q: %w", m.Name(), err)
		}
	}

	// Settle the group before the timeline reaches it.
	o.preroll = []Tween{
		NewTween(NodeSetter(o.store, o.group, scene.ChannelPosition, scene.ProducerTimeline), [3]float32{}, [3]float32{}, 0.1,
			WithFromFunc(NodeGetter(o.store, o.group, scene.ChannelPosition))),
		NewTween(NodeSetter(o.store, o.group, scene.ChannelRotation, scene.ProducerTimeline), [3]float32{}, c.RotationStart, 0.5,
			WithFromFunc(NodeGetter(o.store, o.group, scene.ChannelRotation))),
	}

	s := c.GroupScale
	entries := []Tween{
		NewTween(NodeSetter(o.store, o.group, scene.ChannelScale, scene.ProducerTimeline), o.group.Scale(), [3]float32{s, s, s}, c.EntranceDuration,
			WithEase(o.ease)),
		NewTween(NodeSetter(o.store, o.group, scene.ChannelRotation, scene.ProducerTimeline), c.RotationStart, c.RotationEnd, c.EntranceDuration,
			WithEase(o.ease)),
		NewTween(NodeSetter(o.store, o.group, scene.ChannelPosition, scene.ProducerTimeline), [3]float32{}, o.resting, c.EntranceDuration,
			WithEase(o.ease), WithOnComplete(o.completeEntrance)),
	}
	for _, e := range entries {
		if err := tl.Add(e, c.EntranceOffset); err != nil {
			return fmt.Errorf("schedule entrance: %w", err)
		}
	}
	o.timeline = tl

	o.clones = make([]scene.Node, 0, c.CloneCount)
	for i := 0; i < c.CloneCount; i++ {
		clone := scene.CloneNode(model)
		o.group.Add(clone)
		o.clones = append(o.clones, clone)
	}
	o.stagger = NewCloneStagger(o.clones, o.store,
		WithStaggerDelay(c.StaggerDelay),
		WithStaggerDuration(c.StaggerDuration),
		WithStaggerEase(o.ease),
		WithStaggerOnStart(func() { o.page.SetLocked(true) }),
	)

	o.state.SwayReady = true
	o.phase = StateEntering
	return nil
}

func (o *orchestrator) Advance(dt float32) {
	o.page.Update()

	o.mu.Lock()
	if o.phase == StateLoading {
		o.mu.Unlock()
		return
	}
	preroll, tl, stagger := o.preroll, o.timeline, o.stagger
	scroll := make([]ScrollTween, len(o.scroll))
	copy(scroll, o.scroll)
	o.mu.Unlock()

	for _, tw := range preroll {
		tw.Advance(dt)
	}
	tl.Advance(dt)
	stagger.Advance(dt)

	linked := false
	for _, st := range scroll {
		st.Update(dt)
		if st.Progress() > 0 {
			linked = true
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase == StateIdle || o.phase == StateScrollLinked {
		if linked {
			o.phase = StateScrollLinked
		} else {
			o.phase = StateIdle
		}
	}
}

// completeEntrance runs when the final entrance entry finishes: it unlocks the page and
// arms the scroll-linked tweens.
func (o *orchestrator) completeEntrance() {
	o.mu.Lock()
	if o.phase != StateEntering {
		o.mu.Unlock()
		return
	}
	o.state.ScrollEnabled = true
	o.page.SetLocked(false)
	o.armScrollTweens()
	o.phase = StateIdle
	callbacks := make([]func(), len(o.onEntered))
	copy(callbacks, o.onEntered)
	o.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// armScrollTweens binds the group's scroll-linked rotation and position. Called with o.mu held.
func (o *orchestrator) armScrollTweens() {
	c := o.choreo
	trigger, err := o.page.NewTrigger(c.ScrollSection, page.WithStart(c.ScrollStart), page.WithEnd(c.ScrollEnd))
	if err != nil {
		o.logMissing(c.ScrollSection, err)
		return
	}

	rot := NewTween(NodeSetter(o.store, o.group, scene.ChannelRotation, scene.ProducerScroll), c.RotationEnd, c.ScrollRotation, 1, WithEase(o.ease))
	pos := NewTween(NodeSetter(o.store, o.group, scene.ChannelPosition, scene.ProducerScroll), o.resting, c.ScrollPosition, 1, WithEase(o.ease))
	o.scroll = append(o.scroll, NewScrollTween(rot, trigger, c.Scrub), NewScrollTween(pos, trigger, c.Scrub))
}

func (o *orchestrator) armSwayTrigger() {
	c := o.choreo
	ready := func() { o.state.SwayReady = true }
	if _, err := o.page.NewTrigger(c.ScrollSection, page.WithStart(c.SwayStart), page.WithEnd(c.SwayEnd), page.WithOnToggle(ready)); err != nil {
		o.logMissing(c.ScrollSection, err)
	}
}

func (o *orchestrator) logMissing(section string, err error) {
	if o.missingLogged[section] {
		return
	}
	o.missingLogged[section] = true
	log.Printf("[Animation] scroll section %q unavailable, scroll-linked transitions disabled: %v", section, err)
}

func (o *orchestrator) Resting() [3]float32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resting
}

func (o *orchestrator) Clones() []scene.Node {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]scene.Node, len(o.clones))
	copy(out, o.clones)
	return out
}

func (o *orchestrator) Timeline() Timeline {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.timeline
}

func (o *orchestrator) ScrollTweens() []ScrollTween {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]ScrollTween, len(o.scroll))
	copy(out, o.scroll)
	return out
}

func (o *orchestrator) OnEntered(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onEntered = append(o.onEntered, fn)
}

func (o *orchestrator) Close() {
	o.mu.Lock()
	stagger := o.stagger
	o.mu.Unlock()
	if stagger != nil {
		stagger.Close()
	}
}
