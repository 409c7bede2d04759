// Package transform implements the interactive transform tool bound to one scene node: a
// mode (translate, rotate or scale), a nudge step, snapping, and the gizmo display flags.
package transform

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/chewxy/math32"
)

// Mode selects which transform channel nudges edit.
type Mode int

const (
	// ModeTranslate edits position.
	ModeTranslate Mode = iota

	// ModeRotate edits rotation, in radians.
	ModeRotate

	// ModeScale edits scale.
	ModeScale
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeTranslate, ModeRotate, ModeScale}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRotate:
		return "rotate"
	case ModeScale:
		return "scale"
	default:
		return "unknown"
	}
}

func (m Mode) valid() bool {
	return m >= ModeTranslate && m <= ModeScale
}

func (m Mode) channel() scene.Channel {
	switch m {
	case ModeRotate:
		return scene.ChannelRotation
	case ModeScale:
		return scene.ChannelScale
	default:
		return scene.ChannelPosition
	}
}

// Space is the frame the gizmo is drawn in.
type Space int

const (
	SpaceWorld Space = iota
	SpaceLocal
)

// String returns the space name.
func (s Space) String() string {
	if s == SpaceLocal {
		return "local"
	}
	return "world"
}

const (
	MinStep     float32 = 0.01
	MaxStep     float32 = 1
	DefaultStep float32 = 0.1

	MinSize     float32 = 0.1
	MaxSize     float32 = 10
	DefaultSize float32 = 1
	SizeStep    float32 = 0.1
)

// SnapValues are the grid sizes used when snapping is on.
type SnapValues struct {
	Translation float32 `toml:"translation" yaml:"translation"`
	Rotation    float32 `toml:"rotation" yaml:"rotation"`
	Scale       float32 `toml:"scale" yaml:"scale"`
}

// DefaultSnapValues returns translation 1, rotation 15° and scale 0.25.
func DefaultSnapValues() SnapValues {
	return SnapValues{Translation: 1, Rotation: 15 * math32.Pi / 180, Scale: 0.25}
}

func (v SnapValues) forMode(m Mode) float32 {
	switch m {
	case ModeRotate:
		return v.Rotation
	case ModeScale:
		return v.Scale
	default:
		return v.Translation
	}
}

// Snapshot is a copy of the controller state handed to observers.
type Snapshot struct {
	Mode     Mode
	Step     float32
	Space    Space
	Size     float32
	Axes     [3]bool
	Snap     [3]bool
	SnapHeld bool
	Orbit    bool
	Target   common.Transform
}

// Snapping reports whether the snap for the given mode is in effect, toggled or held.
func (s Snapshot) Snapping(m Mode) bool {
	return s.SnapHeld || (m.valid() && s.Snap[m])
}

type controller struct {
	mu *sync.Mutex

	target scene.Node
	store  scene.TransformStore
	state  *common.SceneState

	mode     Mode
	step     float32
	space    Space
	size     float32
	axes     [3]bool
	snap     [3]bool
	snapHeld bool
	values   SnapValues

	observers map[int]func(Snapshot)
	nextID    int
}

// Controller edits one node through the transform store in the manual layer, so its edits
// win over every animated write in the same tick.
type Controller interface {
	// Target returns the controlled node.
	//
	// Returns:
	//   - scene.Node: the node
	Target() scene.Node

	// Mode returns the active mode.
	//
	// Returns:
	//   - Mode: the mode
	Mode() Mode

	// SetMode selects the active mode. Selecting the active mode again changes nothing but
	// still notifies observers. Unknown modes are ignored.
	//
	// Parameters:
	//   - m: the mode
	//
	// Returns:
	//   - bool: true if the mode changed
	SetMode(m Mode) bool

	// Step returns the nudge step.
	//
	// Returns:
	//   - float32: the step
	Step() float32

	// SetStep sets the nudge step, clamped to [MinStep, MaxStep].
	//
	// Parameters:
	//   - v: the requested step
	//
	// Returns:
	//   - float32: the step in effect
	SetStep(v float32) float32

	// Nudge adds sign·step to one axis of the active mode's channel. With snapping in effect
	// the result is rounded to the mode's snap grid. A zero sign does nothing.
	//
	// Parameters:
	//   - axis: the component to change
	//   - sign: the direction; only its sign is used
	//
	// Returns:
	//   - [3]float32: the value written
	Nudge(axis common.Axis, sign int) [3]float32

	// ToggleSnap flips the snap for one mode.
	//
	// Parameters:
	//   - m: the mode whose snap to flip
	//
	// Returns:
	//   - bool: the new snap flag
	ToggleSnap(m Mode) bool

	// SetSnapHeld turns every snap on while held, as the shift key does.
	//
	// Parameters:
	//   - held: true while the modifier is down
	SetSnapHeld(held bool)

	// ToggleAxis flips the visibility of one gizmo axis.
	//
	// Parameters:
	//   - axis: the axis
	//
	// Returns:
	//   - bool: the new visibility
	ToggleAxis(axis common.Axis) bool

	// ToggleSpace switches between world and local space.
	//
	// Returns:
	//   - Space: the new space
	ToggleSpace() Space

	// ResizeGizmo changes the gizmo size by delta steps of SizeStep, clamped to
	// [MinSize, MaxSize].
	//
	// Parameters:
	//   - delta: the number of steps, negative to shrink
	//
	// Returns:
	//   - float32: the new size
	ResizeGizmo(delta int) float32

	// ToggleOrbit flips the shared orbit flag.
	//
	// Returns:
	//   - bool: the new flag
	ToggleOrbit() bool

	// Reset restores the gizmo state (size, axes, space, snaps) to its defaults. The mode,
	// the step and the node's transform are kept.
	Reset()

	// Snapshot returns a copy of the current state.
	//
	// Returns:
	//   - Snapshot: the state
	Snapshot() Snapshot

	// Subscribe registers an observer called after every change.
	//
	// Parameters:
	//   - fn: the observer
	//
	// Returns:
	//   - func(): removes the observer
	Subscribe(fn func(Snapshot)) (cancel func())
}

var _ Controller = &controller{}

// NewController creates a Controller bound to target, in translate mode.
//
// Parameters:
//   - target: the node to edit
//   - store: the transform store receiving manual writes
//   - state: the shared scene flags holding the orbit flag
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(target scene.Node, store scene.TransformStore, state *common.SceneState, options ...ControllerBuilderOption) Controller {
	c := &controller{
		mu:        &sync.Mutex{},
		target:    target,
		store:     store,
		state:     state,
		mode:      ModeTranslate,
		step:      DefaultStep,
		size:      DefaultSize,
		axes:      [3]bool{true, true, true},
		values:    DefaultSnapValues(),
		observers: make(map[int]func(Snapshot)),
	}
	for _, option := range options {
		option(c)
	}
	if c.state == nil {
		c.state = &common.SceneState{}
	}
	c.step = clampStep(c.step)
	return c
}

func (c *controller) Target() scene.Node {
	return c.target
}

func (c *controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *controller) SetMode(m Mode) bool {
	if !m.valid() {
		return false
	}
	c.mu.Lock()
	changed := c.mode != m
	c.mode = m
	c.mu.Unlock()

	c.notify()
	return changed
}

func (c *controller) Step() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *controller) SetStep(v float32) float32 {
	c.mu.Lock()
	c.step = clampStep(v)
	step := c.step
	c.mu.Unlock()

	c.notify()
	return step
}

func (c *controller) Nudge(axis common.Axis, sign int) [3]float32 {
	c.mu.Lock()
	ch := c.mode.channel()
	cur := c.store.Current(c.target, ch)
	if sign == 0 || axis < common.AxisX || axis > common.AxisZ {
		c.mu.Unlock()
		return cur
	}
	delta := c.step
	if sign < 0 {
		delta = -delta
	}
	cur[axis] += delta
	if c.snapHeld || c.snap[c.mode] {
		if grid := c.values.forMode(c.mode); grid > 0 {
			cur[axis] = math32.Round(cur[axis]/grid) * grid
		}
	}
	c.store.Write(c.target, ch, scene.ProducerManual, cur)
	c.mu.Unlock()

	c.notify()
	return cur
}

func (c *controller) ToggleSnap(m Mode) bool {
	if !m.valid() {
		return false
	}
	c.mu.Lock()
	c.snap[m] = !c.snap[m]
	on := c.snap[m]
	c.mu.Unlock()

	c.notify()
	return on
}

func (c *controller) SetSnapHeld(held bool) {
	c.mu.Lock()
	changed := c.snapHeld != held
	c.snapHeld = held
	c.mu.Unlock()

	if changed {
		c.notify()
	}
}

func (c *controller) ToggleAxis(axis common.Axis) bool {
	if axis < common.AxisX || axis > common.AxisZ {
		return false
	}
	c.mu.Lock()
	c.axes[axis] = !c.axes[axis]
	on := c.axes[axis]
	c.mu.Unlock()

	c.notify()
	return on
}

func (c *controller) ToggleSpace() Space {
	c.mu.Lock()
	if c.space == SpaceWorld {
		c.space = SpaceLocal
	} else {
		c.space = SpaceWorld
	}
	space := c.space
	c.mu.Unlock()

	c.notify()
	return space
}

func (c *controller) ResizeGizmo(delta int) float32 {
	c.mu.Lock()
	// Round to the step grid so repeated resizing does not drift.
	size := math32.Round((c.size+float32(delta)*SizeStep)*10) / 10
	c.size = common.Clamp(size, MinSize, MaxSize)
	size = c.size
	c.mu.Unlock()

	c.notify()
	return size
}

func (c *controller) ToggleOrbit() bool {
	c.mu.Lock()
	c.state.OrbitEnabled = !c.state.OrbitEnabled
	on := c.state.OrbitEnabled
	c.mu.Unlock()

	c.notify()
	return on
}

func (c *controller) Reset() {
	c.mu.Lock()
	c.size = DefaultSize
	c.axes = [3]bool{true, true, true}
	c.space = SpaceWorld
	c.snap = [3]bool{}
	c.snapHeld = false
	c.mu.Unlock()

	c.notify()
}

func (c *controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *controller) snapshot() Snapshot {
	return Snapshot{
		Mode:     c.mode,
		Step:     c.step,
		Space:    c.space,
		Size:     c.size,
		Axes:     c.axes,
		Snap:     c.snap,
		SnapHeld: c.snapHeld,
		Orbit:    c.state.OrbitEnabled,
		Target: common.Transform{
			Position: c.store.Current(c.target, scene.ChannelPosition),
			Rotation: c.store.Current(c.target, scene.ChannelRotation),
			Scale:    c.store.Current(c.target, scene.ChannelScale),
		},
	}
}

func (c *controller) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *controller) notify() {
	c.mu.Lock()
	snap := c.snapshot()
	ids := make([]int, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	observers := make([]func(Snapshot), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		observers = append(observers, c.observers[id])
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

func clampStep(v float32) float32 {
	if v != v {
		return MinStep
	}
	return common.Clamp(v, MinStep, MaxStep)
}
