package scene

import "sync"

// DefaultSwayAmplitude is the rotation in radians applied at a pointer offset of 1.
const DefaultSwayAmplitude float32 = 0.02

type sway struct {
	mu        *sync.Mutex
	target    Node
	store     TransformStore
	ready     func() bool
	amplitude float32
	pointer   [2]float32
}

// Sway tilts a node toward the pointer. Pointer input is dropped until the ready
// predicate passes, so stray movement during loading has no effect.
type Sway interface {
	// SetPointer records a normalized pointer position and, when ready, writes the
	// target's rotation (x = ny*amplitude, y = nx*amplitude) in the sway layer.
	//
	// Parameters:
	//   - nx: horizontal pointer offset in [-1, 1], right positive
	//   - ny: vertical pointer offset in [-1, 1], up positive
	//
	// Returns:
	//   - bool: true if a rotation was written
	SetPointer(nx, ny float32) bool

	// Pointer returns the last accepted pointer position.
	//
	// Returns:
	//   - [2]float32: (nx, ny)
	Pointer() [2]float32
}

var _ Sway = &sway{}

// NewSway creates a Sway driving target's rotation through store.
//
// Parameters:
//   - target: the node to tilt (the outer scene group)
//   - store: the transform store receiving writes
//   - ready: predicate gating pointer input
//   - amplitude: radians per unit of pointer offset; zero selects DefaultSwayAmplitude
//
// Returns:
//   - Sway: the sway driver
func NewSway(target Node, store TransformStore, ready func() bool, amplitude float32) Sway {
	if amplitude == 0 {
		amplitude = DefaultSwayAmplitude
	}
	if ready == nil {
		ready = func() bool { return true }
	}
	return &sway{
		mu:        &sync.Mutex{},
		target:    target,
		store:     store,
		ready:     ready,
		amplitude: amplitude,
	}
}

func (s *sway) SetPointer(nx, ny float32) bool {
	if !s.ready() {
		return false
	}
	s.mu.Lock()
	s.pointer = [2]float32{nx, ny}
	s.mu.Unlock()

	rot := s.store.Current(s.target, ChannelRotation)
	rot[0] = ny * s.amplitude
	rot[1] = nx * s.amplitude
	s.store.Write(s.target, ChannelRotation, ProducerSway, rot)
	return true
}

func (s *sway) Pointer() [2]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// NormalizePointer maps a cursor position in window pixels to [-1, 1] on both axes
// with +y pointing up. A zero-sized window maps to the origin.
//
// Parameters:
//   - cx, cy: cursor position in pixels from the top-left corner
//   - w, h: window size in pixels
//
// Returns:
//   - nx, ny: the normalized position
func NormalizePointer(cx, cy, w, h float32) (nx, ny float32) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return (cx/w)*2 - 1, -(cy/h)*2 + 1
}
