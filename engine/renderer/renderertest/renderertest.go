// Package renderertest provides a recording Renderer for tests that exercise the frame
// sequence without a GPU.
package renderertest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
)

// Call is one recorded renderer call.
type Call struct {
	// Op is the method name, e.g. "RenderScene" or "ApplyBloom".
	Op string

	// Target is the target name, "screen" for surface passes, or "" when not applicable.
	Target string

	// Materials maps each renderable to the material it held when RenderScene ran.
	Materials map[scene.NodeID]material.Material

	// Params is the bloom parameter set passed to ApplyBloom.
	Params renderer.BloomParams
}

// Target is an in-memory RenderTarget.
type Target struct {
	name          string
	width, height int
	released      bool
}

var _ renderer.RenderTarget = &Target{}

func (t *Target) Name() string { return t.name }
func (t *Target) Width() int   { return t.width }
func (t *Target) Height() int  { return t.height }

func (t *Target) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render target %q: invalid size %dx%d", t.name, width, height)
	}
	t.width, t.height = width, height
	return nil
}

func (t *Target) Release() { t.released = true }

// Released reports whether Release was called.
func (t *Target) Released() bool { return t.released }

// Renderer records every call it receives. Errors can be injected per op.
type Renderer struct {
	mu *sync.Mutex

	width, height int
	inFrame       bool
	calls         []Call
	targets       []*Target
	frames        int

	// FailOn makes the named op return the mapped error.
	FailOn map[string]error

	// PanicOn makes the named op panic with its name.
	PanicOn map[string]bool

	// Hook, when set, runs for every recorded call before injected failures apply.
	Hook func(c Call)
}

var _ renderer.Renderer = &Renderer{}

// New returns a recording Renderer with the given surface size.
func New(width, height int) *Renderer {
	return &Renderer{
		mu:      &sync.Mutex{},
		width:   width,
		height:  height,
		FailOn:  make(map[string]error),
		PanicOn: make(map[string]bool),
	}
}

func (r *Renderer) record(c Call) error {
	r.calls = append(r.calls, c)
	if r.Hook != nil {
		r.Hook(c)
	}
	if r.PanicOn[c.Op] {
		panic(c.Op)
	}
	return r.FailOn[c.Op]
}

// Calls returns a copy of the recorded calls.
func (r *Renderer) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Ops returns the recorded calls as "Op" or "Op:target" strings.
func (r *Renderer) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		if c.Target != "" {
			out = append(out, c.Op+":"+c.Target)
			continue
		}
		out = append(out, c.Op)
	}
	return out
}

// Reset forgets the recorded calls.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Frames returns the number of presented frames.
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Targets returns every target created so far.
func (r *Renderer) Targets() []*Target {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Target, len(r.targets))
	copy(out, r.targets)
	return out
}

func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.calls = append(r.calls, Call{Op: "Resize"})
}

func (r *Renderer) SetPresentMode(renderer.PresentMode) {}

func (r *Renderer) NewRenderTarget(name string, width, height int) (renderer.RenderTarget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(Call{Op: "NewRenderTarget", Target: name}); err != nil {
		return nil, err
	}
	t := &Target{name: name, width: width, height: height}
	r.targets = append(r.targets, t)
	return t, nil
}

func (r *Renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(Call{Op: "BeginFrame"}); err != nil {
		return err
	}
	r.inFrame = true
	return nil
}

func (r *Renderer) RenderScene(s scene.Scene, cam camera.Camera, target renderer.RenderTarget) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := "screen"
	if target != nil {
		name = target.Name()
	} else if !r.inFrame {
		return renderer.ErrNoFrame
	}

	mats := make(map[scene.NodeID]material.Material)
	for _, m := range s.Renderables() {
		mats[m.ID()] = m.Material()
	}
	return r.record(Call{Op: "RenderScene", Target: name, Materials: mats})
}

func (r *Renderer) ApplyBloom(target renderer.RenderTarget, params renderer.BloomParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if target == nil {
		return renderer.ErrNilTarget
	}
	return r.record(Call{Op: "ApplyBloom", Target: target.Name(), Params: params.Clamp()})
}

func (r *Renderer) Composite(base, bloom renderer.RenderTarget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if base == nil || bloom == nil {
		return renderer.ErrNilTarget
	}
	if !r.inFrame {
		return renderer.ErrNoFrame
	}
	return r.record(Call{Op: "Composite", Target: base.Name() + "+" + bloom.Name()})
}

func (r *Renderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inFrame {
		return
	}
	r.inFrame = false
	r.frames++
	r.calls = append(r.calls, Call{Op: "Present"})
}

func (r *Renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.targets {
		t.Release()
	}
}
