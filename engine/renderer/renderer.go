package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/Carmen-Shannon/oxy-bloom/engine/window"
)

var (
	// ErrNoFrame is returned by screen passes issued outside BeginFrame/Present.
	ErrNoFrame = errors.New("renderer: no frame in progress")

	// ErrNilTarget is returned when an operation that requires an off-screen target receives nil.
	ErrNilTarget = errors.New("renderer: render target is nil")
)

// RenderTarget is an off-screen color attachment with its own depth buffer.
// The bloom compositor owns two of them.
type RenderTarget interface {
	// Name returns the debug label of the target.
	//
	// Returns:
	//   - string: the label
	Name() string

	// Width returns the target width in pixels.
	//
	// Returns:
	//   - int: the width
	Width() int

	// Height returns the target height in pixels.
	//
	// Returns:
	//   - int: the height
	Height() int

	// Resize reallocates the target's textures at the new size. A no-op when the size is unchanged.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if allocation fails
	Resize(width, height int) error

	// Release frees the target's GPU resources.
	Release()
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width  int
	height int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer defines the interface for the rendering system.
//
// A frame is bracketed by BeginFrame and Present. Between them any number of scene passes
// may run, each either into an off-screen RenderTarget or straight to the window surface
// (target nil). ApplyBloom and Composite are the post-process steps used by the selective
// bloom compositor.
type Renderer interface {
	// Size returns the current surface size in pixels.
	//
	// Returns:
	//   - width, height: the surface size
	Size() (width, height int)

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// NewRenderTarget allocates an off-screen color + depth target.
	//
	// Parameters:
	//   - name: the debug label
	//   - width: the width in pixels
	//   - height: the height in pixels
	//
	// Returns:
	//   - RenderTarget: the target
	//   - error: an error if allocation fails
	NewRenderTarget(name string, width, height int) (RenderTarget, error)

	// BeginFrame acquires the next surface texture. Screen passes and Composite require it.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// RenderScene draws every visible renderable of s, as seen by cam, with the materials
	// the renderables hold at call time. A nil target draws to the window surface.
	//
	// Parameters:
	//   - s: the scene
	//   - cam: the camera
	//   - target: the destination, or nil for the surface
	//
	// Returns:
	//   - error: an error if encoding or submission fails
	RenderScene(s scene.Scene, cam camera.Camera, target RenderTarget) error

	// ApplyBloom replaces the target's contents with its thresholded, blurred and
	// strength-scaled glow.
	//
	// Parameters:
	//   - target: the target rendered with only bloom objects lit
	//   - params: the bloom parameters
	//
	// Returns:
	//   - error: an error if a pass fails
	ApplyBloom(target RenderTarget, params BloomParams) error

	// Composite writes base.rgb + bloom.rgb with base alpha to the window surface.
	//
	// Parameters:
	//   - base: the fully lit scene
	//   - bloom: the glow produced by ApplyBloom
	//
	// Returns:
	//   - error: an error if the pass fails
	Composite(base, bloom RenderTarget) error

	// Present presents the surface texture acquired by BeginFrame. A no-op without a frame.
	Present()

	// Release frees every GPU resource owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type, drawing to the
// given window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - w: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer
//   - error: an error if the GPU device could not be created
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		width:       w.Width(),
		height:      w.Height(),
	}

	for _, opt := range options {
		opt(r)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer backend: %w", err)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		logf("surface reconfigure to %dx%d failed: %v", width, height, err)
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) NewRenderTarget(name string, width, height int) (RenderTarget, error) {
	return r.backend.NewRenderTarget(name, width, height)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) RenderScene(s scene.Scene, cam camera.Camera, target RenderTarget) error {
	if s == nil || cam == nil {
		return errors.New("renderer: RenderScene requires a scene and a camera")
	}
	return r.backend.RenderScene(s, cam, target)
}

func (r *renderer) ApplyBloom(target RenderTarget, params BloomParams) error {
	if target == nil {
		return ErrNilTarget
	}
	return r.backend.ApplyBloom(target, params.Clamp())
}

func (r *renderer) Composite(base, bloom RenderTarget) error {
	if base == nil || bloom == nil {
		return ErrNilTarget
	}
	return r.backend.Composite(base, bloom)
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.backend.Release()
}
