package bloom

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
)

// Target names used for the compositor's off-screen passes.
const (
	BloomTargetName = "bloom"
	BaseTargetName  = "base"
)

// compositor is the implementation of the Compositor interface.
type compositor struct {
	mu *sync.Mutex

	r          renderer.Renderer
	classifier Classifier
	cache      *MaterialCache
	dark       material.Material
	params     renderer.BloomParams
	enabled    func() bool

	bloomTarget renderer.RenderTarget
	baseTarget  renderer.RenderTarget
}

// Compositor renders a scene so that only bloom-layer renderables glow.
//
// With bloom enabled a frame runs two scene passes. The first darkens every non-bloom
// renderable and renders into the bloom target, which the renderer then thresholds and blurs.
// The second restores the original materials, renders into the base target, and the two are
// added together on the surface. With bloom disabled the scene is drawn straight to the surface.
type Compositor interface {
	// Render draws one frame of s as seen by cam. A frame must be in progress on the renderer.
	// Every renderable holds its original material when Render returns, including on error.
	//
	// Parameters:
	//   - s: the scene
	//   - cam: the camera
	//
	// Returns:
	//   - error: the first renderer error of the frame
	Render(s scene.Scene, cam camera.Camera) error

	// Resize resizes the off-screen targets. Targets not yet created are sized on first use.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if a target could not be reallocated
	Resize(width, height int) error

	// SetParams replaces the bloom parameters, clamped to their usable ranges.
	//
	// Parameters:
	//   - p: the parameters
	SetParams(p renderer.BloomParams)

	// Params returns the current bloom parameters.
	//
	// Returns:
	//   - renderer.BloomParams: the parameters
	Params() renderer.BloomParams

	// Enabled reports whether the next Render runs the bloom passes.
	//
	// Returns:
	//   - bool: true if bloom is on
	Enabled() bool

	// CacheLen returns the number of materials held by the cache. Zero outside Render.
	//
	// Returns:
	//   - int: the cache size
	CacheLen() int

	// Release frees the off-screen targets.
	Release()
}

var _ Compositor = &compositor{}

// NewCompositor creates a Compositor drawing through r.
// Defaults: bloom enabled, LayerClassifier{Layer: BloomLayer}, DefaultBloomParams and the
// shared material.NewDarkMaterial placeholder.
//
// Parameters:
//   - r: the renderer
//   - options: variadic CompositorBuilderOption functions
//
// Returns:
//   - Compositor: the compositor
func NewCompositor(r renderer.Renderer, options ...CompositorBuilderOption) Compositor {
	c := &compositor{
		mu:         &sync.Mutex{},
		r:          r,
		classifier: LayerClassifier{Layer: BloomLayer},
		cache:      NewMaterialCache(),
		dark:       material.NewDarkMaterial(),
		params:     renderer.DefaultBloomParams(),
		enabled:    func() bool { return true },
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *compositor) Render(s scene.Scene, cam camera.Camera) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled() {
		return c.r.RenderScene(s, cam, nil)
	}

	if err := c.ensureTargets(); err != nil {
		return err
	}

	snapshot := s.Renderables()
	if err := c.renderBloom(s, cam, snapshot); err != nil {
		return err
	}

	if err := c.r.RenderScene(s, cam, c.baseTarget); err != nil {
		return fmt.Errorf("base pass: %w", err)
	}
	return c.r.Composite(c.baseTarget, c.bloomTarget)
}

// renderBloom runs the darkened pass. The deferred restore walks the same snapshot as the
// darkening walk and runs on error or panic.
func (c *compositor) renderBloom(s scene.Scene, cam camera.Camera, snapshot []scene.Mesh) error {
	defer c.restore(snapshot)
	c.darken(snapshot)

	if err := c.r.RenderScene(s, cam, c.bloomTarget); err != nil {
		return fmt.Errorf("bloom pass: %w", err)
	}
	if err := c.r.ApplyBloom(c.bloomTarget, c.params); err != nil {
		return fmt.Errorf("bloom filter: %w", err)
	}
	return nil
}

func (c *compositor) darken(snapshot []scene.Mesh) {
	for _, m := range snapshot {
		if c.classifier.IsBloom(m) {
			continue
		}
		c.cache.Store(m.ID(), m.Material())
		m.SetMaterial(c.dark)
	}
}

func (c *compositor) restore(snapshot []scene.Mesh) {
	for _, m := range snapshot {
		if orig, ok := c.cache.Take(m.ID()); ok {
			m.SetMaterial(orig)
		}
	}
	c.cache.Clear()
}

func (c *compositor) ensureTargets() error {
	w, h := c.r.Size()
	var err error
	if c.bloomTarget == nil {
		if c.bloomTarget, err = c.r.NewRenderTarget(BloomTargetName, w, h); err != nil {
			return fmt.Errorf("failed to create bloom target: %w", err)
		}
	}
	if c.baseTarget == nil {
		if c.baseTarget, err = c.r.NewRenderTarget(BaseTargetName, w, h); err != nil {
			return fmt.Errorf("failed to create base target: %w", err)
		}
	}
	return nil
}

func (c *compositor) Resize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range []renderer.RenderTarget{c.bloomTarget, c.baseTarget} {
		if t == nil {
			continue
		}
		if err := t.Resize(width, height); err != nil {
			return err
		}
	}
	return nil
}

func (c *compositor) SetParams(p renderer.BloomParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = p.Clamp()
}

func (c *compositor) Params() renderer.BloomParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

func (c *compositor) Enabled() bool {
	return c.enabled()
}

func (c *compositor) CacheLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

func (c *compositor) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range []renderer.RenderTarget{c.bloomTarget, c.baseTarget} {
		if t != nil {
			t.Release()
		}
	}
	c.bloomTarget, c.baseTarget = nil, nil
}
