package renderer

import (
	"log"

	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// RendererBackend is the contract a GPU API implementation fulfils for the Renderer.
type RendererBackend interface {
	ConfigureSurface(width, height int) error
	SetPresentMode(mode PresentMode)
	NewRenderTarget(name string, width, height int) (RenderTarget, error)
	BeginFrame() error
	RenderScene(s scene.Scene, cam camera.Camera, target RenderTarget) error
	ApplyBloom(target RenderTarget, params BloomParams) error
	Composite(base, bloom RenderTarget) error
	Present()
	Release()
}

func logf(format string, args ...any) {
	log.Printf("[Renderer] "+format, args...)
}
