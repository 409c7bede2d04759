package engine

import (
	"github.com/Carmen-Shannon/oxy-bloom/engine/bloom"
	"github.com/Carmen-Shannon/oxy-bloom/engine/input"
	"github.com/Carmen-Shannon/oxy-bloom/engine/loader"
	"github.com/Carmen-Shannon/oxy-bloom/engine/profiler"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/Carmen-Shannon/oxy-bloom/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window whose message pump Run drives and whose input is routed into the
// dispatcher.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer frames are drawn through.
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCompositor routes scene rendering through a bloom compositor.
func WithCompositor(c bloom.Compositor) EngineBuilderOption {
	return func(e *engine) {
		e.compositor = c
	}
}

// WithScene sets the scene resolved and rendered each tick.
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithDispatcher sets the input queue. A default dispatcher is created when omitted.
func WithDispatcher(d input.Dispatcher) EngineBuilderOption {
	return func(e *engine) {
		e.dispatcher = d
	}
}

// WithLoader sets the loader whose finished loads are drained each tick.
func WithLoader(l loader.Loader) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
	}
}

// WithUpdate sets the per-tick update callback.
//
// Parameters:
//   - fn: receives the delta time in seconds
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithUpdate(fn func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.updateCallback = fn
	}
}

// WithLateUpdate sets the callback run after the transform store resolves.
func WithLateUpdate(fn func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.lateUpdateCallback = fn
	}
}

// WithOnResize sets the callback run after a surface resize has been applied.
func WithOnResize(fn func(width, height int)) EngineBuilderOption {
	return func(e *engine) {
		e.resizeCallback = fn
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
