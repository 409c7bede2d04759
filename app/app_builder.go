package app

import (
	"github.com/Carmen-Shannon/oxy-bloom/engine/loader"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bloom/engine/window"
	"github.com/gdamore/tcell/v2"
)

// AppBuilderOption is a functional option for configuring an App via New.
type AppBuilderOption func(*app)

// WithRenderer supplies the renderer. The app does not release a supplied renderer, and no
// window is created for it.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) AppBuilderOption {
	return func(a *app) {
		a.renderer = r
	}
}

// WithWindow supplies the window whose callbacks feed the input dispatcher. Without
// WithRenderer, the wgpu renderer is created on it.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithWindow(w window.Window) AppBuilderOption {
	return func(a *app) {
		a.window = w
	}
}

// WithPanel opens the terminal control panel on the controlling terminal.
func WithPanel(enabled bool) AppBuilderOption {
	return func(a *app) {
		a.openPanel = enabled
	}
}

// WithPanelScreen runs the control panel on an initialized screen instead of the terminal.
//
// Parameters:
//   - screen: the tcell screen, already initialized
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithPanelScreen(screen tcell.Screen) AppBuilderOption {
	return func(a *app) {
		a.panelScreen = screen
	}
}

// WithConfigPath names the config file Run watches. Edits reload the bloom parameters.
func WithConfigPath(path string) AppBuilderOption {
	return func(a *app) {
		a.configPath = path
	}
}

// WithLoaderOptions passes extra options to the model loader, such as decompressors or a
// pre-populated model cache.
//
// Parameters:
//   - options: the loader options
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithLoaderOptions(options ...loader.LoaderBuilderOption) AppBuilderOption {
	return func(a *app) {
		a.loaderOptions = append(a.loaderOptions, options...)
	}
}

// WithProfiling enables the engine's periodic frame statistics log.
func WithProfiling(enabled bool) AppBuilderOption {
	return func(a *app) {
		a.profiling = enabled
	}
}
