// Package app assembles the scene from a config.Config. It builds the node tree, lights and
// camera, wires the orchestrator, the transform controller, the pointer sway and the bloom
// compositor to one transform store, and routes queued input to them on the render goroutine.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/config"
	"github.com/Carmen-Shannon/oxy-bloom/engine"
	"github.com/Carmen-Shannon/oxy-bloom/engine/animation"
	"github.com/Carmen-Shannon/oxy-bloom/engine/bloom"
	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/input"
	"github.com/Carmen-Shannon/oxy-bloom/engine/loader"
	"github.com/Carmen-Shannon/oxy-bloom/engine/page"
	"github.com/Carmen-Shannon/oxy-bloom/engine/panel"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/Carmen-Shannon/oxy-bloom/engine/transform"
	"github.com/Carmen-Shannon/oxy-bloom/engine/window"
	"github.com/gdamore/tcell/v2"
)

// State is the set of scene flags shared by the app's components.
type State = common.SceneState

// app is the implementation of the App interface.
type app struct {
	mu *sync.Mutex

	cfg        config.Config
	configPath string
	state      *State
	profiling  bool

	window        window.Window
	renderer      renderer.Renderer
	ownsRenderer  bool
	openPanel     bool
	panelScreen   tcell.Screen
	panel         panel.Panel
	loaderOptions []loader.LoaderBuilderOption

	scene        scene.Scene
	outer        scene.Node
	inner        scene.Node
	camera       camera.Camera
	orbit        camera.Controller
	page         page.Page
	orchestrator animation.Orchestrator
	controller   transform.Controller
	gizmo        transform.Gizmo
	sway         scene.Sway
	compositor   bloom.Compositor
	dispatcher   input.Dispatcher
	loader       loader.Loader
	engine       engine.Engine

	dragging    bool
	shiftDown   bool
	lastPointer [2]float32
	loadErr     error
	closed      bool
}

// App is one assembled scene with its render loop.
//
// Scene state is owned by the render goroutine. Accessors returning live components are meant
// for that goroutine, for tests driving Step directly, and for inspection after Run returns.
type App interface {
	// Load starts loading the configured model. The model is handed to the orchestrator on the
	// render goroutine once the load finishes.
	//
	// Parameters:
	//   - ctx: cancels the fetch
	//
	// Returns:
	//   - error: error if the load could not be started
	Load(ctx context.Context) error

	// Step runs exactly one tick.
	//
	// Parameters:
	//   - dt: the tick duration in seconds
	//
	// Returns:
	//   - error: the tick error, if any
	Step(dt float32) error

	// Run starts the control panel and the config watcher when enabled, then runs the engine
	// until the window closes, a quit command arrives or ctx is cancelled. It must be called
	// from the main goroutine.
	//
	// Parameters:
	//   - ctx: cancels the run
	//
	// Returns:
	//   - error: ErrClosed after Close
	Run(ctx context.Context) error

	// Quit stops a running app.
	Quit()

	// State returns a copy of the scene flags.
	State() State

	// Config returns a deep copy of the active configuration, including reloaded bloom
	// parameters.
	Config() config.Config

	// LoadError returns the error of the last failed load, or nil.
	LoadError() error

	Engine() engine.Engine
	Scene() scene.Scene

	// SceneGroup returns the outer group the pointer sway tilts.
	SceneGroup() scene.Node

	// ModelGroup returns the inner group holding the clone fan. The orchestrator animates it
	// and the transform controller edits it.
	ModelGroup() scene.Node

	Camera() camera.Camera
	Page() page.Page
	Orchestrator() animation.Orchestrator
	Controller() transform.Controller
	Compositor() bloom.Compositor
	Dispatcher() input.Dispatcher
	Panel() panel.Panel

	// Close releases everything the app created.
	Close()
}

var _ App = &app{}

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("app closed")

// New assembles an App from cfg. The config is normalized and validated first. Without
// WithRenderer, a window and a wgpu renderer are created.
//
// Parameters:
//   - cfg: the scene settings
//   - options: functional options to configure the app
//
// Returns:
//   - App: the assembled app
//   - error: error if the config is invalid or a component could not be created
func New(cfg config.Config, options ...AppBuilderOption) (App, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{
		mu:    &sync.Mutex{},
		cfg:   cfg,
		state: &State{},
	}
	*a.state = cfg.State
	for _, option := range options {
		option(a)
	}

	if a.renderer == nil {
		if err := a.openRenderer(); err != nil {
			return nil, err
		}
	}
	a.dispatcher = input.NewDispatcher()

	if err := a.buildScene(); err != nil {
		a.release()
		return nil, err
	}
	a.buildControls()
	if err := a.attachPanel(); err != nil {
		a.release()
		return nil, err
	}

	a.loader = loader.NewLoader(loader.BackendTypeGLTF,
		append(a.loaderOptions, loader.WithOnLoad(a.onLoad), loader.WithOnError(a.onLoadError))...)

	engineOptions := []engine.EngineBuilderOption{
		engine.WithRenderer(a.renderer),
		engine.WithCompositor(a.compositor),
		engine.WithScene(a.scene),
		engine.WithDispatcher(a.dispatcher),
		engine.WithLoader(a.loader),
		engine.WithUpdate(a.orchestrator.Advance),
		engine.WithLateUpdate(a.syncGizmo),
		engine.WithOnResize(a.onResize),
		engine.WithRenderFrameLimit(a.cfg.Window.FrameLimit),
		engine.WithProfiling(a.profiling),
	}
	if a.window != nil {
		engineOptions = append(engineOptions, engine.WithWindow(a.window))
	}
	a.engine = engine.NewEngine(engineOptions...)

	a.subscribe()
	return a, nil
}

// openRenderer creates the window, unless one was supplied, and the wgpu renderer on it.
func (a *app) openRenderer() error {
	if a.window == nil {
		wc := a.cfg.Window
		w, err := window.NewWindow(
			window.WithTitle(wc.Title),
			window.WithSize(wc.Width, wc.Height),
			window.WithSizeLimits(wc.MinWidth, wc.MinHeight, wc.MaxWidth, wc.MaxHeight),
		)
		if err != nil {
			return fmt.Errorf("failed to create window: %w", err)
		}
		a.window = w
	}

	mode := renderer.PresentModeVSync
	if a.cfg.Window.FrameLimit > 0 {
		mode = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, a.window, renderer.WithPresentMode(mode))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	a.renderer = r
	a.ownsRenderer = true
	return nil
}

// attachPanel opens the control panel when enabled and keeps it in sync with the controller.
func (a *app) attachPanel() error {
	opts := []panel.PanelBuilderOption{panel.WithTitle(a.cfg.Window.Title), panel.WithState(*a.state)}
	switch {
	case a.panelScreen != nil:
		a.panel = panel.NewPanel(a.panelScreen, a.dispatcher, opts...)
	case a.openPanel:
		p, err := panel.Open(a.dispatcher, opts...)
		if err != nil {
			return fmt.Errorf("failed to open control panel: %w", err)
		}
		a.panel = p
	default:
		return nil
	}
	a.panel.Update(a.controller.Snapshot())
	a.controller.Subscribe(a.panel.Update)
	return nil
}

func (a *app) Load(ctx context.Context) error {
	source := a.cfg.Model.Path
	log.Printf("[App] loading %s", source)
	if err := a.loader.Load(ctx, source); err != nil {
		return fmt.Errorf("failed to start loading %s: %w", source, err)
	}
	return nil
}

func (a *app) Step(dt float32) error {
	return a.engine.Step(dt)
}

func (a *app) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-ctx.Done():
			a.engine.Quit()
		case <-a.engine.Done():
			cancel()
		}
	}()

	var wg sync.WaitGroup
	if a.panel != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.panel.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[App] control panel stopped: %v", err)
			}
		}()
	}
	if a.configPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := config.Watch(ctx, a.configPath, func(c config.Config) {
				_ = a.dispatcher.Push(input.Event{Kind: input.KindConfig, Payload: c})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[App] config watcher stopped: %v", err)
			}
		}()
	}

	a.engine.Run()
	cancel()
	if a.panel != nil {
		a.panel.Close()
	}
	wg.Wait()
	return nil
}

func (a *app) Quit() {
	a.engine.Quit()
}

func (a *app) State() State {
	return *a.state
}

func (a *app) Config() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Clone()
}

func (a *app) LoadError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadErr
}

func (a *app) Engine() engine.Engine {
	return a.engine
}

func (a *app) Scene() scene.Scene {
	return a.scene
}

func (a *app) SceneGroup() scene.Node {
	return a.outer
}

func (a *app) ModelGroup() scene.Node {
	return a.inner
}

func (a *app) Camera() camera.Camera {
	return a.camera
}

func (a *app) Page() page.Page {
	return a.page
}

func (a *app) Orchestrator() animation.Orchestrator {
	return a.orchestrator
}

func (a *app) Controller() transform.Controller {
	return a.controller
}

func (a *app) Compositor() bloom.Compositor {
	return a.compositor
}

func (a *app) Dispatcher() input.Dispatcher {
	return a.dispatcher
}

func (a *app) Panel() panel.Panel {
	return a.panel
}

func (a *app) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.engine.Quit()
	a.loader.Close()
	a.release()
}

// release tears down the components created so far. The loader and engine are handled by Close.
func (a *app) release() {
	if a.panel != nil {
		a.panel.Close()
	}
	if a.orchestrator != nil {
		a.orchestrator.Close()
	}
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.compositor != nil {
		a.compositor.Release()
	}
	if a.scene != nil {
		a.scene.Close()
	}
	if a.ownsRenderer && a.renderer != nil {
		a.renderer.Release()
	}
}
