// Package engine runs the render loop: one goroutine ticks the scene once per frame while the
// window message pump stays on the main thread.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-bloom/engine/bloom"
	"github.com/Carmen-Shannon/oxy-bloom/engine/input"
	"github.com/Carmen-Shannon/oxy-bloom/engine/loader"
	"github.com/Carmen-Shannon/oxy-bloom/engine/profiler"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/Carmen-Shannon/oxy-bloom/engine/window"
)

var (
	// ErrTickPanic is returned by Step when a tick panicked. The engine quits after it.
	ErrTickPanic = errors.New("tick panicked")

	// ErrNoCamera is returned by Step when the scene has no camera to render with.
	ErrNoCamera = errors.New("scene has no camera")
)

// engine implements the Engine interface.
// Coordinates the render goroutine and the window thread.
type engine struct {
	mu      *sync.Mutex
	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window     window.Window
	renderer   renderer.Renderer
	compositor bloom.Compositor
	scene      scene.Scene
	dispatcher input.Dispatcher
	loader     loader.Loader

	profiler         *profiler.Profiler
	profilingEnabled bool

	updateCallback     func(deltaTime float32)
	lateUpdateCallback func(deltaTime float32)
	resizeCallback     func(width, height int)

	ticks            uint64
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It owns the tick order, the render goroutine, and the window wiring.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer frames are drawn through.
	Renderer() renderer.Renderer

	// Compositor returns the bloom compositor, or nil when the scene is drawn directly.
	Compositor() bloom.Compositor

	// Scene returns the rendered scene.
	Scene() scene.Scene

	// Dispatcher returns the input queue drained at the start of each tick.
	Dispatcher() input.Dispatcher

	// Loader returns the model loader whose results are drained each tick, or nil.
	Loader() loader.Loader

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetUpdateCallback registers the function called each tick after input and loads are
	// drained and before the transform store resolves.
	//
	// Parameters:
	//   - callback: receives the delta time in seconds
	SetUpdateCallback(callback func(deltaTime float32))

	// SetLateUpdateCallback registers the function called each tick after the transform store
	// resolves and before rendering.
	//
	// Parameters:
	//   - callback: receives the delta time in seconds
	SetLateUpdateCallback(callback func(deltaTime float32))

	// SetResizeCallback registers the function called on the render goroutine after the
	// renderer, compositor and camera have been resized.
	//
	// Parameters:
	//   - callback: receives the new surface size in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Step runs exactly one tick on the calling goroutine:
	// drain input, drain loads, update, resolve transforms, late update, render, present,
	// profile. A panic is recovered, logged, and makes the engine quit.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous tick
	//
	// Returns:
	//   - error: the first render error of the tick, or ErrTickPanic
	Step(deltaTime float32) error

	// Ticks returns the number of ticks started so far.
	Ticks() uint64

	// Run starts the render goroutine and pumps window messages until the window closes or
	// Quit is called. Without a window it blocks until Quit.
	Run()

	// Quit signals the render goroutine to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done returns a channel closed once the engine has been asked to quit.
	Done() <-chan struct{}
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// A dispatcher is created when none is supplied. When a window is supplied its callbacks are
// routed into the dispatcher, and resize events are handled on the render goroutine.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		quitChannel: make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}
	if e.dispatcher == nil {
		e.dispatcher = input.NewDispatcher()
	}

	e.dispatcher.Subscribe(input.KindResize, func(ev input.Event) {
		e.handleResize(ev.Width, ev.Height)
	})
	if e.window != nil {
		e.bindWindow()
	}
	return e
}

// bindWindow forwards window callbacks into the dispatcher. The callbacks run on the main thread,
// so they only enqueue.
func (e *engine) bindWindow() {
	push := func(ev input.Event) {
		_ = e.dispatcher.Push(ev)
	}
	e.window.SetResizeCallback(func(width, height int) {
		push(input.Resize(width, height))
	})
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		push(input.KeyDown(keyCode))
	})
	e.window.SetKeyUpCallback(func(keyCode uint32) {
		push(input.KeyUp(keyCode))
	})
	e.window.SetScrollCallback(func(delta float32) {
		push(input.Scroll(delta))
	})
	e.window.SetMouseButtonCallback(func(button window.MouseButton, pressed bool, _, _ int32) {
		push(input.Button(uint32(button), pressed))
	})
	e.window.SetMouseMoveCallback(func(x, y int32) {
		push(input.Pointer(float32(x), float32(y), e.window.Width(), e.window.Height()))
	})
}

// handleResize resizes everything sized to the surface. Zero sizes (minimized windows) are ignored.
func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	if e.compositor != nil {
		if err := e.compositor.Resize(width, height); err != nil {
			log.Printf("[Engine] failed to resize compositor: %v", err)
		}
	}
	if e.scene != nil {
		if cam := e.scene.Camera(); cam != nil {
			cam.SetAspect(float32(width) / float32(height))
		}
	}
	if e.resizeCallback != nil {
		e.resizeCallback(width, height)
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Compositor() bloom.Compositor {
	return e.compositor
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Dispatcher() input.Dispatcher {
	return e.dispatcher
}

func (e *engine) Loader() loader.Loader {
	return e.loader
}

func (e *engine) Step(deltaTime float32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] tick recovered from panic: %v", r)
			e.signalQuit()
			err = fmt.Errorf("%w: %v", ErrTickPanic, r)
		}
	}()

	e.mu.Lock()
	e.ticks++
	profiling := e.profilingEnabled
	e.mu.Unlock()
	start := time.Now()

	e.dispatcher.Drain()
	if e.loader != nil {
		e.loader.Drain()
	}
	if e.updateCallback != nil {
		e.updateCallback(deltaTime)
	}
	if e.scene != nil {
		e.scene.Resolve()
	}
	if e.lateUpdateCallback != nil {
		e.lateUpdateCallback(deltaTime)
	}

	err = e.render()

	if profiling && e.profiler != nil {
		e.profiler.Observe(time.Since(start))
		e.profiler.Tick()
	}
	return err
}

// render draws one frame. Present runs even when the compositor fails so the frame is never
// left open.
func (e *engine) render() error {
	if e.renderer == nil || e.scene == nil {
		return nil
	}
	cam := e.scene.Camera()
	if cam == nil {
		return ErrNoCamera
	}
	cam.Update()

	if err := e.renderer.BeginFrame(); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	var err error
	if e.compositor != nil {
		err = e.compositor.Render(e.scene, cam)
	} else {
		err = e.renderer.RenderScene(e.scene, cam, nil)
	}
	e.renderer.Present()
	return err
}

func (e *engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

func (e *engine) Run() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.handleRender()

	if e.window == nil {
		<-e.quitChannel
		e.wg.Wait()
		return
	}

	// The window can only be destroyed from the main thread, once the render goroutine has
	// stopped using its surface.
	closed := false
	closeWindow := func() {
		e.wg.Wait()
		if closed {
			return
		}
		closed = true
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] failed to close window: %v", err)
		}
	}
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			closeWindow()
		default:
		}
	})
	e.window.ProcessMessages()
	e.signalQuit()
	closeWindow()
}

// Quit signals all engine goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handleRender ticks until quit. Tick errors are logged and the loop continues; a panicking
// tick has already signalled quit by the time Step returns.
func (e *engine) handleRender() {
	defer e.wg.Done()

	lastRender := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		if err := e.Step(dt); err != nil {
			log.Printf("[Engine] tick failed: %v", err)
		}

		// Frame rate limiting
		e.mu.Lock()
		limit := e.renderFrameLimit
		e.mu.Unlock()
		if limit > 0 {
			if remaining := limit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetUpdateCallback(callback func(deltaTime float32)) {
	e.updateCallback = callback
}

func (e *engine) SetLateUpdateCallback(callback func(deltaTime float32)) {
	e.lateUpdateCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.resizeCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
