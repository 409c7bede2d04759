package app

import (
	"log"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/config"
	"github.com/Carmen-Shannon/oxy-bloom/engine/input"
	"github.com/Carmen-Shannon/oxy-bloom/engine/transform"
	"github.com/Carmen-Shannon/oxy-bloom/engine/window"
)

// ScrollStep is the page scroll distance of one wheel notch, in document pixels.
const ScrollStep float32 = 100

var keymap = map[uint32]input.Command{
	common.KeyW:          {Action: input.ActionSetMode, Mode: int(transform.ModeTranslate)},
	common.KeyR:          {Action: input.ActionSetMode, Mode: int(transform.ModeRotate)},
	common.KeyS:          {Action: input.ActionSetMode, Mode: int(transform.ModeScale)},
	common.KeyQ:          {Action: input.ActionToggleSpace},
	common.KeyX:          {Action: input.ActionToggleAxis, Axis: common.AxisX},
	common.KeyY:          {Action: input.ActionToggleAxis, Axis: common.AxisY},
	common.KeyZ:          {Action: input.ActionToggleAxis, Axis: common.AxisZ},
	common.KeyEqual:      {Action: input.ActionResizeGizmo, Sign: 1},
	common.KeyKPAdd:      {Action: input.ActionResizeGizmo, Sign: 1},
	common.KeyMinus:      {Action: input.ActionResizeGizmo, Sign: -1},
	common.KeyKPSubtract: {Action: input.ActionResizeGizmo, Sign: -1},
	common.KeyEsc:        {Action: input.ActionResetGizmo},
	common.KeySpace:      {Action: input.ActionToggleOrbit},
	common.KeyH:          {Action: input.ActionTogglePanel},
	common.KeyB:          {Action: input.ActionToggleBloom},
}

// KeyCommand maps a window key code to its control command.
//
// Parameters:
//   - key: the key code
//
// Returns:
//   - input.Command: the command
//   - bool: false for unmapped keys
func KeyCommand(key uint32) (input.Command, bool) {
	c, ok := keymap[key]
	return c, ok
}

func (a *app) subscribe() {
	d := a.dispatcher
	d.Subscribe(input.KindKeyDown, a.handleKeyDown)
	d.Subscribe(input.KindKeyUp, a.handleKeyUp)
	d.Subscribe(input.KindScroll, a.handleScroll)
	d.Subscribe(input.KindPointer, a.handlePointer)
	d.Subscribe(input.KindButton, a.handleButton)
	d.Subscribe(input.KindCommand, func(ev input.Event) { a.apply(ev.Command) })
	d.Subscribe(input.KindConfig, a.handleConfig)
}

// handleKeyDown treats a held Shift as the snap modifier. Shift with a gizmo size key types
// "+" on most layouts, so that combination releases the snap hold before resizing.
func (a *app) handleKeyDown(ev input.Event) {
	if common.IsShift(ev.Key) {
		a.shiftDown = true
		a.apply(input.Command{Action: input.ActionSnapHeld, Held: true})
		return
	}
	c, ok := KeyCommand(ev.Key)
	if !ok {
		return
	}
	if a.shiftDown && c.Action == input.ActionResizeGizmo && a.controller.Snapshot().SnapHeld {
		a.apply(input.Command{Action: input.ActionSnapHeld, Held: false})
	}
	a.apply(c)
}

func (a *app) handleKeyUp(ev input.Event) {
	if common.IsShift(ev.Key) {
		a.shiftDown = false
		a.apply(input.Command{Action: input.ActionSnapHeld, Held: false})
	}
}

// handleScroll zooms the orbit camera while orbit is on and scrolls the page otherwise.
func (a *app) handleScroll(ev input.Event) {
	if a.state.OrbitEnabled {
		a.orbit.Zoom(ev.Delta)
		return
	}
	a.page.Scroll(-ev.Delta * ScrollStep)
}

// handlePointer feeds the sway and, during a left-button drag with orbit on, rotates the
// orbit camera by the pointer travel in pixels.
func (a *app) handlePointer(ev input.Event) {
	if a.dragging && a.state.OrbitEnabled {
		w, h := a.renderer.Size()
		dx := (ev.X - a.lastPointer[0]) * float32(w) / 2
		dy := -(ev.Y - a.lastPointer[1]) * float32(h) / 2
		a.orbit.Rotate(dx, dy)
	}
	a.lastPointer = [2]float32{ev.X, ev.Y}
	a.sway.SetPointer(ev.X, ev.Y)
}

func (a *app) handleButton(ev input.Event) {
	if ev.Key == uint32(window.MouseButtonLeft) {
		a.dragging = ev.Pressed
	}
}

// handleConfig applies the hot-reloadable part of a reloaded config.
func (a *app) handleConfig(ev input.Event) {
	cfg, ok := ev.Payload.(config.Config)
	if !ok {
		return
	}
	a.mu.Lock()
	a.cfg.Bloom = cfg.Bloom
	a.mu.Unlock()
	a.compositor.SetParams(cfg.Bloom)
	log.Printf("[App] bloom params reloaded: threshold %.2f, strength %.2f, radius %.2f, exposure %.2f",
		cfg.Bloom.Threshold, cfg.Bloom.Strength, cfg.Bloom.Radius, cfg.Bloom.Exposure)
}

// apply runs one control command against the controller and the scene flags, then publishes
// the flags to the panel.
func (a *app) apply(c input.Command) {
	switch c.Action {
	case input.ActionSetMode:
		a.controller.SetMode(transform.Mode(c.Mode))
	case input.ActionNudge:
		a.controller.Nudge(c.Axis, c.Sign)
	case input.ActionSetStep:
		a.controller.SetStep(c.Value)
	case input.ActionToggleSnap:
		a.controller.ToggleSnap(transform.Mode(c.Mode))
	case input.ActionSnapHeld:
		a.controller.SetSnapHeld(c.Held)
	case input.ActionToggleAxis:
		a.controller.ToggleAxis(c.Axis)
	case input.ActionToggleSpace:
		a.controller.ToggleSpace()
	case input.ActionResizeGizmo:
		a.controller.ResizeGizmo(c.Sign)
	case input.ActionToggleOrbit:
		a.controller.ToggleOrbit()
	case input.ActionToggleBloom:
		a.state.BloomEnabled = !a.state.BloomEnabled
	case input.ActionTogglePanel:
		a.state.PanelVisible = !a.state.PanelVisible
	case input.ActionResetGizmo:
		a.controller.Reset()
	case input.ActionQuit:
		a.engine.Quit()
		return
	default:
		return
	}
	if a.panel != nil {
		a.panel.SetState(*a.state)
	}
}
