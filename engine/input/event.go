// Package input queues events raised outside the render goroutine (window callbacks, the
// terminal panel, the config watcher) and delivers them on the render goroutine between ticks.
package input

import "github.com/Carmen-Shannon/oxy-bloom/common"

// Kind identifies the event type. Handlers subscribe per kind.
type Kind int

const (
	// KindKeyDown is a key press or repeat. Key holds the key code.
	KindKeyDown Kind = iota

	// KindKeyUp is a key release. Key holds the key code.
	KindKeyUp

	// KindScroll is a wheel movement. Delta is positive when scrolling up.
	KindScroll

	// KindPointer is a cursor move. X and Y are normalized to [-1, 1], y up.
	KindPointer

	// KindResize is a framebuffer resize. Width and Height are in pixels.
	KindResize

	// KindCommand is a control action from the keymap or the panel.
	KindCommand

	// KindConfig carries a reloaded configuration in Payload.
	KindConfig

	// KindButton is a mouse button press or release. Key holds the button index.
	KindButton

	kindCount
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindKeyDown:
		return "key_down"
	case KindKeyUp:
		return "key_up"
	case KindScroll:
		return "scroll"
	case KindPointer:
		return "pointer"
	case KindResize:
		return "resize"
	case KindCommand:
		return "command"
	case KindConfig:
		return "config"
	case KindButton:
		return "button"
	default:
		return "unknown"
	}
}

// Action is a control action carried by a KindCommand event.
type Action int

const (
	ActionNone Action = iota
	ActionSetMode
	ActionNudge
	ActionSetStep
	ActionToggleSnap
	ActionSnapHeld
	ActionToggleAxis
	ActionToggleSpace
	ActionResizeGizmo
	ActionToggleOrbit
	ActionToggleBloom
	ActionTogglePanel
	ActionResetGizmo
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:        "none",
	ActionSetMode:     "set_mode",
	ActionNudge:       "nudge",
	ActionSetStep:     "set_step",
	ActionToggleSnap:  "toggle_snap",
	ActionSnapHeld:    "snap_held",
	ActionToggleAxis:  "toggle_axis",
	ActionToggleSpace: "toggle_space",
	ActionResizeGizmo: "resize_gizmo",
	ActionToggleOrbit: "toggle_orbit",
	ActionToggleBloom: "toggle_bloom",
	ActionTogglePanel: "toggle_panel",
	ActionResetGizmo:  "reset_gizmo",
	ActionQuit:        "quit",
}

// String returns the action name.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Command is a control action with its argument. Which fields are read depends on Action:
// Mode for ActionSetMode and ActionToggleSnap, Axis and Sign for ActionNudge, Axis for
// ActionToggleAxis, Sign for ActionResizeGizmo, Value for ActionSetStep, Held for ActionSnapHeld.
type Command struct {
	Action Action
	Mode   int
	Axis   common.Axis
	Sign   int
	Value  float32
	Held   bool
}

// Event is one queued input event.
type Event struct {
	Kind    Kind
	Key     uint32
	Delta   float32
	X, Y    float32
	Width   int
	Height  int
	Pressed bool
	Command Command
	Payload any
}

// KeyDown builds a KindKeyDown event.
func KeyDown(key uint32) Event {
	return Event{Kind: KindKeyDown, Key: key}
}

// KeyUp builds a KindKeyUp event.
func KeyUp(key uint32) Event {
	return Event{Kind: KindKeyUp, Key: key}
}

// Scroll builds a KindScroll event.
func Scroll(delta float32) Event {
	return Event{Kind: KindScroll, Delta: delta}
}

// Pointer builds a KindPointer event from a cursor position in pixels, normalized against the
// viewport so that the left edge is -1, the right edge 1, the top edge 1 and the bottom edge -1.
//
// Parameters:
//   - cx, cy: the cursor position in pixels, origin top-left
//   - width, height: the viewport size in pixels
//
// Returns:
//   - Event: the pointer event, or a zero-position event for an empty viewport
func Pointer(cx, cy float32, width, height int) Event {
	if width <= 0 || height <= 0 {
		return Event{Kind: KindPointer}
	}
	return Event{
		Kind: KindPointer,
		X:    cx/float32(width)*2 - 1,
		Y:    -(cy/float32(height))*2 + 1,
	}
}

// Button builds a KindButton event.
func Button(button uint32, pressed bool) Event {
	return Event{Kind: KindButton, Key: button, Pressed: pressed}
}

// Resize builds a KindResize event.
func Resize(width, height int) Event {
	return Event{Kind: KindResize, Width: width, Height: height}
}

// Do builds a KindCommand event.
func Do(c Command) Event {
	return Event{Kind: KindCommand, Command: c}
}
