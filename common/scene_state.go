package common

// SceneState is the set of flags shared by the scene's components. It is owned by the render
// goroutine: input handlers and the orchestrator change it between ticks, and other goroutines
// only ever see copies.
type SceneState struct {
	// BloomEnabled selects the selective bloom compositor over a plain render.
	BloomEnabled bool `toml:"bloom_enabled" yaml:"bloom_enabled"`

	// OrbitEnabled lets pointer drags and the wheel drive the orbit camera.
	OrbitEnabled bool `toml:"orbit_enabled" yaml:"orbit_enabled"`

	// PanelVisible shows the control panel.
	PanelVisible bool `toml:"panel_visible" yaml:"panel_visible"`

	// ScrollEnabled unlocks page scrolling. Set when the entrance sequence finishes.
	ScrollEnabled bool `toml:"scroll_enabled" yaml:"scroll_enabled"`

	// SwayReady lets pointer movement tilt the scene.
	SwayReady bool `toml:"sway_ready" yaml:"sway_ready"`
}
