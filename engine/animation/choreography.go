package animation

import "github.com/Carmen-Shannon/oxy-bloom/common"

// Choreography holds the poses, timings and scroll bindings of the entrance sequence and
// the scroll-linked phase.
type Choreography struct {
	// Ease names the curve of every entrance and scroll tween.
	Ease string `toml:"ease" yaml:"ease"`

	// FadeDuration is the opacity fade length of each mesh. Fades run one after another.
	FadeDuration float32 `toml:"fade_duration" yaml:"fade_duration"`

	// EntranceOffset positions the scale, rotation and position entries on the timeline.
	EntranceOffset string `toml:"entrance_offset" yaml:"entrance_offset"`

	// EntranceDuration is the length of each scale, rotation and position entry.
	EntranceDuration float32 `toml:"entrance_duration" yaml:"entrance_duration"`

	// MaterialColor, Metalness and Roughness are applied to every model mesh on load.
	MaterialColor string  `toml:"material_color" yaml:"material_color"`
	Metalness     float32 `toml:"metalness" yaml:"metalness"`
	Roughness     float32 `toml:"roughness" yaml:"roughness"`

	// ModelScale is the fixed scale of the loaded model inside the group.
	ModelScale [3]float32 `toml:"model_scale" yaml:"model_scale"`

	// GroupScale is the uniform scale the group grows to.
	GroupScale float32 `toml:"group_scale" yaml:"group_scale"`

	// RotationStart and RotationEnd bound the entrance rotation of the group.
	RotationStart [3]float32 `toml:"rotation_start" yaml:"rotation_start"`
	RotationEnd   [3]float32 `toml:"rotation_end" yaml:"rotation_end"`

	// Resting is where the group ends the entrance sequence. NarrowResting replaces it when
	// the viewport is narrower than NarrowBreakpoint.
	Resting          [3]float32 `toml:"resting" yaml:"resting"`
	NarrowResting    [3]float32 `toml:"narrow_resting" yaml:"narrow_resting"`
	NarrowBreakpoint float32    `toml:"narrow_breakpoint" yaml:"narrow_breakpoint"`

	// CloneCount is the size of the clone row.
	CloneCount int `toml:"clone_count" yaml:"clone_count"`

	// StaggerDelay and StaggerDuration time the clone fan.
	StaggerDelay    float32 `toml:"stagger_delay" yaml:"stagger_delay"`
	StaggerDuration float32 `toml:"stagger_duration" yaml:"stagger_duration"`

	// ScrollSection names the page section driving the scroll-linked phase.
	ScrollSection string  `toml:"scroll_section" yaml:"scroll_section"`
	ScrollStart   string  `toml:"scroll_start" yaml:"scroll_start"`
	ScrollEnd     string  `toml:"scroll_end" yaml:"scroll_end"`
	Scrub         float32 `toml:"scrub" yaml:"scrub"`

	// ScrollRotation and ScrollPosition are the group pose at full scroll progress.
	ScrollRotation [3]float32 `toml:"scroll_rotation" yaml:"scroll_rotation"`
	ScrollPosition [3]float32 `toml:"scroll_position" yaml:"scroll_position"`

	// SwayStart and SwayEnd bound the trigger that marks the scene ready for pointer sway.
	SwayStart string `toml:"sway_start" yaml:"sway_start"`
	SwayEnd   string `toml:"sway_end" yaml:"sway_end"`
}

// DefaultChoreography returns the stock entrance and scroll choreography.
//
// Returns:
//   - Choreography: the defaults
func DefaultChoreography() Choreography {
	return Choreography{
		Ease:             "power2.inOut",
		FadeDuration:     3,
		EntranceOffset:   "-=1.3",
		EntranceDuration: 1,
		MaterialColor:    "#6EB744",
		Metalness:        0.1,
		Roughness:        0.5,
		ModelScale:       [3]float32{0.2, 0.2, 0.1},
		GroupScale:       7.5,
		RotationStart:    [3]float32{0.109, -0.05, 0.005},
		RotationEnd:      [3]float32{0.106, 0.029, -0.578},
		Resting:          [3]float32{-4, 1.493, 2.146},
		NarrowResting:    [3]float32{2, 1.493, 2.146},
		NarrowBreakpoint: 500,
		CloneCount:       60,
		StaggerDelay:     1,
		StaggerDuration:  1,
		ScrollSection:    "section2",
		ScrollStart:      "top bottom",
		ScrollEnd:        "bottom bottom",
		Scrub:            DefaultScrub,
		ScrollRotation:   [3]float32{0.124, 0.16, -0.576},
		ScrollPosition:   [3]float32{-8.097, 4.662, 2.124},
		SwayStart:        "top 80%",
		SwayEnd:          "bottom bottom",
	}
}

// RestingFor picks the resting pose for a viewport width.
//
// Parameters:
//   - viewportWidth: the viewport width in pixels
//
// Returns:
//   - [3]float32: NarrowResting below the breakpoint, Resting otherwise
func (c Choreography) RestingFor(viewportWidth float32) [3]float32 {
	if viewportWidth < c.NarrowBreakpoint {
		return c.NarrowResting
	}
	return c.Resting
}

// Color parses MaterialColor, falling back to the stock green.
func (c Choreography) Color() [3]float32 {
	col, err := common.ParseHexColor(c.MaterialColor)
	if err != nil {
		return common.HexColor(0x6EB744)
	}
	return col
}
