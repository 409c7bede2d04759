// Package config holds the startup settings of the scene and reads and writes them as TOML or
// YAML, picked by file extension.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/animation"
	"github.com/Carmen-Shannon/oxy-bloom/engine/page"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bloom/engine/transform"
	"github.com/Carmen-Shannon/oxy-bloom/engine/window"
	"github.com/chewxy/math32"
	"github.com/jinzhu/copier"
)

// ErrInvalid is returned by Load for settings Normalize cannot repair.
var ErrInvalid = errors.New("invalid config")

// WindowConfig sizes the window.
type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`

	// Resize limits of the client area. The initial size is clamped into them.
	MinWidth  int `toml:"min_width" yaml:"min_width"`
	MinHeight int `toml:"min_height" yaml:"min_height"`
	MaxWidth  int `toml:"max_width" yaml:"max_width"`
	MaxHeight int `toml:"max_height" yaml:"max_height"`

	// FrameLimit caps the render rate. 0 renders at display refresh.
	FrameLimit float64 `toml:"frame_limit" yaml:"frame_limit"`
}

// ModelConfig names the asset to load.
type ModelConfig struct {
	// Path is a file path or http(s) URL of a glTF or GLB asset. No decoder for
	// KHR_draco_mesh_compression is registered by default, so an asset that requires it fails
	// with loader.ErrUnsupportedExtension unless one is passed through app.WithLoaderOptions.
	Path string `toml:"path" yaml:"path"`
}

// CameraConfig places the orthographic camera and its orbit pivot.
type CameraConfig struct {
	FrustumSize float32    `toml:"frustum_size" yaml:"frustum_size"`
	Near        float32    `toml:"near" yaml:"near"`
	Far         float32    `toml:"far" yaml:"far"`
	Position    [3]float32 `toml:"position" yaml:"position"`
	Target      [3]float32 `toml:"target" yaml:"target"`
}

// FogConfig is exponential-squared fog.
type FogConfig struct {
	Color   string  `toml:"color" yaml:"color"`
	Density float32 `toml:"density" yaml:"density"`
}

// LightConfig is one ambient or point light.
type LightConfig struct {
	Name      string     `toml:"name" yaml:"name"`
	Type      string     `toml:"type" yaml:"type"`
	Color     string     `toml:"color" yaml:"color"`
	Intensity float32    `toml:"intensity" yaml:"intensity"`
	Position  [3]float32 `toml:"position" yaml:"position"`
}

// Light type names accepted in LightConfig.Type.
const (
	LightAmbient = "ambient"
	LightPoint   = "point"
)

// PageConfig lays out the virtual document the scroll tweens read.
type PageConfig struct {
	ViewportHeight float32        `toml:"viewport_height" yaml:"viewport_height"`
	Sections       []page.Section `toml:"sections" yaml:"sections"`
}

// ControllerConfig seeds the transform controller.
type ControllerConfig struct {
	Step float32              `toml:"step" yaml:"step"`
	Snap transform.SnapValues `toml:"snap" yaml:"snap"`
}

// Config is the full set of startup settings.
type Config struct {
	Window       WindowConfig           `toml:"window" yaml:"window"`
	Model        ModelConfig            `toml:"model" yaml:"model"`
	Background   string                 `toml:"background" yaml:"background"`
	Bloom        renderer.BloomParams   `toml:"bloom" yaml:"bloom"`
	Camera       CameraConfig           `toml:"camera" yaml:"camera"`
	Fog          FogConfig              `toml:"fog" yaml:"fog"`
	Lights       []LightConfig          `toml:"lights" yaml:"lights"`
	Page         PageConfig             `toml:"page" yaml:"page"`
	Controller   ControllerConfig       `toml:"controller" yaml:"controller"`
	Choreography animation.Choreography `toml:"choreography" yaml:"choreography"`

	// SwayAmplitude is the outer group tilt in radians at a pointer offset of 1.
	SwayAmplitude float32 `toml:"sway_amplitude" yaml:"sway_amplitude"`

	// State is the initial set of scene flags.
	State common.SceneState `toml:"state" yaml:"state"`
}

// Default returns the stock scene settings.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "oxy-bloom",
			Width:     1280,
			Height:    720,
			MinWidth:  window.DefaultMinWidth,
			MinHeight: window.DefaultMinHeight,
			MaxWidth:  window.DefaultMaxWidth,
			MaxHeight: window.DefaultMaxHeight,
		},
		Model:  ModelConfig{Path: "assets/model.glb"},

		Background: "#000000",
		Bloom:      renderer.DefaultBloomParams(),
		Camera: CameraConfig{
			FrustumSize: 10,
			Near:        0.1,
			Far:         100,
			Position:    [3]float32{0, -1, 6},
		},
		Fog: FogConfig{Color: "#000000", Density: 0.03},
		Lights: []LightConfig{
			{Name: "ambient", Type: LightAmbient, Color: "#2a2a2a", Intensity: 0.3},
			{Name: "key", Type: LightPoint, Color: "#74A552", Intensity: 200, Position: [3]float32{4.486, 13.285, -20.608}},
			{Name: "under", Type: LightPoint, Color: "#74A552", Intensity: 50, Position: [3]float32{-1.124, -4, -0.961}},
			{Name: "left", Type: LightPoint, Color: "#74A552", Intensity: 150, Position: [3]float32{-4.584, 1.934, -0.118}},
			{Name: "right", Type: LightPoint, Color: "#74A552", Intensity: 150, Position: [3]float32{4.567, 3.043, 0.722}},
			{Name: "low", Type: LightPoint, Color: "#74A552", Intensity: 50, Position: [3]float32{2.037, -3.544, -0.579}},
			{Name: "accent_back", Type: LightPoint, Color: "#1a1a1a", Intensity: 80, Position: [3]float32{0, -8, -5}},
			{Name: "accent_side", Type: LightPoint, Color: "#2d2d2d", Intensity: 60, Position: [3]float32{-6, 2, 3}},
		},
		Page: PageConfig{
			ViewportHeight: 720,
			Sections: []page.Section{
				{Name: "section1", Top: 0, Height: 720},
				{Name: "section2", Top: 720, Height: 1440},
			},
		},
		Controller: ControllerConfig{
			Step: transform.DefaultStep,
			Snap: transform.DefaultSnapValues(),
		},
		Choreography:  animation.DefaultChoreography(),
		SwayAmplitude: 0.02,
	}
}

// Clone returns a deep copy. The copy shares no slice backing arrays with c, so editing its
// lights or page sections leaves c untouched.
//
// Returns:
//   - Config: the copy
func (c Config) Clone() Config {
	var out Config
	if err := copier.CopyWithOption(&out, &c, copier.Option{DeepCopy: true}); err != nil {
		log.Printf("[Config] deep copy failed, copying lists by hand: %v", err)
		out = c
		out.Lights = append([]LightConfig(nil), c.Lights...)
		out.Page.Sections = append([]page.Section(nil), c.Page.Sections...)
	}
	if c.Lights == nil {
		out.Lights = nil
	}
	if c.Page.Sections == nil {
		out.Page.Sections = nil
	}
	return out
}

// Normalize returns a copy with every out-of-range value clamped or replaced by its default.
//
// Returns:
//   - Config: the normalized copy
func (c Config) Normalize() Config {
	c = c.Clone()
	d := Default()

	if c.Window.Title == "" {
		c.Window.Title = d.Window.Title
	}
	w := &c.Window
	if w.MinWidth <= 0 {
		w.MinWidth = d.Window.MinWidth
	}
	if w.MinHeight <= 0 {
		w.MinHeight = d.Window.MinHeight
	}
	if w.MaxWidth <= 0 {
		w.MaxWidth = d.Window.MaxWidth
	}
	if w.MaxHeight <= 0 {
		w.MaxHeight = d.Window.MaxHeight
	}
	w.MaxWidth = max(w.MaxWidth, w.MinWidth)
	w.MaxHeight = max(w.MaxHeight, w.MinHeight)
	w.Width = common.Clamp(w.Width, w.MinWidth, w.MaxWidth)
	w.Height = common.Clamp(w.Height, w.MinHeight, w.MaxHeight)
	c.Window.FrameLimit = max(c.Window.FrameLimit, 0)

	c.Bloom = c.Bloom.Clamp()

	if c.Camera.FrustumSize <= 0 {
		c.Camera.FrustumSize = d.Camera.FrustumSize
	}
	if c.Camera.Near <= 0 {
		c.Camera.Near = d.Camera.Near
	}
	if c.Camera.Far <= c.Camera.Near {
		c.Camera.Far = max(d.Camera.Far, c.Camera.Near*2)
	}

	c.Fog.Density = max(c.Fog.Density, 0)
	for i := range c.Lights {
		c.Lights[i].Intensity = max(c.Lights[i].Intensity, 0)
	}

	if c.Page.ViewportHeight <= 0 {
		c.Page.ViewportHeight = float32(c.Window.Height)
	}
	for i := range c.Page.Sections {
		c.Page.Sections[i].Height = max(c.Page.Sections[i].Height, 0)
	}

	if math32.IsNaN(c.Controller.Step) {
		c.Controller.Step = transform.MinStep
	}
	c.Controller.Step = common.Clamp(c.Controller.Step, transform.MinStep, transform.MaxStep)
	if c.Controller.Snap.Translation <= 0 {
		c.Controller.Snap.Translation = d.Controller.Snap.Translation
	}
	if c.Controller.Snap.Rotation <= 0 {
		c.Controller.Snap.Rotation = d.Controller.Snap.Rotation
	}
	if c.Controller.Snap.Scale <= 0 {
		c.Controller.Snap.Scale = d.Controller.Snap.Scale
	}

	ch := &c.Choreography
	ch.CloneCount = common.Clamp(ch.CloneCount, 0, 1000)
	ch.FadeDuration = max(ch.FadeDuration, 0)
	ch.EntranceDuration = max(ch.EntranceDuration, 0)
	ch.StaggerDelay = max(ch.StaggerDelay, 0)
	ch.StaggerDuration = max(ch.StaggerDuration, 0)
	ch.Scrub = max(ch.Scrub, 0)
	if ch.Ease == "" {
		ch.Ease = d.Choreography.Ease
	}

	if c.SwayAmplitude < 0 {
		c.SwayAmplitude = d.SwayAmplitude
	}
	return c
}

// Validate reports settings Normalize leaves alone because no default fits them.
//
// Returns:
//   - error: ErrInvalid wrapped with the first problem, or nil
func (c Config) Validate() error {
	if c.Model.Path == "" {
		return fmt.Errorf("%w: model.path is empty", ErrInvalid)
	}
	for _, l := range c.Lights {
		if l.Type != LightAmbient && l.Type != LightPoint {
			return fmt.Errorf("%w: light %q has type %q", ErrInvalid, l.Name, l.Type)
		}
		if _, err := common.ParseHexColor(l.Color); err != nil {
			return fmt.Errorf("%w: light %q: %v", ErrInvalid, l.Name, err)
		}
	}
	for _, hex := range []string{c.Background, c.Fog.Color, c.Choreography.MaterialColor} {
		if _, err := common.ParseHexColor(hex); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	return nil
}

// Load reads a TOML or YAML file over the defaults, then normalizes and validates the result.
// Keys missing from the file keep their default values.
//
// Parameters:
//   - path: the file path; the extension picks the format
//
// Returns:
//   - Config: the loaded settings
//   - error: an error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	c, err := decode(format, data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// decode unmarshals data over the defaults. List fields start empty so a file's lists replace
// the default ones instead of merging into them; lists the file omits (or leaves empty) keep
// their defaults.
func decode(format Format, data []byte) (Config, error) {
	d := Default()
	c := d
	c.Lights = nil
	c.Page.Sections = nil
	if err := Unmarshal(format, data, &c); err != nil {
		return Config{}, err
	}
	if len(c.Lights) == 0 {
		c.Lights = d.Lights
	}
	if len(c.Page.Sections) == 0 {
		c.Page.Sections = d.Page.Sections
	}
	return c, nil
}

// Save writes c to path in the format its extension names.
//
// Parameters:
//   - path: the destination file
//   - c: the settings
//
// Returns:
//   - error: an error if encoding or writing fails
func Save(path string, c Config) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(format, c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
