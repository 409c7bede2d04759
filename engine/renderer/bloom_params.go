package renderer

import "github.com/Carmen-Shannon/oxy-bloom/common"

// BloomParams configures the glow post-process.
type BloomParams struct {
	// Threshold is the luminance below which pixels contribute no glow.
	Threshold float32 `toml:"threshold" yaml:"threshold"`

	// Strength scales the blurred glow before it is added to the scene.
	Strength float32 `toml:"strength" yaml:"strength"`

	// Radius widens the blur kernel; 0 is tight, 1 is the widest spread.
	Radius float32 `toml:"radius" yaml:"radius"`

	// Exposure scales the glow contribution after blurring.
	Exposure float32 `toml:"exposure" yaml:"exposure"`
}

// DefaultBloomParams returns threshold 0, strength 2, radius 0.4 and exposure 1.
func DefaultBloomParams() BloomParams {
	return BloomParams{Threshold: 0, Strength: 2, Radius: 0.4, Exposure: 1}
}

// Clamp returns a copy with every field limited to its usable range:
// threshold and radius to [0, 1], strength to [0, 10], exposure to [0, 4].
func (p BloomParams) Clamp() BloomParams {
	return BloomParams{
		Threshold: common.Clamp(p.Threshold, 0, 1),
		Strength:  common.Clamp(p.Strength, 0, 10),
		Radius:    common.Clamp(p.Radius, 0, 1),
		Exposure:  common.Clamp(p.Exposure, 0, 4),
	}
}
