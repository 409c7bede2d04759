package light

// Fog describes exponential-squared distance fog: factor = 1 - exp(-(density * depth)^2).
type Fog struct {
	Color   [3]float32
	Density float32
	Enabled bool
}

// NewFogExp2 creates an enabled exponential-squared fog.
//
// Parameters:
//   - color: the fog color
//   - density: the fog density
//
// Returns:
//   - Fog: the fog description
func NewFogExp2(color [3]float32, density float32) Fog {
	return Fog{Color: color, Density: density, Enabled: true}
}
