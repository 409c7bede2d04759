package material

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.params.Name = name
	}
}

// WithColor is an option builder that sets the diffuse RGB color of the material.
//
// Parameters:
//   - color: the diffuse color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.params.Color = color
	}
}

// WithEmissive is an option builder that sets the emissive RGB color of the material.
//
// Parameters:
//   - color: the emissive color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(color [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.params.Emissive = color
	}
}

// WithOpacity is an option builder that sets the alpha multiplier of the material.
//
// Parameters:
//   - opacity: the opacity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.params.Opacity = min(max(opacity, 0), 1)
	}
}

// WithMetalness is an option builder that sets the metallic factor of the material.
//
// Parameters:
//   - metalness: the metallic factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metalness option to a material
func WithMetalness(metalness float32) MaterialBuilderOption {
	return func(m *material) {
		m.params.Metalness = metalness
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.params.Roughness = roughness
	}
}

// WithTransparent is an option builder that enables alpha blending on the material.
//
// Parameters:
//   - transparent: true to blend using the material opacity
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transparency option to a material
func WithTransparent(transparent bool) MaterialBuilderOption {
	return func(m *material) {
		m.params.Transparent = transparent
	}
}

// WithUnlit is an option builder that makes the material bypass lighting and fog.
//
// Parameters:
//   - unlit: true to write the color without shading
//
// Returns:
//   - MaterialBuilderOption: a function that applies the unlit option to a material
func WithUnlit(unlit bool) MaterialBuilderOption {
	return func(m *material) {
		m.params.Unlit = unlit
	}
}

// WithParams is an option builder that replaces every surface property at once.
//
// Parameters:
//   - p: the full parameter set
//
// Returns:
//   - MaterialBuilderOption: a function that applies the parameters to a material
func WithParams(p Params) MaterialBuilderOption {
	return func(m *material) {
		m.params = p
	}
}
