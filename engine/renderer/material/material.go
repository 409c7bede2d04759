package material

// Params is the plain, copyable description of a material's surface properties.
// It is exported so it can be serialized and compared in tests.
type Params struct {
	// Name is the material identifier.
	Name string

	// Color is the diffuse RGB color.
	Color [3]float32

	// Emissive is the RGB emissive color added on top of lighting.
	Emissive [3]float32

	// Opacity is the alpha multiplier; only honored when Transparent is true.
	Opacity float32

	// Metalness is the metallic factor (0.0 = dielectric, 1.0 = metal).
	Metalness float32

	// Roughness is the roughness factor (0.0 = smooth, 1.0 = rough).
	Roughness float32

	// Transparent enables alpha blending for this material.
	Transparent bool

	// Unlit skips lighting and fog; the color is written as-is.
	Unlit bool
}

// material is the implementation of the Material interface.
type material struct {
	params Params
}

// Material defines the interface for a render material, encapsulating the surface
// properties the mesh pipeline reads each draw.
//
// Materials are reference values: two Material values are the same material only when
// they point at the same instance. The bloom compositor relies on this identity when it
// swaps and restores materials.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the diffuse RGB color of the material.
	//
	// Returns:
	//   - [3]float32: the diffuse color
	Color() [3]float32

	// SetColor sets the diffuse RGB color of the material.
	//
	// Parameters:
	//   - c: the new diffuse color
	SetColor(c [3]float32)

	// Emissive retrieves the emissive RGB color of the material.
	//
	// Returns:
	//   - [3]float32: the emissive color
	Emissive() [3]float32

	// Opacity retrieves the alpha multiplier of the material.
	//
	// Returns:
	//   - float32: the opacity in [0, 1]
	Opacity() float32

	// SetOpacity sets the alpha multiplier of the material. Values are clamped to [0, 1].
	//
	// Parameters:
	//   - o: the new opacity
	SetOpacity(o float32)

	// Metalness retrieves the metallic factor of the material.
	//
	// Returns:
	//   - float32: the metallic factor
	Metalness() float32

	// SetMetalness sets the metallic factor of the material.
	//
	// Parameters:
	//   - v: the new metallic factor
	SetMetalness(v float32)

	// Roughness retrieves the roughness factor of the material.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// SetRoughness sets the roughness factor of the material.
	//
	// Parameters:
	//   - v: the new roughness factor
	SetRoughness(v float32)

	// Transparent reports whether the material is alpha blended.
	//
	// Returns:
	//   - bool: true if alpha blending is enabled
	Transparent() bool

	// SetTransparent enables or disables alpha blending.
	//
	// Parameters:
	//   - t: true to enable alpha blending
	SetTransparent(t bool)

	// Unlit reports whether the material bypasses lighting and fog.
	//
	// Returns:
	//   - bool: true if the material is unlit
	Unlit() bool

	// Params returns a copy of the material's surface properties.
	//
	// Returns:
	//   - Params: the current parameters
	Params() Params

	// GPUData packs the material into its GPU uniform layout.
	//
	// Returns:
	//   - GPUMaterial: the packed uniform
	GPUData() GPUMaterial
}

var _ Material = &material{}

// NewMaterial creates a new Material instance with the provided options.
// Defaults to an opaque white, non-metallic, fully rough lit surface.
//
// Parameters:
//   - options: a variadic list of MaterialBuilderOption functions to configure the Material
//
// Returns:
//   - Material: a new instance of Material configured with the provided options
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		params: Params{
			Color:     [3]float32{1, 1, 1},
			Opacity:   1,
			Roughness: 1,
		},
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// NewDarkMaterial creates the flat placeholder the bloom compositor swaps onto non-glowing meshes:
// unlit, opaque and black, so only bloom-layer meshes contribute light to the bloom target.
//
// Returns:
//   - Material: the dark placeholder material
func NewDarkMaterial() Material {
	return NewMaterial(
		WithName("bloom_dark"),
		WithColor([3]float32{0, 0, 0}),
		WithUnlit(true),
	)
}

func (m *material) Name() string {
	return m.params.Name
}

func (m *material) Color() [3]float32 {
	return m.params.Color
}

func (m *material) SetColor(c [3]float32) {
	m.params.Color = c
}

func (m *material) Emissive() [3]float32 {
	return m.params.Emissive
}

func (m *material) Opacity() float32 {
	return m.params.Opacity
}

func (m *material) SetOpacity(o float32) {
	m.params.Opacity = min(max(o, 0), 1)
}

func (m *material) Metalness() float32 {
	return m.params.Metalness
}

func (m *material) SetMetalness(v float32) {
	m.params.Metalness = v
}

func (m *material) Roughness() float32 {
	return m.params.Roughness
}

func (m *material) SetRoughness(v float32) {
	m.params.Roughness = v
}

func (m *material) Transparent() bool {
	return m.params.Transparent
}

func (m *material) SetTransparent(t bool) {
	m.params.Transparent = t
}

func (m *material) Unlit() bool {
	return m.params.Unlit
}

func (m *material) Params() Params {
	return m.params
}

func (m *material) GPUData() GPUMaterial {
	p := m.params
	alpha := float32(1)
	if p.Transparent {
		alpha = p.Opacity
	}
	unlit := float32(0)
	if p.Unlit {
		unlit = 1
	}
	return GPUMaterial{
		Color:    [4]float32{p.Color[0], p.Color[1], p.Color[2], alpha},
		Emissive: [4]float32{p.Emissive[0], p.Emissive[1], p.Emissive[2], 0},
		Surface:  [4]float32{p.Metalness, p.Roughness, unlit, 0},
	}
}
