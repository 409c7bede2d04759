package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxGPUPointLights is the number of point light slots in the scene uniform.
// Point lights beyond this budget are dropped in registration order.
const MaxGPUPointLights = 8

// GPUSceneLightingSource is the canonical WGSL definition of the SceneLighting struct.
// Matches GPUSceneLighting layout exactly (304 bytes, std140 aligned).
//
//go:embed assets/lighting.wgsl
var GPUSceneLightingSource string

// GPUPointLight is the GPU-aligned representation of a single point light.
// Size: 32 bytes.
type GPUPointLight struct {
	Position [4]float32 // offset  0: xyz world position, w = decay
	Color    [4]float32 // offset 16: rgb color premultiplied by intensity, w unused
}

// GPUSceneLighting is the GPU-aligned lighting + fog uniform read by the mesh fragment shader.
// Matches the WGSL SceneLighting struct layout exactly (see GPUSceneLightingSource).
type GPUSceneLighting struct {
	Ambient    [4]float32                       // offset  0: summed ambient rgb, w unused
	Fog        [4]float32                       // offset 16: fog rgb, w = density (0 disables)
	Counts     [4]uint32                        // offset 32: x = point light count
	PointLight [MaxGPUPointLights]GPUPointLight // offset 48: point lights
}

// Size returns the size of the GPUSceneLighting struct in bytes.
//
// Returns:
//   - int: the struct size in bytes
func (g *GPUSceneLighting) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSceneLighting struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: buffer ready for GPU upload
func (g *GPUSceneLighting) Marshal() []byte {
	buf := make([]byte, g.Size())
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}
	for i := 0; i < 4; i++ {
		put(i*4, g.Ambient[i])
		put(16+i*4, g.Fog[i])
		binary.LittleEndian.PutUint32(buf[32+i*4:36+i*4], g.Counts[i])
	}
	for l := range g.PointLight {
		base := 48 + l*32
		for i := 0; i < 4; i++ {
			put(base+i*4, g.PointLight[l].Position[i])
			put(base+16+i*4, g.PointLight[l].Color[i])
		}
	}
	return buf
}

// PackSceneLighting folds the enabled lights and fog into the GPU lighting uniform.
// Ambient lights are summed; point lights fill slots in order up to MaxGPUPointLights.
//
// Parameters:
//   - lights: the scene lights
//   - fog: the scene fog
//
// Returns:
//   - GPUSceneLighting: the packed uniform
func PackSceneLighting(lights []Light, fog Fog) GPUSceneLighting {
	var g GPUSceneLighting
	n := 0
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		c, k := l.Color(), l.Intensity()
		switch l.Type() {
		case LightTypeAmbient:
			g.Ambient[0] += c[0] * k
			g.Ambient[1] += c[1] * k
			g.Ambient[2] += c[2] * k
		case LightTypePoint:
			if n >= MaxGPUPointLights {
				continue
			}
			p := l.Position()
			g.PointLight[n] = GPUPointLight{
				Position: [4]float32{p[0], p[1], p[2], l.Decay()},
				Color:    [4]float32{c[0] * k, c[1] * k, c[2] * k, 0},
			}
			n++
		}
	}
	g.Counts[0] = uint32(n)
	if fog.Enabled {
		g.Fog = [4]float32{fog.Color[0], fog.Color[1], fog.Color[2], fog.Density}
	}
	return g
}
