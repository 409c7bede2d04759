package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialSource is the canonical WGSL definition of the Material struct.
// Matches GPUMaterial layout exactly (48 bytes, std140 aligned).
//
//go:embed assets/material.wgsl
var GPUMaterialSource string

// GPUMaterial is the GPU-aligned uniform read by the mesh fragment shader.
// Matches the WGSL Material struct layout exactly (see GPUMaterialSource).
// Size: 48 bytes (three vec4<f32>).
type GPUMaterial struct {
	Color    [4]float32 // offset 0: RGB diffuse color + alpha (opacity when transparent, else 1)
	Emissive [4]float32 // offset 16: RGB emissive color, w unused
	Surface  [4]float32 // offset 32: x = metalness, y = roughness, z = unlit flag, w unused
}

// Size returns the size of the GPUMaterial struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, 48)
	for i, v := range [12]float32{
		g.Color[0], g.Color[1], g.Color[2], g.Color[3],
		g.Emissive[0], g.Emissive[1], g.Emissive[2], g.Emissive[3],
		g.Surface[0], g.Surface[1], g.Surface[2], g.Surface[3],
	} {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}
