package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"strings"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/light"
	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
)

// DrawUniformStride is the byte distance between per-draw uniforms in the draw buffer.
// It matches the default minUniformBufferOffsetAlignment so each draw is a dynamic offset.
const DrawUniformStride = 256

//go:embed assets/mesh.wgsl
var meshShaderBody string

//go:embed assets/fullscreen.wgsl
var fullscreenShaderBody string

//go:embed assets/bloom_bright.wgsl
var bloomBrightShaderBody string

//go:embed assets/bloom_blur.wgsl
var bloomBlurShaderBody string

//go:embed assets/composite.wgsl
var compositeShaderBody string

// MeshShaderSource is the complete mesh module: the shared struct definitions followed by the
// lit/unlit vertex and fragment stages.
var MeshShaderSource = strings.Join([]string{
	camera.GPUCameraUniformSource,
	light.GPUSceneLightingSource,
	material.GPUMaterialSource,
	model.GPUVertexSource,
	meshShaderBody,
}, "\n")

// BloomBrightShaderSource is the luminance high-pass module.
var BloomBrightShaderSource = fullscreenShaderBody + "\n" + bloomBrightShaderBody

// BloomBlurShaderSource is the separable gaussian blur module.
var BloomBlurShaderSource = fullscreenShaderBody + "\n" + bloomBlurShaderBody

// CompositeShaderSource is the additive base + bloom module.
var CompositeShaderSource = fullscreenShaderBody + "\n" + compositeShaderBody

// GPUDrawUniform is the per-draw uniform read by the mesh shader at a dynamic offset.
// Matches the WGSL DrawUniform struct in assets/mesh.wgsl. Size: 176 bytes.
type GPUDrawUniform struct {
	Model    [16]float32          // offset 0: world matrix
	Normal   [16]float32          // offset 64: inverse-transpose of the world matrix
	Material material.GPUMaterial // offset 128: material parameters
}

// Size returns the size of the GPUDrawUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUDrawUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDrawUniform into a DrawUniformStride-sized buffer.
//
// Returns:
//   - []byte: 256-byte buffer ready for GPU upload; bytes past 176 are zero.
func (g *GPUDrawUniform) Marshal() []byte {
	buf := make([]byte, DrawUniformStride)
	for i, v := range g.Model {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range g.Normal {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
	copy(buf[128:], g.Material.Marshal())
	return buf
}

// GPUBloomUniform drives one bloom post-process pass.
// Matches the WGSL BloomUniform struct. Size: 32 bytes.
type GPUBloomUniform struct {
	Params [4]float32 // offset 0: threshold, strength, radius, output scale
	Step   [4]float32 // offset 16: direction; xy = texel step of the blur direction, zw unused
}

// Size returns the size of the GPUBloomUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUBloomUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBloomUniform into a DrawUniformStride-sized buffer so the
// passes of one bloom can share a buffer at dynamic offsets.
//
// Returns:
//   - []byte: 256-byte buffer ready for GPU upload.
func (g *GPUBloomUniform) Marshal() []byte {
	buf := make([]byte, DrawUniformStride)
	for i, v := range [8]float32{
		g.Params[0], g.Params[1], g.Params[2], g.Params[3],
		g.Step[0], g.Step[1], g.Step[2], g.Step[3],
	} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// bloomPasses returns the three uniforms of one ApplyBloom: bright pass, horizontal blur and
// vertical blur. The vertical blur carries strength × exposure as its output scale.
func bloomPasses(p BloomParams, width, height int) [3]GPUBloomUniform {
	spread := 1 + p.Radius*4
	tx := spread / float32(max(width, 1))
	ty := spread / float32(max(height, 1))
	return [3]GPUBloomUniform{
		{Params: [4]float32{p.Threshold, p.Strength, p.Radius, 1}},
		{Params: [4]float32{p.Threshold, p.Strength, p.Radius, 1}, Step: [4]float32{tx, 0, 0, 0}},
		{Params: [4]float32{p.Threshold, p.Strength, p.Radius, p.Strength * p.Exposure}, Step: [4]float32{0, ty, 0, 0}},
	}
}
