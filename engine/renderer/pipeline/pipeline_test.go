package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorDefaults(t *testing.T) {
	p := NewPipeline("mesh", WithSource("// wgsl"))

	desc := p.Descriptor(nil, nil)
	assert.Equal(t, "mesh", desc.Label)
	assert.Equal(t, "vs_main", desc.Vertex.EntryPoint)
	require.NotNil(t, desc.Fragment)
	assert.Equal(t, "fs_main", desc.Fragment.EntryPoint)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Nil(t, desc.Fragment.Targets[0].Blend)
	require.NotNil(t, desc.DepthStencil)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, desc.Primitive.Topology)
	assert.Equal(t, uint32(1), desc.Multisample.Count)
}

func TestDescriptorPostProcess(t *testing.T) {
	p := NewPipeline("bloom_blur",
		WithDepthTestEnabled(false),
		WithColorFormat(wgpu.TextureFormatRGBA16Float),
	)

	desc := p.Descriptor(nil, nil)
	assert.Nil(t, desc.DepthStencil)
	assert.Empty(t, desc.Vertex.Buffers)
	assert.Equal(t, wgpu.TextureFormatRGBA16Float, desc.Fragment.Targets[0].Format)
}

func TestDescriptorBlendAndLines(t *testing.T) {
	p := NewPipeline("lines",
		WithBlendEnabled(true),
		WithDepthWriteEnabled(false),
		WithTopology(wgpu.PrimitiveTopologyLineList),
	)

	desc := p.Descriptor(nil, nil)
	assert.NotNil(t, desc.Fragment.Targets[0].Blend)
	assert.False(t, desc.DepthStencil.DepthWriteEnabled)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, desc.Primitive.Topology)
}
