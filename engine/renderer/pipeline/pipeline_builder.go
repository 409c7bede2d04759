package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// PipelineBuilderOption is a functional option for configuring a Pipeline.
type PipelineBuilderOption func(*pipeline)

// WithSource sets the WGSL module source holding both entry points.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - PipelineBuilderOption: a function that sets the shader source
func WithSource(source string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.source = source
	}
}

// WithEntryPoints overrides the vertex and fragment entry point names.
//
// Parameters:
//   - vertex: the vertex entry point
//   - fragment: the fragment entry point
//
// Returns:
//   - PipelineBuilderOption: a function that sets the entry points
func WithEntryPoints(vertex, fragment string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexEntry = vertex
		p.fragmentEntry = fragment
	}
}

// WithVertexLayouts sets the vertex buffer layouts. Post-process pipelines pass none.
//
// Parameters:
//   - layouts: the vertex buffer layouts
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layouts
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayouts = layouts
	}
}

// WithBindGroupLayouts sets the bind group layouts in group order.
//
// Parameters:
//   - layouts: the bind group layouts
//
// Returns:
//   - PipelineBuilderOption: a function that sets the bind group layouts
func WithBindGroupLayouts(layouts ...*wgpu.BindGroupLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.bindGroupLayouts = layouts
	}
}

// WithColorFormat sets the format of the color target.
//
// Parameters:
//   - format: the texture format
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color format
func WithColorFormat(format wgpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorFormat = format
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline.
// Disabling the depth test also drops the depth attachment from the descriptor.
//
// Parameters:
//   - enabled: true to enable depth testing, false to disable it
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test enabled state
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: true to enable depth writing, false to disable it
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth write enabled state
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithBlendEnabled sets whether alpha blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: true to enable blending, false to disable it
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blending enabled state
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithCullMode sets the face culling mode for this pipeline.
//
// Parameters:
//   - mode: the culling mode to use (e.g., wgpu.CullModeBack, wgpu.CullModeFront, wgpu.CullModeNone)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use (e.g., wgpu.PrimitiveTopologyTriangleList, wgpu.PrimitiveTopologyLineList)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithBlendState sets the blend state used when blending is enabled.
//
// Parameters:
//   - blendState: the blend state
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}
