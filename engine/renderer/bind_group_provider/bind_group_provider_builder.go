package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroup sets the bind group for this provider.
//
// Parameters:
//   - bg: the bind group to set for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group for this provider
func WithBindGroup(bg *wgpu.BindGroup) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroup = bg
	}
}

// WithBuffer stores a buffer at the given binding.
//
// Parameters:
//   - binding: the binding index
//   - buf: the buffer
//
// Returns:
//   - BindGroupProviderOption: a function that stores the buffer
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithGeometry stores the vertex and index buffers of one geometry.
//
// Parameters:
//   - vertices: the vertex buffer
//   - indices: the index buffer
//   - indexCount: the number of indices
//
// Returns:
//   - BindGroupProviderOption: a function that stores the geometry buffers
func WithGeometry(vertices, indices *wgpu.Buffer, indexCount int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexBuffer = vertices
		p.indexBuffer = indices
		p.indexCount = indexCount
	}
}
