package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the render state used to build a wgpu.RenderPipeline and, once built, the pipeline itself.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// source is the complete WGSL module holding both entry points
	source        string
	vertexEntry   string
	fragmentEntry string

	vertexLayouts    []wgpu.VertexBufferLayout
	bindGroupLayouts []*wgpu.BindGroupLayout
	colorFormat      wgpu.TextureFormat

	// renderPipeline is nil until the backend builds it from Descriptor
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes a GPU render pipeline: its WGSL module, vertex layout, bind group layouts,
// color target format and the depth, blend, cull and topology state.
//
// The backend creates the shader module, passes it to Descriptor and stores the result with
// SetRenderPipeline. Full-screen post-process pipelines carry no vertex layouts and disable depth.
type Pipeline interface {
	// PipelineKey returns the unique key used for caching and lookups.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Source returns the WGSL source of the pipeline's shader module.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// VertexEntryPoint returns the vertex stage entry point name.
	//
	// Returns:
	//   - string: the entry point (default "vs_main")
	VertexEntryPoint() string

	// FragmentEntryPoint returns the fragment stage entry point name.
	//
	// Returns:
	//   - string: the entry point (default "fs_main")
	FragmentEntryPoint() string

	// ColorFormat returns the format of the single color target.
	//
	// Returns:
	//   - wgpu.TextureFormat: the color target format
	ColorFormat() wgpu.TextureFormat

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled
	DepthWriteEnabled() bool

	// BlendEnabled returns whether the color target blends with the destination.
	//
	// Returns:
	//   - bool: true if blending is enabled
	BlendEnabled() bool

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the topology
	Topology() wgpu.PrimitiveTopology

	// Descriptor assembles the wgpu render pipeline descriptor for the given shader module and layout.
	//
	// Parameters:
	//   - module: the compiled shader module for Source
	//   - layout: the pipeline layout built from the bind group layouts
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor
	Descriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout) *wgpu.RenderPipelineDescriptor

	// BindGroupLayouts returns the bind group layouts in group order.
	//
	// Returns:
	//   - []*wgpu.BindGroupLayout: the layouts
	BindGroupLayouts() []*wgpu.BindGroupLayout

	// RenderPipeline returns the built GPU pipeline, or nil before SetRenderPipeline.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the pipeline or nil
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the built GPU pipeline.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release frees the built pipeline. Bind group layouts are owned by the backend.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new render Pipeline description.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline with depth test/write on, alpha blending off and triangle-list topology
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		vertexEntry:       "vs_main",
		fragmentEntry:     "fs_main",
		colorFormat:       wgpu.TextureFormatRGBA8Unorm,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Source() string {
	return p.source
}

func (p *pipeline) VertexEntryPoint() string {
	return p.vertexEntry
}

func (p *pipeline) FragmentEntryPoint() string {
	return p.fragmentEntry
}

func (p *pipeline) ColorFormat() wgpu.TextureFormat {
	return p.colorFormat
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) BindGroupLayouts() []*wgpu.BindGroupLayout {
	return p.bindGroupLayouts
}

func (p *pipeline) Descriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout) *wgpu.RenderPipelineDescriptor {
	target := wgpu.ColorTargetState{
		Format:    p.colorFormat,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		target.Blend = p.blendState
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.vertexEntry,
			Buffers:    p.vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.fragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.topology,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}

	if p.depthTestEnabled {
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}
	return desc
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
