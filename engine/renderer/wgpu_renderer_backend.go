package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/light"
	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
)

// offscreenFormat is the color format of render targets. Float storage keeps glow above 1.0
// through the blur passes.
const offscreenFormat = wgpu.TextureFormatRGBA16Float

// Attachment bindings inside a render target's provider.
const (
	attachmentColor = iota
	attachmentScratchA
	attachmentScratchB
	attachmentDepth
)

var meshVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: model.GPUVertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
	},
}

// wgpuRendererBackendImpl is the WebGPU implementation of RendererBackend.
type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	width, height int

	// surfaceDepth holds the depth attachment used by screen passes.
	surfaceDepth bind_group_provider.BindGroupProvider

	// Surface texture acquired by BeginFrame, released by Present.
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	frameLayout     *wgpu.BindGroupLayout
	drawLayout      *wgpu.BindGroupLayout
	textureLayout   *wgpu.BindGroupLayout
	bloomLayout     *wgpu.BindGroupLayout
	compositeLayout *wgpu.BindGroupLayout
	sampler         *wgpu.Sampler

	frameUniforms bind_group_provider.BindGroupProvider
	drawUniforms  bind_group_provider.BindGroupProvider
	drawCapacity  int
	bloomUniforms bind_group_provider.BindGroupProvider

	// geometries holds uploaded vertex/index buffers keyed by scene.Geometry ID.
	geometries map[uint64]bind_group_provider.BindGroupProvider
	pipelines  map[string]pipeline.Pipeline
	targets    map[*wgpuRenderTarget]struct{}
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) (RendererBackend, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		geometries:  make(map[uint64]bind_group_provider.BindGroupProvider),
		pipelines:   make(map[string]pipeline.Pipeline),
		targets:     make(map[*wgpuRenderTarget]struct{}),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return nil, errors.New("surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]

	if err := b.initResources(); err != nil {
		return nil, err
	}
	return b, nil
}

// initResources creates the bind group layouts, the shared sampler and the uniform buffers.
func (b *wgpuRendererBackendImpl) initResources() error {
	var err error

	cameraSize := uint64((&camera.GPUCameraUniform{}).Size())
	lightingSize := uint64((&light.GPUSceneLighting{}).Size())
	drawSize := uint64((&GPUDrawUniform{}).Size())
	bloomSize := uint64((&GPUBloomUniform{}).Size())

	b.frameLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: cameraSize},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: lightingSize},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create frame layout: %w", err)
	}

	b.drawLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Draw Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   drawSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create draw layout: %w", err)
	}

	b.textureLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Texture Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			sampledTextureEntry(0),
			{Binding: 1, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create texture layout: %w", err)
	}

	b.bloomLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Bloom Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   bloomSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bloom layout: %w", err)
	}

	b.compositeLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Composite Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			sampledTextureEntry(0),
			sampledTextureEntry(1),
			{Binding: 2, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create composite layout: %w", err)
	}

	b.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Linear Clamp Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create sampler: %w", err)
	}

	b.frameUniforms = bind_group_provider.NewBindGroupProvider("Frame Uniforms")
	cameraBuf, err := b.createBuffer("Camera Uniform", cameraSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	b.frameUniforms.SetBuffer(0, cameraBuf)
	lightingBuf, err := b.createBuffer("Lighting Uniform", lightingSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	b.frameUniforms.SetBuffer(1, lightingBuf)
	frameGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Bind Group",
		Layout: b.frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: cameraBuf, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: lightingBuf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create frame bind group: %w", err)
	}
	b.frameUniforms.SetBindGroup(frameGroup)

	b.drawUniforms = bind_group_provider.NewBindGroupProvider("Draw Uniforms")
	if err := b.ensureDrawCapacity(64); err != nil {
		return err
	}

	b.bloomUniforms = bind_group_provider.NewBindGroupProvider("Bloom Uniforms")
	bloomBuf, err := b.createBuffer("Bloom Uniform", 3*DrawUniformStride, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	b.bloomUniforms.SetBuffer(0, bloomBuf)
	bloomGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Bloom Bind Group",
		Layout:  b.bloomLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: bloomBuf, Offset: 0, Size: bloomSize}},
	})
	if err != nil {
		return fmt.Errorf("failed to create bloom bind group: %w", err)
	}
	b.bloomUniforms.SetBindGroup(bloomGroup)

	b.surfaceDepth = bind_group_provider.NewBindGroupProvider("Surface Depth")
	return nil
}

func sampledTextureEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Texture: wgpu.TextureBindingLayout{
			SampleType:    wgpu.TextureSampleTypeFloat,
			ViewDimension: wgpu.TextureViewDimension2D,
		},
	}
}

func (b *wgpuRendererBackendImpl) createBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %q: %w", label, err)
	}
	return buf, nil
}

func (b *wgpuRendererBackendImpl) createTexture(label string, width, height int, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create texture %q: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("failed to create view for %q: %w", label, err)
	}
	return tex, view, nil
}

// ensureDrawCapacity grows the per-draw uniform buffer to hold at least n draws.
func (b *wgpuRendererBackendImpl) ensureDrawCapacity(n int) error {
	if n <= b.drawCapacity {
		return nil
	}
	capacity := max(b.drawCapacity*2, n, 64)
	buf, err := b.createBuffer("Draw Uniform", uint64(capacity*DrawUniformStride), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Draw Bind Group",
		Layout: b.drawLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: uint64((&GPUDrawUniform{}).Size())},
		},
	})
	if err != nil {
		buf.Release()
		return fmt.Errorf("failed to create draw bind group: %w", err)
	}
	b.drawUniforms.SetBindGroup(group)
	b.drawUniforms.SetBuffer(0, buf)
	b.drawCapacity = capacity
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	depthTex, depthView, err := b.createTexture("Depth Texture", width, height, wgpu.TextureFormatDepth24Plus, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		return err
	}
	b.surfaceDepth.SetTexture(0, depthTex, depthView)
	b.width, b.height = width, height
	return nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) NewRenderTarget(name string, width, height int) (RenderTarget, error) {
	t := &wgpuRenderTarget{
		backend:     b,
		name:        name,
		attachments: bind_group_provider.NewBindGroupProvider(name + " Attachments"),
	}
	if err := t.Resize(width, height); err != nil {
		t.Release()
		return nil, err
	}
	b.mu.Lock()
	b.targets[t] = struct{}{}
	b.mu.Unlock()
	return t, nil
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Acquiring twice before Present makes wgpu-native fail with "Surface image is already acquired".
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

// meshPipeline returns the cached mesh pipeline for a color format, topology and blend mode,
// building it on first use.
func (b *wgpuRendererBackendImpl) meshPipeline(format wgpu.TextureFormat, topology scene.Topology, blend bool) (pipeline.Pipeline, error) {
	key := fmt.Sprintf("mesh/%d/%d/%t", format, topology, blend)
	if p, ok := b.pipelines[key]; ok {
		return p, nil
	}

	wgpuTopology := wgpu.PrimitiveTopologyTriangleList
	if topology == scene.TopologyLineList {
		wgpuTopology = wgpu.PrimitiveTopologyLineList
	}
	p := pipeline.NewPipeline(key,
		pipeline.WithSource(MeshShaderSource),
		pipeline.WithVertexLayouts(meshVertexLayout),
		pipeline.WithBindGroupLayouts(b.frameLayout, b.drawLayout),
		pipeline.WithColorFormat(format),
		pipeline.WithTopology(wgpuTopology),
		pipeline.WithBlendEnabled(blend),
	)
	return p, b.buildPipeline(p)
}

// postPipeline returns the cached full-screen pipeline for a shader and color format.
func (b *wgpuRendererBackendImpl) postPipeline(name, source string, format wgpu.TextureFormat, layouts ...*wgpu.BindGroupLayout) (pipeline.Pipeline, error) {
	key := fmt.Sprintf("%s/%d", name, format)
	if p, ok := b.pipelines[key]; ok {
		return p, nil
	}
	p := pipeline.NewPipeline(key,
		pipeline.WithSource(source),
		pipeline.WithBindGroupLayouts(layouts...),
		pipeline.WithColorFormat(format),
		pipeline.WithDepthTestEnabled(false),
	)
	return p, b.buildPipeline(p)
}

func (b *wgpuRendererBackendImpl) buildPipeline(p pipeline.Pipeline) error {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module for %s: %w", p.PipelineKey(), err)
	}
	defer module.Release()

	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: p.BindGroupLayouts(),
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout for %s: %w", p.PipelineKey(), err)
	}
	defer layout.Release()

	created, err := b.device.CreateRenderPipeline(p.Descriptor(module, layout))
	if err != nil {
		return fmt.Errorf("failed to create render pipeline %s: %w", p.PipelineKey(), err)
	}
	p.SetRenderPipeline(created)
	b.pipelines[p.PipelineKey()] = p
	return nil
}

// geometryProvider returns the uploaded buffers for g, uploading them on first use.
// Empty geometries return nil.
func (b *wgpuRendererBackendImpl) geometryProvider(g *scene.Geometry) (bind_group_provider.BindGroupProvider, error) {
	if g == nil || len(g.Vertices) == 0 || len(g.Indices) == 0 {
		return nil, nil
	}
	if p, ok := b.geometries[g.ID()]; ok {
		return p, nil
	}

	label := fmt.Sprintf("Geometry %d", g.ID())
	vertexData := model.MarshalVertices(g.Vertices)
	indexData := model.MarshalIndices(g.Indices)

	vb, err := b.createBuffer(label+" Vertex Buffer", uint64(len(vertexData)), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	ib, err := b.createBuffer(label+" Index Buffer", uint64(len(indexData)), wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	if err != nil {
		vb.Release()
		return nil, err
	}
	b.queue.WriteBuffer(vb, 0, vertexData)
	b.queue.WriteBuffer(ib, 0, indexData)

	p := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithGeometry(vb, ib, len(g.Indices)))
	b.geometries[g.ID()] = p
	return p, nil
}

// writeBuffers uploads a batch of buffer writes in order.
func (b *wgpuRendererBackendImpl) writeBuffers(writes ...bind_group_provider.BufferWrite) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil || len(w.Data) == 0 {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

// passTarget resolves the color view, depth view and color format of a scene pass.
func (b *wgpuRendererBackendImpl) passTarget(target RenderTarget) (*wgpu.TextureView, *wgpu.TextureView, wgpu.TextureFormat, error) {
	if target == nil {
		if b.frameView == nil {
			return nil, nil, 0, ErrNoFrame
		}
		return b.frameView, b.surfaceDepth.TextureView(0), b.surfaceFormat, nil
	}
	t, ok := target.(*wgpuRenderTarget)
	if !ok {
		return nil, nil, 0, fmt.Errorf("render target %q was not created by this renderer", target.Name())
	}
	return t.attachments.TextureView(attachmentColor), t.attachments.TextureView(attachmentDepth), offscreenFormat, nil
}

func (b *wgpuRendererBackendImpl) RenderScene(s scene.Scene, cam camera.Camera, target RenderTarget) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	colorView, depthView, format, err := b.passTarget(target)
	if err != nil {
		return err
	}

	draws := s.Draws()
	if err := b.ensureDrawCapacity(len(draws)); err != nil {
		return err
	}

	camUniform := cam.GPUData()
	lighting := light.PackSceneLighting(s.Lights(), s.Fog())
	drawData := make([]byte, 0, len(draws)*DrawUniformStride)
	for _, d := range draws {
		u := GPUDrawUniform{Model: d.World, Normal: d.Normal, Material: d.Material.GPUData()}
		drawData = append(drawData, u.Marshal()...)
	}
	b.writeBuffers(
		bind_group_provider.BufferWrite{Provider: b.frameUniforms, Binding: 0, Data: camUniform.Marshal()},
		bind_group_provider.BufferWrite{Provider: b.frameUniforms, Binding: 1, Data: lighting.Marshal()},
		bind_group_provider.BufferWrite{Provider: b.drawUniforms, Binding: 0, Data: drawData},
	)

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	bg := s.Background()
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       colorView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: float64(bg[0]), G: float64(bg[1]), B: float64(bg[2]), A: float64(bg[3])},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	// Opaque draws first, then blended draws, each in traversal order.
	var passErr error
	for _, blended := range []bool{false, true} {
		var current *wgpu.RenderPipeline
		for i, d := range draws {
			if d.Material.Transparent() != blended {
				continue
			}
			geo := d.Mesh.Geometry()
			provider, err := b.geometryProvider(geo)
			if err != nil {
				passErr = err
				continue
			}
			if provider == nil {
				continue
			}
			p, err := b.meshPipeline(format, geo.Topology, blended)
			if err != nil {
				passErr = err
				continue
			}
			if rp := p.RenderPipeline(); rp != current {
				pass.SetPipeline(rp)
				pass.SetBindGroup(0, b.frameUniforms.BindGroup(), nil)
				current = rp
			}
			pass.SetBindGroup(1, b.drawUniforms.BindGroup(), []uint32{uint32(i * DrawUniformStride)})
			pass.SetVertexBuffer(0, provider.VertexBuffer(), 0, wgpu.WholeSize)
			pass.SetIndexBuffer(provider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
			pass.DrawIndexed(uint32(provider.IndexCount()), 1, 0, 0, 0)
		}
	}
	pass.End()

	if err := b.submit(encoder); err != nil {
		return err
	}
	return passErr
}

func (b *wgpuRendererBackendImpl) submit(encoder *wgpu.CommandEncoder) error {
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

// fullscreenPass encodes one full-screen triangle into view.
func fullscreenPass(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, p pipeline.Pipeline, groups []*wgpu.BindGroup, offsets [][]uint32) {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	pass.SetPipeline(p.RenderPipeline())
	for i, g := range groups {
		pass.SetBindGroup(uint32(i), g, offsets[i])
	}
	pass.Draw(3, 1, 0, 0)
	pass.End()
}

func (b *wgpuRendererBackendImpl) ApplyBloom(target RenderTarget, params BloomParams) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := target.(*wgpuRenderTarget)
	if !ok {
		return fmt.Errorf("render target %q was not created by this renderer", target.Name())
	}

	bright, err := b.postPipeline("bloom_bright", BloomBrightShaderSource, offscreenFormat, b.textureLayout, b.bloomLayout)
	if err != nil {
		return err
	}
	blur, err := b.postPipeline("bloom_blur", BloomBlurShaderSource, offscreenFormat, b.textureLayout, b.bloomLayout)
	if err != nil {
		return err
	}

	passes := bloomPasses(params, t.width, t.height)
	writes := make([]bind_group_provider.BufferWrite, 0, len(passes))
	for i := range passes {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: b.bloomUniforms,
			Binding:  0,
			Offset:   uint64(i * DrawUniformStride),
			Data:     passes[i].Marshal(),
		})
	}
	b.writeBuffers(writes...)

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	bloomGroup := b.bloomUniforms.BindGroup()
	fullscreenPass(encoder, t.attachments.TextureView(attachmentScratchA), bright,
		[]*wgpu.BindGroup{t.sources[attachmentColor].BindGroup(), bloomGroup}, [][]uint32{nil, {0}})
	fullscreenPass(encoder, t.attachments.TextureView(attachmentScratchB), blur,
		[]*wgpu.BindGroup{t.sources[attachmentScratchA].BindGroup(), bloomGroup}, [][]uint32{nil, {DrawUniformStride}})
	fullscreenPass(encoder, t.attachments.TextureView(attachmentColor), blur,
		[]*wgpu.BindGroup{t.sources[attachmentScratchB].BindGroup(), bloomGroup}, [][]uint32{nil, {2 * DrawUniformStride}})

	return b.submit(encoder)
}

func (b *wgpuRendererBackendImpl) Composite(base, bloom RenderTarget) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameView == nil {
		return ErrNoFrame
	}
	bt, ok := base.(*wgpuRenderTarget)
	if !ok {
		return fmt.Errorf("render target %q was not created by this renderer", base.Name())
	}
	gt, ok := bloom.(*wgpuRenderTarget)
	if !ok {
		return fmt.Errorf("render target %q was not created by this renderer", bloom.Name())
	}

	p, err := b.postPipeline("composite", CompositeShaderSource, b.surfaceFormat, b.compositeLayout)
	if err != nil {
		return err
	}

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Composite Bind Group",
		Layout: b.compositeLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: bt.attachments.TextureView(attachmentColor)},
			{Binding: 1, TextureView: gt.attachments.TextureView(attachmentColor)},
			{Binding: 2, Sampler: b.sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create composite bind group: %w", err)
	}
	defer group.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	fullscreenPass(encoder, b.frameView, p, []*wgpu.BindGroup{group}, [][]uint32{nil})
	return b.submit(encoder)
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	targets := make([]*wgpuRenderTarget, 0, len(b.targets))
	for t := range b.targets {
		targets = append(targets, t)
	}
	b.mu.Unlock()
	for _, t := range targets {
		t.Release()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for id, p := range b.geometries {
		p.Release()
		delete(b.geometries, id)
	}
	for key, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, key)
	}
	for _, p := range []bind_group_provider.BindGroupProvider{b.frameUniforms, b.drawUniforms, b.bloomUniforms, b.surfaceDepth} {
		if p != nil {
			p.Release()
		}
	}
	for _, l := range []*wgpu.BindGroupLayout{b.frameLayout, b.drawLayout, b.textureLayout, b.bloomLayout, b.compositeLayout} {
		if l != nil {
			l.Release()
		}
	}
	if b.sampler != nil {
		b.sampler.Release()
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}

// wgpuRenderTarget is an off-screen color target with two scratch textures for the blur
// ping-pong and its own depth buffer.
type wgpuRenderTarget struct {
	backend *wgpuRendererBackendImpl

	name          string
	width, height int

	// attachments holds the color, scratch and depth textures keyed by attachment binding.
	attachments bind_group_provider.BindGroupProvider
	// sources holds one sampling bind group per color attachment.
	sources [3]bind_group_provider.BindGroupProvider
}

var _ RenderTarget = &wgpuRenderTarget{}

func (t *wgpuRenderTarget) Name() string {
	return t.name
}

func (t *wgpuRenderTarget) Width() int {
	return t.width
}

func (t *wgpuRenderTarget) Height() int {
	return t.height
}

func (t *wgpuRenderTarget) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render target %q: invalid size %dx%d", t.name, width, height)
	}
	if width == t.width && height == t.height && t.attachments.TextureView(attachmentColor) != nil {
		return nil
	}

	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	colorUsage := wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding
	for _, binding := range []int{attachmentColor, attachmentScratchA, attachmentScratchB} {
		tex, view, err := b.createTexture(fmt.Sprintf("%s Color %d", t.name, binding), width, height, offscreenFormat, colorUsage)
		if err != nil {
			return err
		}
		t.attachments.SetTexture(binding, tex, view)

		group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("%s Source %d", t.name, binding),
			Layout: b.textureLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: view},
				{Binding: 1, Sampler: b.sampler},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create source bind group for %q: %w", t.name, err)
		}
		if t.sources[binding] == nil {
			t.sources[binding] = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s Source %d", t.name, binding))
		}
		t.sources[binding].SetBindGroup(group)
	}

	depthTex, depthView, err := b.createTexture(t.name+" Depth", width, height, wgpu.TextureFormatDepth24Plus, wgpu.TextureUsageRenderAttachment)
	if err != nil {
		return err
	}
	t.attachments.SetTexture(attachmentDepth, depthTex, depthView)

	t.width, t.height = width, height
	return nil
}

func (t *wgpuRenderTarget) Release() {
	b := t.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range t.sources {
		if s != nil {
			s.Release()
		}
	}
	t.attachments.Release()
	delete(b.targets, t)
}
