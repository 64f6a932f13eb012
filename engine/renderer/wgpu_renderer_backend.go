package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
	"github.com/Carmen-Shannon/penguin-paradise/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/penguin-paradise/engine/renderer/shader"
)

// gpuMesh is an uploaded model.Mesh.
type gpuMesh struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32
}

// uniformKind selects the bind group layout a uniform is created against.
type uniformKind int

const (
	// uniformFrame is group 0 of the lit pipelines. Its bind group also carries the
	// shadow map and comparison sampler.
	uniformFrame uniformKind = iota

	// uniformObject is group 1 of both the lit and shadow pipelines.
	uniformObject

	// uniformShadowPass is group 0 of the shadow pipeline.
	uniformShadowPass
)

// gpuUniform is a uniform buffer with its bind group.
type gpuUniform struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

func (m *gpuMesh) release() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
	}
}

func (u *gpuUniform) release() {
	if u.bindGroup != nil {
		u.bindGroup.Release()
	}
	if u.buffer != nil {
		u.buffer.Release()
	}
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	// group 0 holds the frame uniform, group 1 the per-object uniform
	frameLayout    *wgpu.BindGroupLayout
	objectLayout   *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout

	// the shadow pass binds the light view-projection at group 0 and shares group 1
	shadowLayout         *wgpu.BindGroupLayout
	shadowPipelineLayout *wgpu.PipelineLayout
	shadowTexture        *wgpu.Texture
	shadowView           *wgpu.TextureView
	shadowSampler        *wgpu.Sampler
	shadowSize           int
	shadowEncoder        *wgpu.CommandEncoder
	shadowPass           *wgpu.RenderPassEncoder

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface (re)creates the swapchain, MSAA and depth targets for a new size.
	ConfigureSurface(width, height int)

	// SetPresentMode selects vsync or uncapped presentation. Applies at the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the main pass clears to.
	SetClearColor(r, g, b float64)

	// RegisterRenderPipeline compiles p's WGSL and creates its GPU pipeline with the shared layout.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// UploadMesh creates vertex and index buffers for m.
	UploadMesh(m *model.Mesh) (*gpuMesh, error)

	// CreateUniform creates a uniform buffer of size bytes with a bind group for kind.
	// Frame uniforms need the shadow map, so ConfigureShadowMap must run first.
	CreateUniform(label string, kind uniformKind, size uint64) (*gpuUniform, error)

	// WriteUniform uploads data to u.
	WriteUniform(u *gpuUniform, data []byte)

	// BeginFrame acquires the surface texture and opens the main render pass.
	BeginFrame() error

	// Draw records one indexed draw of mesh with the frame and object uniforms bound.
	Draw(p pipeline.Pipeline, mesh *gpuMesh, frame, object *gpuUniform)

	// EndFrame closes the render pass and submits the command buffer.
	EndFrame()

	// Present shows the acquired surface texture.
	Present()

	// ConfigureShadowMap (re)creates the square Depth32Float shadow map and the comparison
	// sampler. Frame uniforms created before a resize still reference the old map.
	ConfigureShadowMap(size int) error

	// RegisterShadowPipeline creates a depth-only pipeline from p's vertex entry.
	RegisterShadowPipeline(p pipeline.Pipeline) error

	// BeginShadowPass opens a depth-only pass that clears and renders into the shadow map.
	BeginShadowPass() error

	// ShadowDraw records one indexed draw of mesh into the shadow pass.
	ShadowDraw(p pipeline.Pipeline, mesh *gpuMesh, pass, object *gpuUniform)

	// EndShadowPass closes the shadow pass and submits it ahead of the main pass.
	EndShadowPass()

	// Release frees the device and surface.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the instance, surface, adapter, device and the shared
// bind group layouts. Panics if no adapter or device is available.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, lit, shadow *shader.Reflection) wgpuRendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.createLayouts(lit, shadow); err != nil {
		panic(err)
	}
	return b
}

func (b *wgpuRendererBackendImpl) createLayouts(lit, shadow *shader.Reflection) error {
	uniformLayout := func(refl *shader.Reflection, label string, group int) (*wgpu.BindGroupLayout, error) {
		desc, ok := refl.BindGroups[group]
		if !ok {
			return nil, fmt.Errorf("shader declares no group %d", group)
		}
		desc.Label = label
		return b.device.CreateBindGroupLayout(&desc)
	}

	var err error
	if b.frameLayout, err = uniformLayout(lit, "Frame Layout", 0); err != nil {
		return fmt.Errorf("frame bind group layout: %w", err)
	}
	if b.objectLayout, err = uniformLayout(lit, "Object Layout", 1); err != nil {
		return fmt.Errorf("object bind group layout: %w", err)
	}
	if b.shadowLayout, err = uniformLayout(shadow, "Shadow Pass Layout", 0); err != nil {
		return fmt.Errorf("shadow bind group layout: %w", err)
	}
	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Lit Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.frameLayout, b.objectLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}
	b.shadowPipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Shadow Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.shadowLayout, b.objectLayout},
	})
	if err != nil {
		return fmt.Errorf("shadow pipeline layout: %w", err)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if msaaEnabled {
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth texture sample count must match the color attachment.
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// With MSAA the multisampled texture is the View and the swapchain view is set as the
	// ResolveTarget each frame; without it the swapchain view is the View.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) SetClearColor(r, g, bl float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = wgpu.Color{R: r, G: g, B: bl, A: 1}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return fmt.Errorf("pipeline %s: surface not configured", p.PipelineKey())
	}

	refl, err := shader.Reflect(p.Source(), uniformVisibility)
	if err != nil {
		return fmt.Errorf("pipeline %s: %w", p.PipelineKey(), err)
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source(),
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline %s: shader module: %w", p.PipelineKey(), err)
	}
	defer module.Release()

	target := wgpu.ColorTargetState{
		Format:    *b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}

	depthCompare := wgpu.CompareFunctionLess
	if !p.DepthTestEnabled() {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.VertexEntry(),
			Buffers:    refl.VertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.FragmentEntry(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline %s: %w", p.PipelineKey(), err)
	}
	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) UploadMesh(m *model.Mesh) (*gpuMesh, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexData := model.MarshalVertices(m.Vertices)
	indexData := model.MarshalIndices(m.Indices)
	if len(vertexData) == 0 || len(indexData) == 0 {
		return nil, fmt.Errorf("mesh %s: no geometry", m.Name)
	}

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.Name + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("mesh %s: vertex buffer: %w", m.Name, err)
	}
	b.queue.WriteBuffer(vb, 0, vertexData)

	// index buffer writes must be 4-byte aligned; uint32 indices always are
	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.Name + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("mesh %s: index buffer: %w", m.Name, err)
	}
	b.queue.WriteBuffer(ib, 0, indexData)

	return &gpuMesh{vertexBuffer: vb, indexBuffer: ib, indexCount: uint32(len(m.Indices))}, nil
}

func (b *wgpuRendererBackendImpl) CreateUniform(label string, kind uniformKind, size uint64) (*gpuUniform, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var layout *wgpu.BindGroupLayout
	switch kind {
	case uniformFrame:
		if b.shadowView == nil {
			return nil, fmt.Errorf("uniform %s: shadow map not configured", label)
		}
		layout = b.frameLayout
	case uniformObject:
		layout = b.objectLayout
	case uniformShadowPass:
		layout = b.shadowLayout
	default:
		return nil, fmt.Errorf("uniform %s: unknown kind %d", label, kind)
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("uniform %s: %w", label, err)
	}
	entries := []wgpu.BindGroupEntry{
		{Binding: 0, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
	}
	if kind == uniformFrame {
		entries = append(entries,
			wgpu.BindGroupEntry{Binding: 1, TextureView: b.shadowView},
			wgpu.BindGroupEntry{Binding: 2, Sampler: b.shadowSampler},
		)
	}
	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		buf.Release()
		return nil, fmt.Errorf("uniform %s: bind group: %w", label, err)
	}
	return &gpuUniform{buffer: buf, bindGroup: bg}, nil
}

func (b *wgpuRendererBackendImpl) WriteUniform(u *gpuUniform, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteBuffer(u.buffer, 0, data)
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return fmt.Errorf("surface not configured")
	}
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

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) Draw(p pipeline.Pipeline, mesh *gpuMesh, frame, object *gpuUniform) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil || p.RenderPipeline() == nil {
		return
	}
	b.framePass.SetPipeline(p.RenderPipeline())
	b.framePass.SetBindGroup(0, frame.bindGroup, nil)
	b.framePass.SetBindGroup(1, object.bindGroup, nil)
	b.framePass.SetVertexBuffer(0, mesh.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(mesh.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(mesh.indexCount, 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

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

func (b *wgpuRendererBackendImpl) ConfigureShadowMap(size int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if size <= 0 {
		return fmt.Errorf("shadow map size %d", size)
	}
	if b.shadowView != nil && b.shadowSize == size {
		return nil
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Shadow Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(size),
			Height:             uint32(size),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("shadow depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("shadow depth texture view: %w", err)
	}

	if b.shadowSampler == nil {
		b.shadowSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
			Label:         "Shadow Comparison Sampler",
			AddressModeU:  wgpu.AddressModeClampToEdge,
			AddressModeV:  wgpu.AddressModeClampToEdge,
			AddressModeW:  wgpu.AddressModeClampToEdge,
			MagFilter:     wgpu.FilterModeLinear,
			MinFilter:     wgpu.FilterModeLinear,
			MipmapFilter:  wgpu.MipmapFilterModeNearest,
			Compare:       wgpu.CompareFunctionLess,
			MaxAnisotropy: 1,
		})
		if err != nil {
			view.Release()
			tex.Release()
			return fmt.Errorf("comparison sampler: %w", err)
		}
	}

	b.releaseShadowMap()
	b.shadowTexture = tex
	b.shadowView = view
	b.shadowSize = size
	return nil
}

func (b *wgpuRendererBackendImpl) releaseShadowMap() {
	if b.shadowView != nil {
		b.shadowView.Release()
		b.shadowView = nil
	}
	if b.shadowTexture != nil {
		b.shadowTexture.Release()
		b.shadowTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) RegisterShadowPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	refl, err := shader.Reflect(p.Source(), uniformVisibility)
	if err != nil {
		return fmt.Errorf("pipeline %s: %w", p.PipelineKey(), err)
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.PipelineKey(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source(),
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline %s: shader module: %w", p.PipelineKey(), err)
	}
	defer module.Release()

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Shadow Pipeline",
		Layout: b.shadowPipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.VertexEntry(),
			Buffers:    refl.VertexLayouts,
		},
		// depth only
		Fragment: nil,
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              wgpu.TextureFormatDepth32Float,
			DepthWriteEnabled:   true,
			DepthCompare:        wgpu.CompareFunctionLess,
			DepthBias:           p.DepthBias(),
			DepthBiasSlopeScale: p.DepthBiasSlopeScale(),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline %s: %w", p.PipelineKey(), err)
	}
	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) BeginShadowPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowView == nil {
		return fmt.Errorf("shadow map not configured")
	}
	if b.shadowEncoder != nil {
		return fmt.Errorf("shadow pass already open")
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	b.shadowEncoder = encoder
	b.shadowPass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.shadowView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	return nil
}

func (b *wgpuRendererBackendImpl) ShadowDraw(p pipeline.Pipeline, mesh *gpuMesh, pass, object *gpuUniform) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowPass == nil || p.RenderPipeline() == nil {
		return
	}
	b.shadowPass.SetPipeline(p.RenderPipeline())
	b.shadowPass.SetBindGroup(0, pass.bindGroup, nil)
	b.shadowPass.SetBindGroup(1, object.bindGroup, nil)
	b.shadowPass.SetVertexBuffer(0, mesh.vertexBuffer, 0, wgpu.WholeSize)
	b.shadowPass.SetIndexBuffer(mesh.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.shadowPass.DrawIndexed(mesh.indexCount, 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndShadowPass() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowEncoder == nil {
		return
	}
	b.shadowPass.End()
	b.shadowPass = nil

	commandBuffer, err := b.shadowEncoder.Finish(nil)
	if err == nil {
		b.queue.Submit(commandBuffer)
		commandBuffer.Release()
	}
	b.shadowEncoder.Release()
	b.shadowEncoder = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseShadowMap()
	if b.shadowSampler != nil {
		b.shadowSampler.Release()
	}
	if b.shadowPipelineLayout != nil {
		b.shadowPipelineLayout.Release()
	}

	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
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
