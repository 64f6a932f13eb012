package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the render pipeline's creation settings and, once registered, the GPU object.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// source is the WGSL module holding both entry points.
	source         string
	vertexEntry    string
	fragmentEntry  string
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState

	depthBias           int32
	depthBiasSlopeScale float32
}

// Pipeline describes a render pipeline: one WGSL module with vertex and fragment entry
// points plus the depth, blend, cull and topology state used when it is created.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Source returns the WGSL module source.
	Source() string

	// VertexEntry returns the vertex entry point name.
	VertexEntry() string

	// FragmentEntry returns the fragment entry point name.
	FragmentEntry() string

	// RenderPipeline returns the GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the created pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	//
	// Returns:
	//   - *wgpu.BlendState: standard alpha blending unless overridden
	BlendState() *wgpu.BlendState

	// DepthBias returns the constant depth bias added to every fragment.
	DepthBias() int32

	// DepthBiasSlopeScale returns the depth bias scaled by the fragment's depth slope.
	DepthBiasSlopeScale() float32

	// SetRenderPipeline stores the GPU pipeline created from this description.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description with depth test and write on, blending
// off, no culling, triangle lists, CCW front faces, and entry points vs_main and fs_main.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - source: the WGSL module
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the new description
func NewPipeline(pipelineKey, source string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		source:            source,
		vertexEntry:       "vs_main",
		fragmentEntry:     "fs_main",
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

func (p *pipeline) VertexEntry() string {
	return p.vertexEntry
}

func (p *pipeline) FragmentEntry() string {
	return p.fragmentEntry
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
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

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) DepthBias() int32 {
	return p.depthBias
}

func (p *pipeline) DepthBiasSlopeScale() float32 {
	return p.depthBiasSlopeScale
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
