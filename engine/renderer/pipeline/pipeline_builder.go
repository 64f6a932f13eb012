package pipeline

import "github.com/cogentcore/webgpu/wgpu"

// PipelineBuilderOption is a functional option for configuring a Pipeline.
type PipelineBuilderOption func(*pipeline)

// WithEntryPoints overrides the vertex and fragment entry point names.
//
// Parameters:
//   - vertex: the vertex entry point
//   - fragment: the fragment entry point
//
// Returns:
//   - PipelineBuilderOption: a function that applies the entry points
func WithEntryPoints(vertex, fragment string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexEntry = vertex
		p.fragmentEntry = fragment
	}
}

// WithDepthTestEnabled sets whether fragments are tested against the depth buffer.
//
// Parameters:
//   - enabled: true to depth test
//
// Returns:
//   - PipelineBuilderOption: a function that applies the depth test option
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether fragments write depth. Translucent pipelines turn it off.
//
// Parameters:
//   - enabled: true to write depth
//
// Returns:
//   - PipelineBuilderOption: a function that applies the depth write option
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithBlendEnabled sets whether the color target blends with the framebuffer.
//
// Parameters:
//   - enabled: true to blend
//
// Returns:
//   - PipelineBuilderOption: a function that applies the blend option
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithBlendState replaces the default alpha blend state.
//
// Parameters:
//   - blendState: the blend state
//
// Returns:
//   - PipelineBuilderOption: a function that applies the blend state
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}

// WithCullMode sets which faces are culled.
//
// Parameters:
//   - mode: the cull mode
//
// Returns:
//   - PipelineBuilderOption: a function that applies the cull mode
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFrontFace sets the front face winding order.
//
// Parameters:
//   - face: the winding order
//
// Returns:
//   - PipelineBuilderOption: a function that applies the front face option
func WithFrontFace(face wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = face
	}
}

// WithDepthBias sets the rasterizer depth bias. Shadow pipelines use it to push
// caster depth away from the light.
//
// Parameters:
//   - bias: constant bias in depth units
//   - slopeScale: bias multiplied by the depth slope
//
// Returns:
//   - PipelineBuilderOption: a function that applies the depth bias
func WithDepthBias(bias int32, slopeScale float32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthBias = bias
		p.depthBiasSlopeScale = slopeScale
	}
}
