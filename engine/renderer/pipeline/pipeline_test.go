package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("lit", "// wgsl")
	if p.PipelineKey() != "lit" || p.Source() != "// wgsl" {
		t.Fatalf("key=%q source=%q", p.PipelineKey(), p.Source())
	}
	if p.VertexEntry() != "vs_main" || p.FragmentEntry() != "fs_main" {
		t.Errorf("entries = %q %q", p.VertexEntry(), p.FragmentEntry())
	}
	if !p.DepthTestEnabled() || !p.DepthWriteEnabled() || p.BlendEnabled() {
		t.Error("opaque defaults expected")
	}
	if p.CullMode() != wgpu.CullModeNone || p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Error("unexpected raster defaults")
	}
	if p.BlendState() == nil || p.RenderPipeline() != nil {
		t.Error("blend state should default, GPU pipeline should not")
	}
}

func TestTranslucentOptions(t *testing.T) {
	p := NewPipeline("lit-blend", "",
		WithBlendEnabled(true),
		WithDepthWriteEnabled(false),
		WithCullMode(wgpu.CullModeBack),
		WithEntryPoints("vs", "fs"),
	)
	if !p.BlendEnabled() || p.DepthWriteEnabled() || !p.DepthTestEnabled() {
		t.Error("translucent pipeline should blend, test depth, and not write depth")
	}
	if p.CullMode() != wgpu.CullModeBack || p.VertexEntry() != "vs" {
		t.Error("options not applied")
	}
}

func TestShadowOptions(t *testing.T) {
	p := NewPipeline("shadow", "", WithEntryPoints("vs_shadow", ""), WithDepthBias(2, 1.5))
	if p.DepthBias() != 2 || p.DepthBiasSlopeScale() != 1.5 {
		t.Errorf("bias = %d slope = %f", p.DepthBias(), p.DepthBiasSlopeScale())
	}
	if p.FragmentEntry() != "" {
		t.Errorf("fragment entry = %q, want none", p.FragmentEntry())
	}
	if d := NewPipeline("lit", ""); d.DepthBias() != 0 || d.DepthBiasSlopeScale() != 0 {
		t.Error("bias should default to zero")
	}
}
