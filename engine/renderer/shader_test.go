package renderer

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

func TestLitShaderMatchesHostLayout(t *testing.T) {
	refl, err := reflectLitShader(litShaderSource)
	if err != nil {
		t.Fatalf("reflectLitShader: %v", err)
	}

	sizes := map[string]uint64{
		"CameraUniform": 80,
		"Lights":        96,
		"Shadow":        80,
		"Frame":         272,
		"Object":        160,
	}
	for name, want := range sizes {
		if got, ok := refl.StructSize(name); !ok || got != want {
			t.Errorf("%s = %d bytes (%v), want %d", name, got, ok, want)
		}
	}

	if refl.VertexEntry != "vs_main" || refl.FragmentEntry != "fs_main" {
		t.Errorf("entries = %q, %q", refl.VertexEntry, refl.FragmentEntry)
	}

	g0 := refl.BindGroups[0].Entries
	if len(g0) != 3 || g0[1].Texture.SampleType != wgpu.TextureSampleTypeDepth || g0[2].Sampler.Type != wgpu.SamplerBindingTypeComparison {
		t.Errorf("frame group = %+v, want uniform, depth texture, comparison sampler", g0)
	}

	layout := refl.VertexLayouts[0]
	if layout.ArrayStride != model.VertexStride || len(layout.Attributes) != 2 {
		t.Fatalf("vertex layout = %+v", layout)
	}
	if n := layout.Attributes[1]; n.Offset != 12 || n.ShaderLocation != 1 || n.Format != wgpu.VertexFormatFloat32x3 {
		t.Errorf("normal attribute = %+v", n)
	}
}

func TestShadowShaderMatchesHostLayout(t *testing.T) {
	refl, err := reflectShadowShader(shadowShaderSource)
	if err != nil {
		t.Fatalf("reflectShadowShader: %v", err)
	}
	if refl.VertexEntry != "vs_shadow" || refl.FragmentEntry != "" {
		t.Errorf("entries = %q, %q", refl.VertexEntry, refl.FragmentEntry)
	}
	if got, ok := refl.StructSize("ShadowPass"); !ok || got != shadowPassSize {
		t.Errorf("ShadowPass = %d bytes (%v), want %d", got, ok, shadowPassSize)
	}
	if refl.VertexLayouts[0].ArrayStride != model.VertexStride {
		t.Errorf("stride = %d", refl.VertexLayouts[0].ArrayStride)
	}
	if len(refl.BindGroups[0].Entries) != 1 {
		t.Errorf("shadow pass binds %d entries in group 0, want 1", len(refl.BindGroups[0].Entries))
	}
}

func TestLitShaderLayoutMismatch(t *testing.T) {
	broken := strings.Replace(litShaderSource, "baseColor: vec4<f32>,", "baseColor: vec4<f32>,\n    extra: vec4<f32>,", 1)
	if broken == litShaderSource {
		t.Fatal("replacement did not apply")
	}
	if _, err := reflectLitShader(broken); err == nil || !strings.Contains(err.Error(), "group 1") {
		t.Fatalf("err = %v, want group 1 size mismatch", err)
	}
}
