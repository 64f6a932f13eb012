package shader

import (
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormat pairs a wgpu vertex format with its byte size.
type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

// typeLayout is the host-shareable size and alignment of a WGSL type.
type typeLayout struct {
	size  uint64
	align uint64
}

// field is one member of a WGSL struct. location is -1 when the member has no @location.
type field struct {
	name     string
	typeName string
	location int
	builtin  bool
}

// structDecl is a parsed `struct Name { ... }` block.
type structDecl struct {
	name   string
	fields []field
}

// isVertexInput reports whether the struct only carries @location members.
// Vertex outputs mix in @builtin(position) and are rejected.
func (s structDecl) isVertexInput() bool {
	located := false
	for _, f := range s.fields {
		if f.builtin {
			return false
		}
		if f.location >= 0 {
			located = true
		}
	}
	return located
}

// textureDimensions maps sampled and depth texture base names to their view dimension.
var textureDimensions = map[string]wgpu.TextureViewDimension{
	"texture_2d":             wgpu.TextureViewDimension2D,
	"texture_2d_array":       wgpu.TextureViewDimension2DArray,
	"texture_3d":             wgpu.TextureViewDimension3D,
	"texture_cube":           wgpu.TextureViewDimensionCube,
	"texture_depth_2d":       wgpu.TextureViewDimension2D,
	"texture_depth_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_depth_cube":     wgpu.TextureViewDimensionCube,
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

// textureEntry fills the texture fields of e from a WGSL texture type such as
// texture_2d<f32> or texture_depth_2d. Storage and multisampled textures are not handled.
func textureEntry(typeName string, e *wgpu.BindGroupLayoutEntry) bool {
	base, param := typeName, ""
	if i := strings.IndexByte(typeName, '<'); i >= 0 {
		base = strings.TrimSpace(typeName[:i])
		param = strings.TrimSpace(strings.TrimSuffix(typeName[i+1:], ">"))
	}

	dim, ok := textureDimensions[base]
	if !ok {
		return false
	}
	e.Texture.ViewDimension = dim
	if strings.HasPrefix(base, "texture_depth_") {
		e.Texture.SampleType = wgpu.TextureSampleTypeDepth
		return true
	}
	st, ok := sampleTypes[param]
	if !ok {
		return false
	}
	e.Texture.SampleType = st
	return true
}
