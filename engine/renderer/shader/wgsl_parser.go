package shader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var vertexFormats = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec2u":     {wgpu.VertexFormatUint32x2, 8},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8},
	"vec4u":     {wgpu.VertexFormatUint32x4, 16},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"i32":       {wgpu.VertexFormatSint32, 4},
	"vec4i":     {wgpu.VertexFormatSint32x4, 16},
	"vec4<i32>": {wgpu.VertexFormatSint32x4, 16},
}

var (
	structRegex   = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex  = regexp.MustCompile(`@builtin\(\w+\)`)

	// memberRegex skips leading attributes and captures name and type. The type
	// capture is greedy so array<T, N> survives.
	memberRegex = regexp.MustCompile(`^(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)$`)

	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindingRegex matches `@group(G) @binding(B) var<space> name: Type;`.
	bindingRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// declaration is a single resource binding found in the source.
type declaration struct {
	group, binding int
	space          string
	name           string
	typeName       string
}

func parseStructs(source string) []structDecl {
	matches := structRegex.FindAllStringSubmatch(source, -1)
	out := make([]structDecl, 0, len(matches))
	for _, m := range matches {
		out = append(out, structDecl{name: m[1], fields: parseFields(m[2])})
	}
	return out
}

func parseFields(body string) []field {
	var out []field
	for _, part := range splitTopLevel(body) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := memberRegex.FindStringSubmatch(part)
		if m == nil {
			continue
		}

		f := field{
			name:     m[1],
			typeName: strings.TrimSpace(m[2]),
			location: -1,
			builtin:  builtinRegex.MatchString(part),
		}
		if loc := locationRegex.FindStringSubmatch(part); loc != nil {
			f.location, _ = strconv.Atoi(loc[1])
		}
		out = append(out, f)
	}
	return out
}

func parseDeclarations(source string) []declaration {
	matches := bindingRegex.FindAllStringSubmatch(source, -1)
	out := make([]declaration, 0, len(matches))
	for _, m := range matches {
		g, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		out = append(out, declaration{
			group:    g,
			binding:  b,
			space:    strings.TrimSpace(m[3]),
			name:     m[4],
			typeName: strings.TrimSpace(m[5]),
		})
	}
	return out
}

func parseEntry(source string, re *regexp.Regexp) string {
	if m := re.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}

// vertexLayout packs the struct's members tightly in declaration order.
func vertexLayout(s structDecl) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(s.fields))
	var offset uint64
	for _, f := range s.fields {
		vf, ok := vertexFormats[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         vf.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += vf.size
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}

// splitTopLevel splits at commas outside angle brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// stripComments drops // line comments and nested /* */ block comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			pair := source[i : i+2]
			switch {
			case pair == "/*":
				depth++
				i++
				continue
			case pair == "*/" && depth > 0:
				depth--
				i++
				continue
			case pair == "//" && depth == 0:
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
