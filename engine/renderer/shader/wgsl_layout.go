package shader

import (
	"strconv"
	"strings"
)

// primitiveLayouts holds size and alignment of the host-shareable WGSL built-in types.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var primitiveLayouts = map[string]typeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"bool": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},
	"vec2<u32>": {8, 8},
	"vec2u":     {8, 8},
	"vec4<u32>": {16, 16},
	"vec4u":     {16, 16},
	"vec4<i32>": {16, 16},
	"vec4i":     {16, 16},

	"mat3x3<f32>": {48, 16},
	"mat3x3f":     {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

func alignUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// resolveLayout looks a type up among primitives, known structs and fixed-size arrays.
func resolveLayout(typeName string, known map[string]typeLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}

	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return typeLayout{}, false
	}
	elemName, countText, fixed := strings.Cut(strings.TrimSuffix(inner, ">"), ",")
	if !fixed {
		return typeLayout{}, false
	}
	elem, ok := resolveLayout(strings.TrimSpace(elemName), known)
	if !ok {
		return typeLayout{}, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(countText), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	return typeLayout{n * alignUp(elem.align, elem.size), elem.align}, true
}

// structLayout places each member at its aligned offset and rounds the total up
// to the largest member alignment. Builtin members are not part of buffer memory.
func structLayout(s structDecl, known map[string]typeLayout) (typeLayout, bool) {
	var offset uint64
	maxAlign := uint64(1)
	for _, f := range s.fields {
		if f.builtin {
			continue
		}
		l, ok := resolveLayout(f.typeName, known)
		if !ok {
			return typeLayout{}, false
		}
		offset = alignUp(l.align, offset) + l.size
		maxAlign = max(maxAlign, l.align)
	}
	return typeLayout{alignUp(maxAlign, offset), maxAlign}, true
}

// structLayouts resolves structs in dependency order by repeated passes until no
// pass makes progress. Structs with unresolvable members are left out.
func structLayouts(structs []structDecl) map[string]typeLayout {
	resolved := make(map[string]typeLayout, len(structs))
	pending := append([]structDecl(nil), structs...)
	for len(pending) > 0 {
		next := pending[:0]
		for _, s := range pending {
			if l, ok := structLayout(s, resolved); ok {
				resolved[s.name] = l
			} else {
				next = append(next, s)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return resolved
}
