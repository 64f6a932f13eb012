// Package shader reads the host-visible interface out of WGSL source: entry points,
// vertex buffer layouts, bind group layouts and uniform struct sizes.
package shader

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoVertexEntry is returned when the source declares no @vertex function.
	ErrNoVertexEntry = errors.New("wgsl: no @vertex entry point")

	// ErrNoVertexInput is returned when no struct qualifies as a vertex input.
	ErrNoVertexInput = errors.New("wgsl: no vertex input struct")
)

// Reflection is what a WGSL module expects the host to supply.
type Reflection struct {
	VertexEntry   string
	FragmentEntry string

	// VertexLayouts holds one buffer layout per vertex input struct, in source order.
	VertexLayouts []wgpu.VertexBufferLayout

	// BindGroups maps group index to a layout with entries sorted by binding.
	BindGroups map[int]wgpu.BindGroupLayoutDescriptor

	// Bindings maps group and binding index to the declared variable name.
	Bindings map[int]map[int]string

	structs map[string]typeLayout
}

// Reflect parses source and derives its layouts. Every binding is given the
// supplied visibility.
//
// Parameters:
//   - source: the WGSL module
//   - visibility: shader stages the bindings are visible to
//
// Returns:
//   - *Reflection: the derived layouts
//   - error: ErrNoVertexEntry, ErrNoVertexInput, or an unresolved buffer binding type
func Reflect(source string, visibility wgpu.ShaderStage) (*Reflection, error) {
	cleaned := stripComments(source)
	structs := parseStructs(cleaned)

	r := &Reflection{
		VertexEntry:   parseEntry(cleaned, vertexEntryRegex),
		FragmentEntry: parseEntry(cleaned, fragmentEntryRegex),
		BindGroups:    make(map[int]wgpu.BindGroupLayoutDescriptor),
		Bindings:      make(map[int]map[int]string),
		structs:       structLayouts(structs),
	}
	if r.VertexEntry == "" {
		return nil, ErrNoVertexEntry
	}

	for _, s := range structs {
		if !s.isVertexInput() {
			continue
		}
		if layout, ok := vertexLayout(s); ok {
			r.VertexLayouts = append(r.VertexLayouts, layout)
		}
	}
	if len(r.VertexLayouts) == 0 {
		return nil, ErrNoVertexInput
	}

	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	for _, d := range parseDeclarations(cleaned) {
		entry, err := r.entry(d, visibility)
		if err != nil {
			return nil, err
		}
		groups[d.group] = append(groups[d.group], entry)
		if r.Bindings[d.group] == nil {
			r.Bindings[d.group] = make(map[int]string)
		}
		r.Bindings[d.group][d.binding] = d.name
	}
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
		r.BindGroups[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return r, nil
}

func (r *Reflection) entry(d declaration, visibility wgpu.ShaderStage) (wgpu.BindGroupLayoutEntry, error) {
	e := wgpu.BindGroupLayoutEntry{Binding: uint32(d.binding), Visibility: visibility}

	switch {
	case d.space == "uniform":
		e.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(d.space, "storage") && strings.Contains(d.space, "read_write"):
		e.Buffer.Type = wgpu.BufferBindingTypeStorage
	case strings.HasPrefix(d.space, "storage"):
		e.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	case d.typeName == "sampler":
		e.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		return e, nil
	case d.typeName == "sampler_comparison":
		e.Sampler.Type = wgpu.SamplerBindingTypeComparison
		return e, nil
	case strings.HasPrefix(d.typeName, "texture_"):
		if !textureEntry(d.typeName, &e) {
			return e, fmt.Errorf("wgsl: %s: unsupported texture type %q", d.name, d.typeName)
		}
		return e, nil
	default:
		return e, fmt.Errorf("wgsl: %s: unsupported binding type %q", d.name, d.typeName)
	}

	l, ok := resolveLayout(d.typeName, r.structs)
	if !ok {
		return e, fmt.Errorf("wgsl: %s: cannot size type %q", d.name, d.typeName)
	}
	e.Buffer.MinBindingSize = l.size
	return e, nil
}

// StructSize returns the host-shareable byte size of a named struct.
//
// Parameters:
//   - name: the WGSL struct name
//
// Returns:
//   - uint64: size in bytes
//   - bool: false when the struct is unknown or could not be sized
func (r *Reflection) StructSize(name string) (uint64, bool) {
	l, ok := r.structs[name]
	return l.size, ok
}

// BindingSize returns MinBindingSize of the buffer at group and binding, or 0.
func (r *Reflection) BindingSize(group, binding int) uint64 {
	for _, e := range r.BindGroups[group].Entries {
		if int(e.Binding) == binding {
			return e.Buffer.MinBindingSize
		}
	}
	return 0
}
