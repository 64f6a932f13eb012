package model

import "math"

// Material holds the surface parameters the lit pipeline understands.
type Material struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo color (RGBA, linear).
	BaseColor [4]float32

	// Metallic factor (0.0 = dielectric, 1.0 = metal).
	Metallic float32

	// Roughness factor (0.0 = smooth, 1.0 = rough).
	Roughness float32

	// Opacity multiplies BaseColor alpha. Values < 1 are drawn after opaque geometry.
	Opacity float32
}

// DefaultMaterial returns an opaque white dielectric material.
func DefaultMaterial() Material {
	return Material{
		Name:      "default",
		BaseColor: [4]float32{1, 1, 1, 1},
		Roughness: 1,
		Opacity:   1,
	}
}

// Transparent reports whether the material needs alpha blending.
func (m Material) Transparent() bool {
	return m.Opacity < 1 || m.BaseColor[3] < 1
}

// Mesh is immutable triangle geometry plus its material.
// Meshes are shared between cloned nodes; the renderer uploads each Mesh once.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices holds position and normal data.
	Vertices []Vertex

	// Indices holds triangle-list indices into Vertices.
	Indices []uint32

	// Material describes how the mesh is shaded.
	Material Material

	// BoundingMin and BoundingMax are the axis-aligned bounds in model space.
	BoundingMin [3]float32
	BoundingMax [3]float32
}

// ComputeBounds recalculates BoundingMin and BoundingMax from the vertices.
func (m *Mesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.BoundingMin, m.BoundingMax = [3]float32{}, [3]float32{}
		return
	}
	bmin := [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	bmax := [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, v := range m.Vertices {
		for k := 0; k < 3; k++ {
			if v.Position[k] < bmin[k] {
				bmin[k] = v.Position[k]
			}
			if v.Position[k] > bmax[k] {
				bmax[k] = v.Position[k]
			}
		}
	}
	m.BoundingMin, m.BoundingMax = bmin, bmax
}

// GenerateNormals computes smooth per-vertex normals by accumulating area-weighted face normals.
// Used when an imported primitive has no NORMAL attribute.
func (m *Mesh) GenerateNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = [3]float32{}
	}
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if int(i0) >= len(m.Vertices) || int(i1) >= len(m.Vertices) || int(i2) >= len(m.Vertices) {
			continue
		}
		p0, p1, p2 := m.Vertices[i0].Position, m.Vertices[i1].Position, m.Vertices[i2].Position
		e1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		e2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for _, idx := range [3]uint32{i0, i1, i2} {
			acc := &m.Vertices[idx].Normal
			acc[0] += n[0]
			acc[1] += n[1]
			acc[2] += n[2]
		}
	}
	for i := range m.Vertices {
		n := &m.Vertices[i].Normal
		l := float32(math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])))
		if l < 1e-8 {
			*n = [3]float32{0, 1, 0}
			continue
		}
		n[0] /= l
		n[1] /= l
		n[2] /= l
	}
}
