package model

import "math"

// NewCylinderMesh builds a closed cylinder centered on the origin along the Y axis.
//
// Parameters:
//   - radius: cylinder radius
//   - height: total height
//   - segments: radial segment count (minimum 3)
//   - mat: the surface material
//
// Returns:
//   - *Mesh: the generated mesh
func NewCylinderMesh(radius, height float32, segments int, mat Material) *Mesh {
	if segments < 3 {
		segments = 3
	}
	half := height / 2
	m := &Mesh{Name: "cylinder", Material: mat}

	// Side wall: two rings with outward normals.
	for i := 0; i <= segments; i++ {
		theta := float64(i) / float64(segments) * 2 * math.Pi
		sin, cos := float32(math.Sin(theta)), float32(math.Cos(theta))
		normal := [3]float32{sin, 0, cos}
		m.Vertices = append(m.Vertices,
			Vertex{Position: [3]float32{radius * sin, half, radius * cos}, Normal: normal},
			Vertex{Position: [3]float32{radius * sin, -half, radius * cos}, Normal: normal},
		)
	}
	for i := 0; i < segments; i++ {
		top0, bot0 := uint32(i*2), uint32(i*2+1)
		top1, bot1 := uint32(i*2+2), uint32(i*2+3)
		m.Indices = append(m.Indices, top0, bot0, top1, top1, bot0, bot1)
	}

	// Caps: a center vertex plus a ring per cap.
	for _, capY := range [2]float32{half, -half} {
		ny := float32(1)
		if capY < 0 {
			ny = -1
		}
		center := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, Vertex{Position: [3]float32{0, capY, 0}, Normal: [3]float32{0, ny, 0}})
		for i := 0; i <= segments; i++ {
			theta := float64(i) / float64(segments) * 2 * math.Pi
			sin, cos := float32(math.Sin(theta)), float32(math.Cos(theta))
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{radius * sin, capY, radius * cos},
				Normal:   [3]float32{0, ny, 0},
			})
		}
		for i := 0; i < segments; i++ {
			a, b := center+1+uint32(i), center+2+uint32(i)
			if ny > 0 {
				m.Indices = append(m.Indices, center, a, b)
			} else {
				m.Indices = append(m.Indices, center, b, a)
			}
		}
	}

	m.ComputeBounds()
	return m
}

// NewPlaneMesh builds a single quad in the XZ plane facing +Y, centered on the origin.
//
// Parameters:
//   - width: extent along X
//   - depth: extent along Z
//   - mat: the surface material
//
// Returns:
//   - *Mesh: the generated mesh
func NewPlaneMesh(width, depth float32, mat Material) *Mesh {
	hw, hd := width/2, depth/2
	up := [3]float32{0, 1, 0}
	m := &Mesh{
		Name:     "plane",
		Material: mat,
		Vertices: []Vertex{
			{Position: [3]float32{-hw, 0, -hd}, Normal: up},
			{Position: [3]float32{-hw, 0, hd}, Normal: up},
			{Position: [3]float32{hw, 0, hd}, Normal: up},
			{Position: [3]float32{hw, 0, -hd}, Normal: up},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	m.ComputeBounds()
	return m
}
