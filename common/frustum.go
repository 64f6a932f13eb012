package common

import (
	"math"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a column-major view-projection
// matrix with the Gribb/Hartmann method: each plane is row 3 plus or minus row 0, 1 or 2.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: 16 float32 values representing the view-projection matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj []float32) Frustum {
	var f Frustum

	// row(i) component j is viewProj[j*4+i]
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	r3 := row(3)
	for axis := 0; axis < 3; axis++ {
		r := row(axis)
		for side, sign := range [2]float32{1, -1} {
			p := &f.Planes[axis*2+side]
			p.Normal = [3]float32{r3[0] + sign*r[0], r3[1] + sign*r[1], r3[2] + sign*r[2]}
			p.Distance = r3[3] + sign*r[3]
			p.normalize()
		}
	}
	return f
}

func (p *Plane) normalize() {
	length := float32(math.Sqrt(float64(
		p.Normal[0]*p.Normal[0] +
			p.Normal[1]*p.Normal[1] +
			p.Normal[2]*p.Normal[2],
	)))

	if length > 0 {
		invLen := 1.0 / length
		p.Normal[0] *= invLen
		p.Normal[1] *= invLen
		p.Normal[2] *= invLen
		p.Distance *= invLen
	}
}

// ContainsSphere reports whether a sphere is at least partly inside the frustum.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius
//
// Returns:
//   - bool: false only when the sphere is entirely outside one plane
func (f *Frustum) ContainsSphere(center [3]float32, radius float32) bool {
	for _, p := range f.Planes {
		d := p.Normal[0]*center[0] + p.Normal[1]*center[1] + p.Normal[2]*center[2] + p.Distance
		if d < -radius {
			return false
		}
	}
	return true
}
