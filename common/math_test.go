package common

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestMul4Identity(t *testing.T) {
	var id [16]float32
	Identity(id[:])

	m := make([]float32, 16)
	BuildModelMatrix(m, 1, 2, 3, 0.3, 0.5, 0.1, 2, 2, 2)

	out := make([]float32, 16)
	Mul4(out, id[:], m)
	for i := range m {
		if !near(out[i], m[i]) {
			t.Fatalf("I*M differs at %d: %v vs %v", i, out[i], m[i])
		}
	}
}

func TestInvert4RoundTrip(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, -4, 1, 7, 0.2, 1.1, -0.4, 1.5, 0.5, 3)

	inv := make([]float32, 16)
	if !Invert4(inv, m) {
		t.Fatal("matrix reported singular")
	}
	out := make([]float32, 16)
	Mul4(out, m, inv)

	var id [16]float32
	Identity(id[:])
	for i := range out {
		if !near(out[i], id[i]) {
			t.Fatalf("M*inv(M) at %d = %v, want %v", i, out[i], id[i])
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	m := make([]float32, 16)
	out := []float32{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	if Invert4(out, m) {
		t.Fatal("zero matrix inverted")
	}
	if out[0] != 9 {
		t.Fatal("output modified for singular input")
	}
}

func TestQuatToMat4(t *testing.T) {
	// 90 degrees about +Y maps +X to -Z.
	s := float32(math.Sin(math.Pi / 4))
	m := make([]float32, 16)
	QuatToMat4(m, [4]float32{0, s, 0, s})
	if !near(m[0], 0) || !near(m[2], -1) {
		t.Fatalf("x axis = (%v, %v, %v)", m[0], m[1], m[2])
	}

	QuatToMat4(m, [4]float32{})
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Fatal("zero quaternion did not give identity")
	}
}

func TestFrustumContainsSphere(t *testing.T) {
	view := make([]float32, 16)
	proj := make([]float32, 16)
	vp := make([]float32, 16)
	LookAt(view, 0, 0, 5, 0, 0, 0, 0, 1, 0)
	Perspective(proj, math.Pi/3, 1, 0.1, 100)
	Mul4(vp, proj, view)
	f := ExtractFrustumFromMatrix(vp)

	tests := []struct {
		name   string
		center [3]float32
		radius float32
		want   bool
	}{
		{"origin", [3]float32{0, 0, 0}, 1, true},
		{"behind camera", [3]float32{0, 0, 20}, 1, false},
		{"beyond far plane", [3]float32{0, 0, -200}, 1, false},
		{"far left", [3]float32{-50, 0, 0}, 1, false},
		{"straddles left plane", [3]float32{-3.5, 0, 0}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsSphere(tt.center, tt.radius); got != tt.want {
				t.Fatalf("ContainsSphere(%v, %v) = %v, want %v", tt.center, tt.radius, got, tt.want)
			}
		})
	}
}

func TestClampAndCoalesce(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Fatal("Clamp out of range")
	}
	if Coalesce("", "a", "b") != "a" {
		t.Fatal("Coalesce did not pick first non-zero")
	}
	if Coalesce(0, 0) != 0 {
		t.Fatal("Coalesce of zeros is not zero")
	}
}

func TestOrthographicDepthRange(t *testing.T) {
	m := make([]float32, 16)
	Orthographic(m, -10, 10, -5, 5, 1, 21)

	tests := []struct {
		name string
		in   [3]float32
		want [3]float32
	}{
		{"near corner", [3]float32{-10, -5, -1}, [3]float32{-1, -1, 0}},
		{"far corner", [3]float32{10, 5, -21}, [3]float32{1, 1, 1}},
		{"center", [3]float32{0, 0, -11}, [3]float32{0, 0, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, z := tt.in[0], tt.in[1], tt.in[2]
			got := [3]float32{
				m[0]*x + m[4]*y + m[8]*z + m[12],
				m[1]*x + m[5]*y + m[9]*z + m[13],
				m[2]*x + m[6]*y + m[10]*z + m[14],
			}
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Fatalf("project(%v) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}
