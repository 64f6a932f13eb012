package light

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestDirectionalPointsFromPositionToTarget(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithPosition(5, 10, 7.5))
	d := l.Direction()

	n := float32(math.Sqrt(25 + 100 + 56.25))
	want := [3]float32{-5 / n, -10 / n, -7.5 / n}
	for i := range want {
		if !near(d[i], want[i]) {
			t.Fatalf("direction = %v, want %v", d, want)
		}
	}
}

func TestHexColor(t *testing.T) {
	c := HexColor(0x444444)
	if !near(c[0], 68.0/255) || c[0] != c[1] || c[1] != c[2] {
		t.Fatalf("HexColor(0x444444) = %v", c)
	}
	if HexColor(0xffffff) != [3]float32{1, 1, 1} {
		t.Fatal("white should map to 1,1,1")
	}
}

func TestPackCombinesLights(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeAmbient, WithIntensity(0.5)),
		NewLight(LightTypeDirectional, WithPosition(0, 10, 0), WithShadow(DefaultShadow())),
		NewLight(LightTypeHemisphere, WithHexColor(0xffffff), WithGroundColor(0x444444), WithIntensity(0.6), WithPosition(0, 50, 0)),
		NewLight(LightTypeAmbient, WithIntensity(1), WithEnabled(false)),
	}
	g := Pack(lights)

	if g.Ambient != [4]float32{0.5, 0.5, 0.5, 0} {
		t.Errorf("ambient = %v", g.Ambient)
	}
	if g.DirDirection != [4]float32{0, -1, 0, 0} || g.DirColor != [4]float32{1, 1, 1, 0} {
		t.Errorf("directional = %v %v", g.DirDirection, g.DirColor)
	}
	if !near(g.HemiSky[0], 0.6) || !near(g.HemiGround[0], 0.6*68/255) {
		t.Errorf("hemisphere = %v %v", g.HemiSky, g.HemiGround)
	}
	if g.HemiUp != [4]float32{0, 1, 0, 0} {
		t.Errorf("hemisphere up = %v", g.HemiUp)
	}
	if len(g.Marshal()) != g.Size() {
		t.Errorf("marshal length %d != size %d", len(g.Marshal()), g.Size())
	}
}

func TestDefaultShadow(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithShadow(DefaultShadow()))
	s := l.Shadow()
	if s == nil || s.MapSize != 2048 || s.HalfExtent != 15 {
		t.Fatalf("shadow = %+v", s)
	}
	if NewLight(LightTypeAmbient).Shadow() != nil {
		t.Fatal("lights cast no shadows by default")
	}
}

func TestShadowCaster(t *testing.T) {
	sun := NewLight(LightTypeDirectional, WithPosition(5, 10, 7.5), WithShadow(DefaultShadow()))
	off := NewLight(LightTypeDirectional, WithShadow(DefaultShadow()))
	off.SetEnabled(false)
	plain := NewLight(LightTypeDirectional)
	ambient := NewLight(LightTypeAmbient)

	tests := []struct {
		name   string
		lights []Light
		want   Light
	}{
		{"none", nil, nil},
		{"no shadow settings", []Light{ambient, plain}, nil},
		{"disabled skipped", []Light{off, sun}, sun},
		{"first wins", []Light{sun, NewLight(LightTypeDirectional, WithShadow(DefaultShadow()))}, sun},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShadowCaster(tt.lights); got != tt.want {
				t.Fatalf("ShadowCaster = %v, want %v", got, tt.want)
			}
		})
	}
}

func project(m [16]float32, p [3]float32) [3]float32 {
	var out [4]float32
	for r := 0; r < 4; r++ {
		out[r] = m[r]*p[0] + m[4+r]*p[1] + m[8+r]*p[2] + m[12+r]
	}
	return [3]float32{out[0] / out[3], out[1] / out[3], out[2] / out[3]}
}

func TestGPUShadowLightViewProjection(t *testing.T) {
	sun := NewLight(LightTypeDirectional, WithPosition(5, 10, 7.5), WithShadow(DefaultShadow()))
	s := NewGPUShadow(sun, [3]float32{})

	if s.Size() != 80 || len(s.Marshal()) != 80 {
		t.Fatalf("size = %d marshal = %d, want 80", s.Size(), len(s.Marshal()))
	}
	if s.Params[3] != 1 || !near(s.Params[0], 1.0/ShadowMapResolution) || s.Params[1] != DefaultShadowBias {
		t.Fatalf("params = %v", s.Params)
	}
	if want := 2 * DefaultShadowHalfExtent / ShadowMapResolution * DefaultShadowNormalBiasScale; !near(s.Params[2], want) {
		t.Errorf("normal bias = %f, want %f", s.Params[2], want)
	}

	c := project(s.LightVP, [3]float32{})
	if !near(c[0], 0) || !near(c[1], 0) || c[2] <= 0 || c[2] >= 1 {
		t.Fatalf("center projects to %v", c)
	}

	// further along the light's travel means deeper in the map
	d := sun.Direction()
	behind := project(s.LightVP, [3]float32{d[0] * 5, d[1] * 5, d[2] * 5})
	if behind[2] <= c[2] {
		t.Errorf("depth %f behind center not greater than %f", behind[2], c[2])
	}

	// the half extent lands on the clip edge
	edge := project(s.LightVP, lightRight(s.LightVP, DefaultShadowHalfExtent))
	if !near(edge[0], 1) {
		t.Errorf("half extent projects to x = %f, want 1", edge[0])
	}
}

// lightRight returns the world point offset by dist along the light view's x axis.
func lightRight(vp [16]float32, dist float32) [3]float32 {
	// first row of the view rotation, recovered from the scaled projection row
	x := [3]float32{vp[0], vp[4], vp[8]}
	n := float32(math.Sqrt(float64(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])))
	return [3]float32{x[0] / n * dist, x[1] / n * dist, x[2] / n * dist}
}

func TestGPUShadowDisabled(t *testing.T) {
	for _, l := range []Light{nil, NewLight(LightTypeDirectional)} {
		s := NewGPUShadow(l, [3]float32{1, 2, 3})
		if s.Params != [4]float32{} {
			t.Errorf("params = %v, want zero", s.Params)
		}
		if s.LightVP[0] != 1 || s.LightVP[15] != 1 {
			t.Errorf("light VP = %v, want identity", s.LightVP)
		}
	}
}
