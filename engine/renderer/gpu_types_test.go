package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/penguin-paradise/common"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

func TestUniformSizes(t *testing.T) {
	var frame GPUFrameUniform
	if frame.Size() != 272 || len(frame.Marshal()) != 272 {
		t.Errorf("frame size = %d marshal = %d, want 272", frame.Size(), len(frame.Marshal()))
	}
	var object GPUObjectUniform
	if object.Size() != 160 || len(object.Marshal()) != 160 {
		t.Errorf("object size = %d marshal = %d, want 160", object.Size(), len(object.Marshal()))
	}
}

func TestObjectUniformNormalMatrix(t *testing.T) {
	var world [16]float32
	common.Identity(world[:])
	world[0], world[5], world[10] = 2, 2, 2
	world[12] = 5

	u := NewGPUObjectUniform(world, model.DefaultMaterial(), true)
	for i, want := range map[int]float32{0: 0.5, 5: 0.5, 10: 0.5, 15: 1} {
		if u.Normal[i] != want {
			t.Errorf("normal[%d] = %f, want %f", i, u.Normal[i], want)
		}
	}
	// translation moves into the bottom row after transposing the inverse
	if u.Normal[3] != -2.5 {
		t.Errorf("normal[3] = %f, want -2.5", u.Normal[3])
	}
	if u.Params[2] != 1 {
		t.Errorf("receive shadow flag = %f", u.Params[2])
	}
}

func TestObjectUniformOpacity(t *testing.T) {
	var world [16]float32
	common.Identity(world[:])

	mat := model.DefaultMaterial()
	mat.Opacity = 0.8
	if u := NewGPUObjectUniform(world, mat, false); u.BaseColor[3] != 0.8 {
		t.Errorf("alpha = %f, want 0.8", u.BaseColor[3])
	}

	mat.Opacity = 0
	if u := NewGPUObjectUniform(world, mat, false); u.BaseColor[3] != 1 {
		t.Errorf("zero opacity should read as opaque, alpha = %f", u.BaseColor[3])
	}

	var singular [16]float32
	u := NewGPUObjectUniform(singular, mat, false)
	if u.Normal[0] != 1 || u.Normal[15] != 1 {
		t.Errorf("singular world should give identity normal matrix, got %v", u.Normal)
	}
}
