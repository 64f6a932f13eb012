package game_object

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

func TestBobHeightAtPi(t *testing.T) {
	got := BobHeight(0, 2, 0, math.Pi)
	if math.Abs(float64(got-0.1)) > 1e-6 {
		t.Fatalf("BobHeight(0, 2, 0, π) = %f, want 0.1", got)
	}
}

func TestNewGameObjectTakesPlacementFromModel(t *testing.T) {
	m := model.NewNode(model.WithPosition(2, 0.5, 0), model.WithRotation(0, 1.25, 0))
	obj := NewGameObject(m, WithSlot(1))
	if obj.BaseY() != 0.5 || obj.RotationY() != 1.25 || obj.Slot() != 1 {
		t.Fatalf("baseY=%f rotY=%f slot=%d", obj.BaseY(), obj.RotationY(), obj.Slot())
	}
	if !obj.Enabled() {
		t.Fatal("new objects are enabled")
	}
}

func TestRandomMotionRanges(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		obj := NewGameObject(nil, WithRandomMotion(rng))
		if obj.Period() < 2 || obj.Period() >= 4 {
			t.Fatalf("period %f outside [2, 4)", obj.Period())
		}
		if obj.Phase() < 0 || obj.Phase() >= 2*math.Pi {
			t.Fatalf("phase %f outside [0, 2π)", obj.Phase())
		}
	}
}

func TestAnimateSetsHeightAndAccumulatesDrift(t *testing.T) {
	m := model.NewNode(model.WithPosition(-2, 0, 0))
	obj := NewGameObject(m, WithMotion(2, 0))

	obj.Animate(math.Pi)
	if p := m.Position(); math.Abs(float64(p[1]-0.1)) > 1e-6 || p[0] != -2 {
		t.Fatalf("position = %v", p)
	}
	first := obj.RotationY()
	obj.Animate(math.Pi)
	if math.Abs(float64(obj.RotationY()-2*first)) > 1e-7 {
		t.Fatalf("drift after two frames = %f, want %f", obj.RotationY(), 2*first)
	}
	if m.RotationY() != obj.RotationY() {
		t.Fatal("model rotation must follow the stored drift")
	}
}

func TestSetEnabledHidesModel(t *testing.T) {
	m := model.NewNode()
	obj := NewGameObject(m)
	obj.SetEnabled(false)
	if m.Visible() || obj.Enabled() {
		t.Fatal("disabled object should hide its model")
	}
}
