package animation

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/penguin-paradise/engine/game_object"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

type objects []game_object.GameObject

func (o objects) ForEach(visit func(game_object.GameObject)) {
	for _, obj := range o {
		visit(obj)
	}
}

func TestStepVerticalPose(t *testing.T) {
	m := model.NewNode()
	a := NewAnimator(objects{game_object.NewGameObject(m, game_object.WithMotion(2, 0))})
	a.Step(math.Pi)
	if y := m.Position()[1]; math.Abs(float64(y-0.1)) > 1e-6 {
		t.Fatalf("y = %f, want 0.1", y)
	}
}

func TestDriftIsSumOfFrameIncrements(t *testing.T) {
	const period = 3
	obj := game_object.NewGameObject(model.NewNode(), game_object.WithMotion(period, 0.7))
	a := NewAnimator(objects{obj})

	var want float32
	dt := float32(1.0 / 60.0)
	for i := 1; i <= 240; i++ {
		elapsed := float32(i) * dt
		want += game_object.DriftStep(period, elapsed)
		a.Step(elapsed)
	}
	if obj.RotationY() != want {
		t.Fatalf("rotation = %v, want exact sum %v", obj.RotationY(), want)
	}

	// the same end time reached in fewer frames accumulates a different rotation
	coarse := game_object.NewGameObject(model.NewNode(), game_object.WithMotion(period, 0.7))
	b := NewAnimator(objects{coarse})
	for i := 1; i <= 4; i++ {
		b.Step(float32(i))
	}
	if coarse.RotationY() == obj.RotationY() {
		t.Fatal("drift should depend on the number of frames, not just elapsed time")
	}
}

func TestStepSkipsDisabled(t *testing.T) {
	m := model.NewNode(model.WithPosition(0, 5, 0))
	obj := game_object.NewGameObject(m, game_object.WithEnabled(false))
	a := NewAnimator(objects{obj})
	a.Step(1)
	if m.Position()[1] != 5 || obj.RotationY() != 0 {
		t.Fatal("disabled objects must not animate")
	}
	if a.Frames() != 1 {
		t.Fatalf("frames = %d", a.Frames())
	}
}

func TestUpdateUsesClock(t *testing.T) {
	now := time.Unix(100, 0)
	a := NewAnimator(nil, WithClock(func() time.Time { return now }))
	now = now.Add(1500 * time.Millisecond)
	if got := a.Update(); got != 1.5 {
		t.Fatalf("elapsed = %f, want 1.5", got)
	}
	if a.Elapsed() != 1.5 {
		t.Fatalf("Elapsed = %f", a.Elapsed())
	}
}
