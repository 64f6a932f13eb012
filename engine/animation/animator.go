package animation

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/penguin-paradise/engine/game_object"
)

// Source yields the objects to animate. scene.Registry satisfies it.
type Source interface {
	ForEach(visit func(game_object.GameObject))
}

// animator is the implementation of the Animator interface.
type animator struct {
	mu sync.Mutex

	source Source
	now    func() time.Time
	start  time.Time

	elapsed float32
	frames  uint64
}

// Animator advances every registered object once per rendered frame from the time elapsed
// since the animator started. Each object depends only on its own parameters and the
// elapsed time, except for rotation drift which accumulates across calls.
type Animator interface {
	// Update animates every enabled object at the current clock time.
	//
	// Returns:
	//   - float32: seconds elapsed since start
	Update() float32

	// Step animates every enabled object at an explicit elapsed time.
	//
	// Parameters:
	//   - elapsed: seconds since start
	Step(elapsed float32)

	// Elapsed returns the elapsed time passed to the last Step.
	Elapsed() float32

	// Frames returns how many times the objects have been stepped.
	Frames() uint64
}

var _ Animator = &animator{}

// NewAnimator creates an Animator over source. The clock starts immediately.
//
// Parameters:
//   - source: the objects to animate
//   - options: variadic list of AnimatorBuilderOption functions
//
// Returns:
//   - Animator: the new animator
func NewAnimator(source Source, options ...AnimatorBuilderOption) Animator {
	a := &animator{
		source: source,
		now:    time.Now,
	}
	for _, option := range options {
		option(a)
	}
	a.start = a.now()
	return a
}

func (a *animator) Update() float32 {
	a.mu.Lock()
	elapsed := float32(a.now().Sub(a.start).Seconds())
	a.mu.Unlock()

	a.Step(elapsed)
	return elapsed
}

func (a *animator) Step(elapsed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.elapsed = elapsed
	a.frames++
	if a.source == nil {
		return
	}
	a.source.ForEach(func(obj game_object.GameObject) {
		if obj.Enabled() {
			obj.Animate(elapsed)
		}
	})
}

func (a *animator) Elapsed() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.elapsed
}

func (a *animator) Frames() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames
}
