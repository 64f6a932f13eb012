package game_object

import (
	"math"
	"math/rand/v2"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithSlot sets the placement slot of the GameObject.
//
// Parameters:
//   - slot: the slot index
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the slot
func WithSlot(slot int) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.slot = slot
	}
}

// WithEnabled sets whether the GameObject is animated and rendered.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithBaseY overrides the resting height taken from the model.
//
// Parameters:
//   - y: the resting height
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the base height
func WithBaseY(y float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.baseY = y
	}
}

// WithMotion sets the animation period and phase explicitly.
//
// Parameters:
//   - period: seconds per radian of the bob argument, must be > 0
//   - phase: phase offset in radians
//
// Returns:
//   - GameObjectBuilderOption: functional option to set period and phase
func WithMotion(period, phase float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.period = period
		obj.phase = phase
	}
}

// WithRandomMotion draws period in [2, 4) and phase in [0, 2π) from rng.
// A nil rng uses the package-level generator.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - GameObjectBuilderOption: functional option to randomize period and phase
func WithRandomMotion(rng *rand.Rand) GameObjectBuilderOption {
	return func(obj *gameObject) {
		draw := rand.Float32
		if rng != nil {
			draw = rng.Float32
		}
		obj.period = MinPeriod + draw()*PeriodSpread
		obj.phase = draw() * 2 * math.Pi
	}
}
