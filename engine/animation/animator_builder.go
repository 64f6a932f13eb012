package animation

import "time"

// AnimatorBuilderOption is a functional option for configuring an Animator.
type AnimatorBuilderOption func(*animator)

// WithClock replaces time.Now as the animator's time source.
//
// Parameters:
//   - now: returns the current time
//
// Returns:
//   - AnimatorBuilderOption: functional option to set the clock
func WithClock(now func() time.Time) AnimatorBuilderOption {
	return func(a *animator) {
		if now != nil {
			a.now = now
		}
	}
}
