package profiler

import (
	"time"

	"go.uber.org/zap"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger samples are written to.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger.Named("profiler")
		}
	}
}

// WithInterval sets how often a sample is logged. Values <= 0 are ignored.
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
