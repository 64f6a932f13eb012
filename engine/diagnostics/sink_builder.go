package diagnostics

import "go.uber.org/zap"

// SinkBuilderOption is a functional option for configuring a Sink via NewSink.
type SinkBuilderOption func(*sink)

// WithLogger sets the structured logger every message is mirrored to.
//
// Parameters:
//   - logger: the zap logger (nil keeps the no-op logger)
//
// Returns:
//   - SinkBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) SinkBuilderOption {
	return func(s *sink) {
		if logger != nil {
			s.logger = logger.Named("diagnostics")
		}
	}
}

// WithCapacity overrides the number of retained messages. Values <= 0 keep DefaultCapacity.
//
// Parameters:
//   - capacity: maximum retained messages
//
// Returns:
//   - SinkBuilderOption: option function to apply
func WithCapacity(capacity int) SinkBuilderOption {
	return func(s *sink) {
		s.capacity = capacity
	}
}

// WithPanel attaches a Panel at construction time.
//
// Parameters:
//   - p: the Panel mirroring the sink
//
// Returns:
//   - SinkBuilderOption: option function to apply
func WithPanel(p Panel) SinkBuilderOption {
	return func(s *sink) {
		if p != nil {
			s.panels = append(s.panels, p)
		}
	}
}
