package server

import "go.uber.org/zap"

// ServerBuilderOption is a functional option for configuring a Server via NewServer.
type ServerBuilderOption func(*server)

// WithRoot sets the directory files are served from.
//
// Parameters:
//   - root: the filesystem root
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithRoot(root string) ServerBuilderOption {
	return func(s *server) {
		if root != "" {
			s.root = root
		}
	}
}

// WithPort sets the listen port. Values outside 1-65535 are ignored.
func WithPort(port int) ServerBuilderOption {
	return func(s *server) {
		if port > 0 && port <= 65535 {
			s.port = port
		}
	}
}

// WithLogger sets the access logger.
func WithLogger(logger *zap.Logger) ServerBuilderOption {
	return func(s *server) {
		if logger != nil {
			s.logger = logger.Named("server")
		}
	}
}
