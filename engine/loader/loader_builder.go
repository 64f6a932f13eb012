package loader

import (
	"net/http"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the structured logger.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger.Named("loader")
		}
	}
}

// WithSink sets the diagnostic sink that receives load events.
//
// Parameters:
//   - sink: the diagnostic sink
//
// Returns:
//   - LoaderBuilderOption: a function that applies the sink option to a loader
func WithSink(sink diagnostics.Sink) LoaderBuilderOption {
	return func(l *loader) {
		l.sink = sink
	}
}

// WithAssetRoot sets the directory relative sources are resolved against.
//
// Parameters:
//   - root: the asset directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the asset root option to a loader
func WithAssetRoot(root string) LoaderBuilderOption {
	return func(l *loader) {
		l.assetRoot = root
	}
}

// WithFallbackSource sets the source tried once after a primary failure.
// An empty source disables the fallback.
//
// Parameters:
//   - source: the fallback model source
//
// Returns:
//   - LoaderBuilderOption: a function that applies the fallback option to a loader
func WithFallbackSource(source string) LoaderBuilderOption {
	return func(l *loader) {
		l.fallback = source
	}
}

// WithHTTPClient sets the client used for remote sources.
//
// Parameters:
//   - client: the HTTP client
//
// Returns:
//   - LoaderBuilderOption: a function that applies the client option to a loader
func WithHTTPClient(client *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithWorkers sets the number of concurrent load workers.
//
// Parameters:
//   - n: worker count, ignored when < 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n >= 1 {
			l.workers = n
		}
	}
}

// WithWorkerPool shares an existing pool instead of creating one.
//
// Parameters:
//   - pool: the worker pool
//
// Returns:
//   - LoaderBuilderOption: a function that applies the pool option to a loader
func WithWorkerPool(pool worker.DynamicWorkerPool) LoaderBuilderOption {
	return func(l *loader) {
		l.pool = pool
	}
}

// WithCompletionBuffer sets the completion channel capacity.
//
// Parameters:
//   - n: channel capacity, ignored when < 0
//
// Returns:
//   - LoaderBuilderOption: a function that applies the buffer option to a loader
func WithCompletionBuffer(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n >= 0 {
			l.bufferSize = n
		}
	}
}

// WithModel pre-populates the model cache with a decoded model.
//
// Parameters:
//   - source: the cache key for the model
//   - m: the model template
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(source string, m model.Node) LoaderBuilderOption {
	return func(l *loader) {
		done := make(chan struct{})
		close(done)
		l.modelCache[source] = &cacheEntry{done: done, node: m}
	}
}
