package loader

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// cacheEntry is a decoded model, or an in-flight decode other requests can wait on.
type cacheEntry struct {
	done chan struct{}
	node model.Node
	err  error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger *zap.Logger
	sink   diagnostics.Sink

	pool    worker.DynamicWorkerPool
	workers int
	taskID  atomic.Int64

	client    *http.Client
	assetRoot string
	fallback  string

	modelCache map[string]*cacheEntry

	tracker     Tracker
	fetch       *fetcher
	completions chan Result
	bufferSize  int
}

// Loader fetches and decodes models asynchronously and reports each outcome on a
// completion channel. A failed source is retried once with the fallback source.
type Loader interface {
	// Load starts loading req in the background and returns immediately.
	// Exactly one Result for req is eventually sent on Completions, unless ctx is cancelled first.
	//
	// Parameters:
	//   - ctx: cancels in-flight fetches and abandons delivery
	//   - req: the model source, placement and slot
	Load(ctx context.Context, req LoadRequest)

	// Completions returns the channel that receives one Result per Load call.
	// Results arrive in completion order, not submission order.
	//
	// Returns:
	//   - <-chan Result: the completion channel
	Completions() <-chan Result

	// Progress returns the aggregate progress across every file fetched.
	//
	// Returns:
	//   - Tracker: the aggregate progress tracker
	Progress() Tracker

	// FallbackSource returns the source tried after a primary failure.
	FallbackSource() string
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		logger:     zap.NewNop(),
		workers:    max(runtime.NumCPU()-1, 1),
		client:     http.DefaultClient,
		modelCache: make(map[string]*cacheEntry),
		bufferSize: 16,
	}

	for _, option := range options {
		option(l)
	}

	if l.sink == nil {
		l.sink = diagnostics.NewSink(diagnostics.WithLogger(l.logger))
	}
	l.tracker = NewTracker(l.sink)
	l.fetch = &fetcher{
		client:  l.client,
		root:    l.assetRoot,
		tracker: l.tracker,
		logger:  l.logger,
	}
	l.completions = make(chan Result, l.bufferSize)
	if l.pool == nil {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	}
	return l
}

func (l *loader) Completions() <-chan Result {
	return l.completions
}

func (l *loader) Progress() Tracker {
	return l.tracker
}

func (l *loader) FallbackSource() string {
	return l.fallback
}

func (l *loader) Load(ctx context.Context, req LoadRequest) {
	id := int(l.taskID.Add(1))
	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			res := l.safeRun(ctx, req)
			if ctx.Err() != nil {
				l.logger.Debug("completion dropped", zap.Int("slot", req.Slot), zap.Error(ctx.Err()))
				return nil, nil
			}
			select {
			case l.completions <- res:
			case <-ctx.Done():
				l.logger.Debug("completion dropped", zap.Int("slot", req.Slot), zap.Error(ctx.Err()))
			}
			return nil, nil
		},
	})
}

// safeRun is run with a panic turned into a failed Result, since pool workers do not recover.
func (l *loader) safeRun(ctx context.Context, req LoadRequest) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("load task panicked", zap.Int("slot", req.Slot), zap.Any("panic", r))
			res = Result{Request: req, Source: req.Source, Err: fmt.Errorf("%w: %v", ErrMalformedModel, r)}
		}
	}()
	return l.run(ctx, req)
}

// run tries the primary source, then the fallback exactly once.
func (l *loader) run(ctx context.Context, req LoadRequest) Result {
	n := req.Slot + 1

	node, err := l.loadPlaced(ctx, req.Source, req)
	if err == nil {
		return Result{Request: req, Source: req.Source, Model: node}
	}
	l.sink.Recordf("Error loading penguin %d from %s: %v", n, req.Source, err)
	l.logger.Warn("model load failed", zap.Int("slot", req.Slot), zap.String("source", req.Source), zap.Error(err))

	if l.fallback == "" {
		return Result{Request: req, Source: req.Source, Err: err}
	}

	l.sink.Recordf("Falling back to duck model for penguin %d", n)
	node, ferr := l.loadPlaced(ctx, l.fallback, req)
	if ferr == nil {
		return Result{Request: req, Source: l.fallback, Model: node, Fallback: true}
	}
	l.sink.Recordf("Error loading penguin %d from %s: %v", n, l.fallback, ferr)
	l.logger.Warn("fallback load failed", zap.Int("slot", req.Slot), zap.String("source", l.fallback), zap.Error(ferr))
	return Result{
		Request:  req,
		Source:   l.fallback,
		Fallback: true,
		Err:      fmt.Errorf("primary %s: %w; fallback %s: %w", req.Source, err, l.fallback, ferr),
	}
}

// loadPlaced returns a private clone of source's model with req's placement applied and
// shadows enabled on every mesh.
func (l *loader) loadPlaced(ctx context.Context, source string, req LoadRequest) (model.Node, error) {
	l.sink.Recordf("Attempting to load model from: %s", source)

	n := req.Slot + 1
	report := checkpointReporter(func(pct float64) {
		l.sink.Recordf("Penguin %d loading: %.1f%%", n, pct)
	})

	tmpl, err := l.model(ctx, source, report)
	if err != nil {
		return nil, err
	}

	m := tmpl.Clone()
	p := req.Placement
	s := p.ResolvedScale()
	m.SetPosition(p.X, p.Y, p.Z)
	m.SetRotationY(p.RotationY)
	m.SetScale(s, s, s)
	m.Traverse(func(node model.Node) {
		if node.IsMesh() {
			node.SetCastShadow(true)
			node.SetReceiveShadow(true)
		}
	})
	return m, nil
}

// model returns the decoded template for source, decoding it at most once at a time.
// Failed decodes are evicted so a later request retries.
func (l *loader) model(ctx context.Context, source string, onProgress progressFunc) (model.Node, error) {
	l.mu.Lock()
	if e, ok := l.modelCache[source]; ok {
		l.mu.Unlock()
		select {
		case <-e.done:
			return e.node, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	e := &cacheEntry{done: make(chan struct{})}
	l.modelCache[source] = e
	l.mu.Unlock()

	e.node, e.err = l.decode(ctx, source, onProgress)
	if e.err != nil {
		l.mu.Lock()
		delete(l.modelCache, source)
		l.mu.Unlock()
	}
	close(e.done)
	return e.node, e.err
}

func (l *loader) decode(ctx context.Context, source string, onProgress progressFunc) (node model.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			node, err = nil, fmt.Errorf("%s: %w: %v", source, ErrMalformedModel, r)
		}
	}()

	data, err := l.fetch.fetch(ctx, source, onProgress)
	if err != nil {
		return nil, err
	}

	backend, err := backendFor(source, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	resolve := func(ctx context.Context, uri string) ([]byte, error) {
		ref, err := resolveRef(source, uri)
		if err != nil {
			return nil, err
		}
		return l.fetch.fetch(ctx, ref, nil)
	}

	node, err = backend.Decode(ctx, data, source, resolve)
	if err != nil {
		return nil, err
	}
	l.logger.Info("model decoded",
		zap.String("source", source),
		zap.Int("meshes", len(model.MeshNodes(node))),
	)
	return node, nil
}
