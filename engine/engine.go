package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/penguin-paradise/engine/animation"
	"github.com/Carmen-Shannon/penguin-paradise/engine/camera"
	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
	"github.com/Carmen-Shannon/penguin-paradise/engine/loader"
	"github.com/Carmen-Shannon/penguin-paradise/engine/profiler"
	"github.com/Carmen-Shannon/penguin-paradise/engine/renderer"
	"github.com/Carmen-Shannon/penguin-paradise/engine/scene"
	"github.com/Carmen-Shannon/penguin-paradise/engine/window"
)

// MessageAllLoaded is recorded once every requested slot has settled.
const MessageAllLoaded = "All models loaded successfully!"

// engine implements the Engine interface.
// Everything except loader workers runs on the thread that called Run.
type engine struct {
	logger *zap.Logger
	sink   diagnostics.Sink

	window   window.Window
	panel    *window.TitlePanel
	renderer renderer.Renderer
	scene    scene.Scene
	loader   loader.Loader
	animator animation.Animator
	clock    func() time.Time

	modelSource string
	placements  []loader.Placement

	ctx         context.Context
	cancel      context.CancelFunc
	quitChannel chan struct{}
	quitOnce    sync.Once

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	settled          bool
	frames           uint64
}

// Engine is the main entry point for the engine.
// It owns the frame loop: poll input, drain finished loads, update controls and animation, render.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the scene being animated and drawn.
	Scene() scene.Scene

	// Sink returns the diagnostic sink shared by every stage.
	Sink() diagnostics.Sink

	// Loader returns the asset loader.
	Loader() loader.Loader

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Start issues a load for every configured placement that has no object and no load in flight.
	//
	// Parameters:
	//   - ctx: cancels in-flight loads
	//
	// Returns:
	//   - int: the number of loads issued
	Start(ctx context.Context) int

	// Frame runs one iteration of the frame loop. A panic inside the frame is recovered and
	// recorded as an ERROR diagnostic.
	Frame()

	// Frames returns the number of completed Frame calls.
	Frames() uint64

	// Run starts loading and runs the frame loop on the calling thread until the window closes
	// or Quit is called.
	Run()

	// Quit cancels in-flight loads and stops the frame loop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options. A scene, loader and sink are
// created when not supplied, and the window's input and resize callbacks are bound.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger:      zap.NewNop(),
		clock:       time.Now,
		quitChannel: make(chan struct{}),
		placements:  scene.DefaultPlacements(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.sink == nil {
		e.sink = diagnostics.NewSink(diagnostics.WithLogger(e.logger))
	}
	if e.scene == nil {
		cam := camera.NewCamera(camera.WithController(camera.NewCameraController()))
		if e.window != nil && e.window.Height() > 0 {
			cam.SetAspect(float32(e.window.Width()) / float32(e.window.Height()))
		}
		e.scene = scene.NewScene("penguin-paradise",
			scene.WithLogger(e.logger),
			scene.WithCamera(cam),
			scene.WithSink(e.sink),
			scene.WithLights(scene.DefaultLights()...),
			scene.WithEnvironment(scene.DefaultEnvironment()...),
		)
	}
	if e.loader == nil {
		e.loader = loader.NewLoader(loader.WithLogger(e.logger), loader.WithSink(e.sink))
	}
	if e.animator == nil {
		e.animator = animation.NewAnimator(e.scene.Registry(), animation.WithClock(e.clock))
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())

	if e.window != nil {
		if e.panel == nil {
			e.panel = window.NewTitlePanel(e.window.Title())
		}
		e.sink.AttachPanel(e.panel)
		e.window.SetResizeCallback(e.resize)
		e.bindInput()
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Sink() diagnostics.Sink {
	return e.sink
}

func (e *engine) Loader() loader.Loader {
	return e.loader
}

func (e *engine) Start(ctx context.Context) int {
	if e.scene.Requested() == 0 {
		e.sink.Record("Loading penguin models")
	}
	issued := e.scene.Request(ctx, e.loader, e.modelSource, e.placements)
	if issued > 0 {
		e.settled = false
	}
	return issued
}

func (e *engine) Run() {
	defer e.Quit()

	e.Start(e.ctx)

	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			_ = e.window.Close()
			return
		default:
		}
		e.Frame()
	})
	e.window.ProcessMessages()
}

// Quit signals the frame loop to stop and cancels in-flight loads.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.cancel()
		close(e.quitChannel)
	})
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Frame() {
	start := e.clock()
	defer func() {
		if r := recover(); r != nil {
			e.sink.Recordf("ERROR: %v", r)
		}
		e.frames++
		e.limit(start)
	}()

	e.drain()

	if cam := e.scene.Camera(); cam != nil {
		if ctrl := cam.Controller(); ctrl != nil && ctrl.Update() {
			cam.Update()
		}
	}

	e.animator.Update()

	if e.panel != nil && e.window != nil {
		e.panel.Apply(e.window)
	}

	if e.renderer != nil {
		if _, err := e.renderer.Render(e.scene); err != nil {
			e.logger.Debug("frame skipped", zap.Error(err))
		}
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}
}

// drain hands every finished load to the scene without blocking, then updates the
// loading indicator.
func (e *engine) drain() {
	completions := e.loader.Completions()
	for done := false; !done; {
		select {
		case res := <-completions:
			e.scene.HandleResult(res)
		default:
			done = true
		}
	}

	if e.settled || e.scene.Requested() == 0 {
		return
	}
	if e.panel != nil {
		e.panel.SetProgress(e.loader.Progress().Fraction())
	}
	if e.scene.Pending() == 0 {
		e.settled = true
		e.sink.Record(MessageAllLoaded)
		if e.panel != nil {
			e.panel.Done()
		}
	}
}

func (e *engine) limit(start time.Time) {
	if e.renderFrameLimit <= 0 {
		return
	}
	if remaining := e.renderFrameLimit - e.clock().Sub(start); remaining > 0 {
		time.Sleep(remaining)
	}
}

func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if cam := e.scene.Camera(); cam != nil {
		cam.SetAspect(float32(width) / float32(height))
	}
	if e.renderer != nil {
		e.renderer.Resize(width, height)
	}
	e.sink.Record("Window resized")
	e.logger.Debug("window resized", zap.Int("width", width), zap.Int("height", height))
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
