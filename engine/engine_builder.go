package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/penguin-paradise/engine/animation"
	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
	"github.com/Carmen-Shannon/penguin-paradise/engine/loader"
	"github.com/Carmen-Shannon/penguin-paradise/engine/renderer"
	"github.com/Carmen-Shannon/penguin-paradise/engine/scene"
	"github.com/Carmen-Shannon/penguin-paradise/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithLogger sets the structured logger shared with the default scene, loader and sink.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSink sets the diagnostic sink.
func WithSink(sink diagnostics.Sink) EngineBuilderOption {
	return func(e *engine) {
		e.sink = sink
	}
}

// WithWindow sets the window the engine polls, titles and binds input to.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithTitlePanel sets the panel that mirrors diagnostics and loading progress into the window title.
func WithTitlePanel(p *window.TitlePanel) EngineBuilderOption {
	return func(e *engine) {
		e.panel = p
	}
}

// WithRenderer sets the renderer that draws the scene each frame. Without one, frames skip drawing.
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithScene sets the scene to load into, animate and draw.
//
// Parameters:
//   - s: the Scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithLoader sets the asset loader.
func WithLoader(l loader.Loader) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
	}
}

// WithAnimator replaces the animator built over the scene registry.
func WithAnimator(a animation.Animator) EngineBuilderOption {
	return func(e *engine) {
		e.animator = a
	}
}

// WithModel sets the model source requested for every placement.
//
// Parameters:
//   - source: the model URL or asset-root-relative path
//   - placements: one placement per entity slot; nil keeps the defaults
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithModel(source string, placements []loader.Placement) EngineBuilderOption {
	return func(e *engine) {
		e.modelSource = source
		if placements != nil {
			e.placements = placements
		}
	}
}

// WithClock replaces time.Now for frame timing and animation.
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.clock = now
		}
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
