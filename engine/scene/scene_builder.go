package scene

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/penguin-paradise/engine/camera"
	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
	"github.com/Carmen-Shannon/penguin-paradise/engine/light"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLogger sets the structured logger.
//
// Parameters:
//   - logger: the zap logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger.Named("scene")
		}
	}
}

// WithSink sets the diagnostic sink that receives start and success messages.
//
// Parameters:
//   - sink: the diagnostic sink
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSink(sink diagnostics.Sink) SceneBuilderOption {
	return func(s *scene) {
		s.sink = sink
	}
}

// WithCamera sets the scene's camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithBackground sets the clear color from a 0xRRGGBB value. Fog color follows it.
//
// Parameters:
//   - hex: the color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(hex uint32) SceneBuilderOption {
	return func(s *scene) {
		s.background = light.HexColor(hex)
		s.fog.Color = s.background
	}
}

// WithFogDensity sets the exp² fog density. Zero disables fog.
//
// Parameters:
//   - density: the fog density
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFogDensity(density float32) SceneBuilderOption {
	return func(s *scene) {
		s.fog.Density = max(density, 0)
	}
}

// WithLights adds lights to the scene.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = append(s.lights, lights...)
	}
}

// WithEnvironment adds static nodes to the scene.
//
// Parameters:
//   - nodes: the nodes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEnvironment(nodes ...model.Node) SceneBuilderOption {
	return func(s *scene) {
		s.environment = append(s.environment, nodes...)
	}
}

// WithEntityCount sets the number of animated object slots.
//
// Parameters:
//   - n: the slot count, minimum 1
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEntityCount(n int) SceneBuilderOption {
	return func(s *scene) {
		if n >= 1 {
			s.entityCount = n
		}
	}
}

// WithRand sets the random source for object periods and phases.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRand(rng *rand.Rand) SceneBuilderOption {
	return func(s *scene) {
		s.rng = rng
	}
}
