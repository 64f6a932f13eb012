package scene

import (
	"context"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/penguin-paradise/engine/camera"
	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
	"github.com/Carmen-Shannon/penguin-paradise/engine/game_object"
	"github.com/Carmen-Shannon/penguin-paradise/engine/light"
	"github.com/Carmen-Shannon/penguin-paradise/engine/loader"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// DefaultEntityCount is the number of penguin slots.
const DefaultEntityCount = 3

// Scene owns everything drawn each frame: the static environment, the lights,
// the animated objects registry, and the camera. It also turns loader results
// into registered objects.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the camera, or nil if unset
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Background returns the clear color.
	Background() [3]float32

	// Fog returns the distance fog settings.
	Fog() Fog

	// Lights returns a snapshot of the scene's lights.
	//
	// Returns:
	//   - []light.Light: the lights in insertion order
	Lights() []light.Light

	// AddLight adds a light to the scene.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// Environment returns a snapshot of the static, non-animated nodes.
	Environment() []model.Node

	// AddEnvironment adds static nodes.
	//
	// Parameters:
	//   - nodes: the nodes to add
	AddEnvironment(nodes ...model.Node)

	// Registry returns the animated objects registry.
	Registry() Registry

	// Nodes returns every root node to draw: the environment followed by the models
	// of enabled registered objects.
	//
	// Returns:
	//   - []model.Node: the roots to render this frame
	Nodes() []model.Node

	// Request issues one load per placement, up to the entity count, and records a
	// start diagnostic per slot. Results must be passed to HandleResult.
	//
	// Parameters:
	//   - ctx: passed to every load
	//   - l: the loader to issue requests on
	//   - source: the primary model source
	//   - placements: one placement per slot
	//
	// Returns:
	//   - int: the number of loads issued
	Request(ctx context.Context, l loader.Loader, source string, placements []loader.Placement) int

	// HandleResult settles a requested slot. A successful result becomes a registered
	// object with a random period and phase; a failure only settles the slot.
	//
	// Parameters:
	//   - res: the loader result
	//
	// Returns:
	//   - game_object.GameObject: the registered object, or nil
	//   - bool: true if an object was registered
	HandleResult(res loader.Result) (game_object.GameObject, bool)

	// Pending returns the number of requested slots that have not settled.
	Pending() int

	// Requested returns the number of loads issued so far.
	Requested() int
}

type scene struct {
	mu sync.Mutex

	name   string
	logger *zap.Logger
	sink   diagnostics.Sink
	rng    *rand.Rand

	cam        camera.Camera
	background [3]float32
	fog        Fog

	lights      []light.Light
	environment []model.Node

	entityCount int
	registry    Registry

	requested int
	pending   map[int]struct{}
}

var _ Scene = &scene{}

// NewScene creates a Scene with the sky background, exp² fog, and an empty registry
// sized to the entity count. Lights and environment are empty unless provided.
//
// Parameters:
//   - name: the scene name
//   - options: variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		name:        name,
		logger:      zap.NewNop(),
		background:  light.HexColor(SkyColor),
		fog:         Fog{Color: light.HexColor(SkyColor), Density: DefaultFogDensity},
		entityCount: DefaultEntityCount,
		pending:     make(map[int]struct{}),
	}
	for _, option := range options {
		option(s)
	}
	if s.sink == nil {
		s.sink = diagnostics.NewSink(diagnostics.WithLogger(s.logger))
	}
	s.sink.Record("Setting up the scene...")
	if s.cam != nil {
		s.sink.Record("Setting up camera")
		if s.cam.Controller() != nil {
			s.sink.Record("Setting up controls")
		}
	}
	if len(s.lights) > 0 {
		s.sink.Record("Setting up lighting")
	}
	if len(s.environment) > 0 {
		s.sink.Record("Creating environment")
	}
	s.registry = NewRegistry(s.entityCount)
	s.sink.Record("Scene setup complete")
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Background() [3]float32 {
	return s.background
}

func (s *scene) Fog() Fog {
	return s.fog
}

func (s *scene) Lights() []light.Light {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]light.Light(nil), s.lights...)
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) Environment() []model.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Node(nil), s.environment...)
}

func (s *scene) AddEnvironment(nodes ...model.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range nodes {
		if n != nil {
			s.environment = append(s.environment, n)
		}
	}
}

func (s *scene) Registry() Registry {
	return s.registry
}

func (s *scene) Nodes() []model.Node {
	nodes := s.Environment()
	s.registry.ForEach(func(obj game_object.GameObject) {
		if obj.Enabled() && obj.Model() != nil {
			nodes = append(nodes, obj.Model())
		}
	})
	return nodes
}

func (s *scene) Request(ctx context.Context, l loader.Loader, source string, placements []loader.Placement) int {
	issued := 0
	for slot, p := range placements {
		if slot >= s.entityCount {
			break
		}
		s.mu.Lock()
		if _, inFlight := s.pending[slot]; inFlight || s.registry.HasSlot(slot) {
			s.mu.Unlock()
			continue
		}
		s.pending[slot] = struct{}{}
		s.requested++
		s.mu.Unlock()

		s.sink.Recordf("Starting load of penguin %d from %s", slot+1, source)
		l.Load(ctx, loader.LoadRequest{Source: source, Placement: p, Slot: slot})
		issued++
	}
	return issued
}

func (s *scene) HandleResult(res loader.Result) (game_object.GameObject, bool) {
	slot := res.Request.Slot

	s.mu.Lock()
	delete(s.pending, slot)
	rng := s.rng
	s.mu.Unlock()

	if !res.OK() {
		s.logger.Warn("slot failed", zap.Int("slot", slot), zap.Error(res.Err))
		return nil, false
	}

	obj := game_object.NewGameObject(res.Model,
		game_object.WithSlot(slot),
		game_object.WithBaseY(res.Request.Placement.Y),
		game_object.WithRandomMotion(rng),
	)
	if !s.registry.Register(obj) {
		s.logger.Warn("slot already filled", zap.Int("slot", slot), zap.String("source", res.Source))
		return nil, false
	}
	s.sink.Recordf("Penguin %d loaded successfully!", slot+1)
	s.logger.Info("object registered",
		zap.Int("slot", slot),
		zap.String("source", res.Source),
		zap.Bool("fallback", res.Fallback),
		zap.Float32("period", obj.Period()),
		zap.Float32("phase", obj.Phase()),
	)
	return obj, true
}

func (s *scene) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *scene) Requested() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requested
}
