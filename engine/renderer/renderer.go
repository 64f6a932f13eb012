package renderer

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Carmen-Shannon/penguin-paradise/common"
	"github.com/Carmen-Shannon/penguin-paradise/engine/camera"
	"github.com/Carmen-Shannon/penguin-paradise/engine/light"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
	"github.com/Carmen-Shannon/penguin-paradise/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/penguin-paradise/engine/scene"
	"github.com/Carmen-Shannon/penguin-paradise/engine/window"
)

const (
	// PipelineLit draws opaque meshes with depth writes.
	PipelineLit = "lit"

	// PipelineLitBlend draws translucent meshes back to front with alpha blending and no depth writes.
	PipelineLitBlend = "lit-blend"

	// PipelineShadow renders shadow casters' depth from the directional light.
	PipelineShadow = "shadow"
)

// ErrNoCamera is returned by Render when the scene has no camera.
var ErrNoCamera = errors.New("scene has no camera")

// FrameStats summarizes the last rendered frame.
type FrameStats struct {
	Opaque      int
	Translucent int
	Culled      int

	// ShadowCasters is the number of meshes drawn into the shadow map.
	ShadowCasters int

	// Meshes is the number of distinct meshes resident on the GPU.
	Meshes int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      *zap.Logger

	opaque      pipeline.Pipeline
	translucent pipeline.Pipeline
	shadow      pipeline.Pipeline

	meshes     map[*model.Mesh]*gpuMesh
	badMeshes  map[*model.Mesh]struct{}
	objects    map[model.Node]*gpuUniform
	frame      *gpuUniform
	shadowPass *gpuUniform
	clearColor [3]float32
	stats      FrameStats

	// shadowSize is the current shadow map resolution; badShadowSize a size that failed.
	shadowSize    int
	badShadowSize int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer draws a scene.Scene to a window surface.
//
// Every frame the shadow casters inside the directional light's frustum are drawn into the
// shadow map. The scene's visible mesh nodes are then frustum culled, split into opaque and
// translucent draws and submitted in a single render pass that samples that map for
// receivers. Mesh geometry is uploaded once and shared by every node that references it.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode. Takes effect at the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Render draws one frame of s and presents it.
	//
	// Parameters:
	//   - s: the scene to draw
	//
	// Returns:
	//   - FrameStats: counts for the drawn frame
	//   - error: ErrNoCamera, or an error acquiring the surface texture
	Render(s scene.Scene) (FrameStats, error)

	// Stats returns the counts from the last successful Render.
	Stats() FrameStats

	// Release frees all GPU resources.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer drawing to the given window's surface.
// Panics if no GPU adapter or device can be acquired.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if the lit shader layout is inconsistent or its pipelines cannot be compiled
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(options...)

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	lit, err := reflectLitShader(litShaderSource)
	if err != nil {
		return nil, err
	}
	shadow, err := reflectShadowShader(shadowShaderSource)
	if err != nil {
		return nil, err
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backendType = BackendTypeWGPU
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, lit, shadow)
	}

	if err := r.init(window.Width(), window.Height()); err != nil {
		r.backend.Release()
		return nil, err
	}
	return r, nil
}

// newRenderer applies options. The caller sets backend and calls init.
func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:        &sync.Mutex{},
		logger:    zap.NewNop(),
		meshes:    make(map[*model.Mesh]*gpuMesh),
		badMeshes: make(map[*model.Mesh]struct{}),
		objects:   make(map[model.Node]*gpuUniform),
		opaque:    pipeline.NewPipeline(PipelineLit, litShaderSource),
		translucent: pipeline.NewPipeline(PipelineLitBlend, litShaderSource,
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
		),
		shadow: pipeline.NewPipeline(PipelineShadow, shadowShaderSource,
			pipeline.WithEntryPoints("vs_shadow", ""),
			pipeline.WithDepthBias(2, 1.5),
		),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) init(width, height int) error {
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(width, height)

	for _, p := range []pipeline.Pipeline{r.opaque, r.translucent} {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
	}

	if err := r.backend.RegisterShadowPipeline(r.shadow); err != nil {
		return err
	}
	if err := r.configureShadowMap(light.ShadowMapResolution); err != nil {
		return err
	}
	u, err := r.backend.CreateUniform("Shadow Pass", uniformShadowPass, shadowPassSize)
	if err != nil {
		return err
	}
	r.shadowPass = u
	r.logger.Info("renderer ready", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// configureShadowMap sizes the shadow map and rebuilds the frame uniform bound to it.
func (r *renderer) configureShadowMap(size int) error {
	if err := r.backend.ConfigureShadowMap(size); err != nil {
		return fmt.Errorf("shadow map: %w", err)
	}
	var frame GPUFrameUniform
	u, err := r.backend.CreateUniform("Frame", uniformFrame, uint64(frame.Size()))
	if err != nil {
		return err
	}
	if r.frame != nil {
		r.frame.release()
	}
	r.frame = u
	r.shadowSize = size
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Render(s scene.Scene) (FrameStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cam := s.Camera()
	if cam == nil {
		return FrameStats{}, ErrNoCamera
	}

	if bg := s.Background(); bg != r.clearColor {
		r.clearColor = bg
		r.backend.SetClearColor(float64(bg[0]), float64(bg[1]), float64(bg[2]))
	}

	viewProj := cam.ViewProjectionMatrix()
	frustum := common.ExtractFrustumFromMatrix(viewProj[:])
	list := BuildDrawList(s.Nodes(), cam.Position(), &frustum)

	lights := s.Lights()
	caster := r.shadowCaster(lights)
	var center [3]float32
	if ctrl := cam.Controller(); ctrl != nil {
		center[0], center[1], center[2] = ctrl.Target()
	}
	shadow := light.NewGPUShadow(caster, center)

	fog := s.Fog()
	frame := GPUFrameUniform{
		Camera: camera.NewGPUCameraUniform(cam),
		Lights: light.Pack(lights),
		Fog:    [4]float32{fog.Color[0], fog.Color[1], fog.Color[2], fog.Density},
		Shadow: shadow,
	}
	r.backend.WriteUniform(r.frame, frame.Marshal())

	written := make(map[model.Node]struct{})
	casters := 0
	if caster != nil {
		lightFrustum := common.ExtractFrustumFromMatrix(shadow.LightVP[:])
		draws := r.prepare(BuildShadowCasters(s.Nodes(), &lightFrustum), written)
		r.backend.WriteUniform(r.shadowPass, appendFloats(make([]byte, 0, shadowPassSize), shadow.LightVP[:]))
		casters = r.renderShadows(draws)
	}

	opaque := r.prepare(list.Opaque, written)
	translucent := r.prepare(list.Translucent, written)

	if err := r.backend.BeginFrame(); err != nil {
		return FrameStats{}, fmt.Errorf("begin frame: %w", err)
	}
	for _, d := range opaque {
		r.backend.Draw(r.opaque, d.mesh, r.frame, d.object)
	}
	for _, d := range translucent {
		r.backend.Draw(r.translucent, d.mesh, r.frame, d.object)
	}
	r.backend.EndFrame()
	r.backend.Present()

	r.stats = FrameStats{
		Opaque:        len(opaque),
		Translucent:   len(translucent),
		Culled:        list.Culled,
		Meshes:        len(r.meshes),
		ShadowCasters: casters,
	}
	return r.stats, nil
}

// shadowCaster picks the light to render shadows for and resizes the shadow map to its
// MapSize. It returns nil when no light casts or the map cannot be sized.
func (r *renderer) shadowCaster(lights []light.Light) light.Light {
	caster := light.ShadowCaster(lights)
	if caster == nil {
		return nil
	}
	size := caster.Shadow().MapSize
	if size <= 0 || size == r.shadowSize {
		return caster
	}
	if size == r.badShadowSize {
		return nil
	}
	if err := r.configureShadowMap(size); err != nil {
		r.badShadowSize = size
		r.logger.Error("shadow map", zap.Int("size", size), zap.Error(err))
		return nil
	}
	return caster
}

// renderShadows clears the shadow map and draws casters into it. The pass runs with no
// casters too so that stale depth is cleared.
func (r *renderer) renderShadows(casters []preparedDraw) int {
	if err := r.backend.BeginShadowPass(); err != nil {
		r.logger.Error("shadow pass", zap.Error(err))
		return 0
	}
	for _, d := range casters {
		r.backend.ShadowDraw(r.shadow, d.mesh, r.shadowPass, d.object)
	}
	r.backend.EndShadowPass()
	return len(casters)
}

type preparedDraw struct {
	mesh   *gpuMesh
	object *gpuUniform
}

// prepare uploads any new meshes and writes each item's object uniform once per frame.
// Items whose mesh or uniform cannot be created are dropped.
func (r *renderer) prepare(items []DrawItem, written map[model.Node]struct{}) []preparedDraw {
	out := make([]preparedDraw, 0, len(items))
	for _, item := range items {
		mesh, ok := r.mesh(item.Mesh)
		if !ok {
			continue
		}
		object, ok := r.objects[item.Node]
		if !ok {
			var size GPUObjectUniform
			u, err := r.backend.CreateUniform(item.Node.Name(), uniformObject, uint64(size.Size()))
			if err != nil {
				r.logger.Error("object uniform", zap.String("node", item.Node.Name()), zap.Error(err))
				continue
			}
			r.objects[item.Node] = u
			object = u
		}
		if _, ok := written[item.Node]; !ok {
			uniform := NewGPUObjectUniform(item.World, item.Mesh.Material, item.Node.ReceiveShadow())
			r.backend.WriteUniform(object, uniform.Marshal())
			written[item.Node] = struct{}{}
		}
		out = append(out, preparedDraw{mesh: mesh, object: object})
	}
	return out
}

func (r *renderer) mesh(m *model.Mesh) (*gpuMesh, bool) {
	if g, ok := r.meshes[m]; ok {
		return g, true
	}
	if _, bad := r.badMeshes[m]; bad {
		return nil, false
	}
	g, err := r.backend.UploadMesh(m)
	if err != nil {
		r.badMeshes[m] = struct{}{}
		r.logger.Error("mesh upload", zap.String("mesh", m.Name), zap.Error(err))
		return nil, false
	}
	r.meshes[m] = g
	return g, true
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range r.meshes {
		g.release()
	}
	for _, u := range r.objects {
		u.release()
	}
	if r.frame != nil {
		r.frame.release()
	}
	if r.shadowPass != nil {
		r.shadowPass.release()
	}
	clear(r.meshes)
	clear(r.objects)
	r.backend.Release()
}
