package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/penguin-paradise/common"
)

// cameraImpl is the implementation of the Camera interface.
type cameraImpl struct {
	mu *sync.Mutex

	up [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller CameraController
}

// Camera defines a perspective camera whose eye and target come from a CameraController.
type Camera interface {
	// Up returns the camera's up vector.
	//
	// Returns:
	//   - x, y, z: the up vector components
	Up() (x, y, z float32)

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: the field of view in radians
	Fov() float32

	// Aspect returns the viewport aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: the near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: the far plane distance
	Far() float32

	// Position returns the world-space eye position reported by the controller.
	//
	// Returns:
	//   - [3]float32: the eye position, or the origin without a controller
	Position() [3]float32

	// ViewMatrix returns the world-to-view matrix.
	//
	// Returns:
	//   - [16]float32: the view matrix in column-major order
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the perspective projection matrix.
	//
	// Returns:
	//   - [16]float32: the projection matrix in column-major order
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - [16]float32: the combined matrix in column-major order
	ViewProjectionMatrix() [16]float32

	// Controller returns the attached controller, or nil.
	//
	// Returns:
	//   - CameraController: the controller
	Controller() CameraController

	// Update recomputes the matrices from the controller's current eye and target.
	Update()

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - x, y, z: the up vector components
	SetUp(x, y, z float32)

	// SetFov sets the vertical field of view in radians.
	//
	// Parameters:
	//   - fov: the field of view in radians
	SetFov(fov float32)

	// SetAspect sets the viewport aspect ratio and recomputes the projection.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	//
	// Parameters:
	//   - near: the near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	//
	// Parameters:
	//   - far: the far plane distance
	SetFar(far float32)

	// SetController attaches a controller.
	//
	// Parameters:
	//   - ctrl: the controller
	SetController(ctrl CameraController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with a 75° vertical field of view, near 0.1 and far 1000,
// and any provided options applied.
//
// Parameters:
//   - options: variadic list of CameraBuilderOption functions
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     [3]float32{0, 1, 0},
		fov:    75.0 * (math.Pi / 180.0),
		aspect: 1.0,
		near:   0.1,
		far:    1000.0,
	}
	common.Identity(c.viewMatrix[:])
	common.Identity(c.projectionMatrix[:])
	common.Identity(c.viewProjectionMatrix[:])

	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Up() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up[0], c.up[1], c.up[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return [3]float32{}
	}
	x, y, z := c.controller.Position()
	return [3]float32{x, y, z}
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

// updateMatrices recomputes view, projection, and view-projection. Callers hold mu.
func (c *cameraImpl) updateMatrices() {
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)

	if c.controller != nil {
		px, py, pz := c.controller.Position()
		tx, ty, tz := c.controller.Target()
		common.LookAt(c.viewMatrix[:],
			px, py, pz,
			tx, ty, tz,
			c.up[0], c.up[1], c.up[2],
		)
	}

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
