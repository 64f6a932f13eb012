package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/penguin-paradise/common"
)

// dampingEpsilon is the pending rotation below which Update stops easing.
const dampingEpsilon = 1e-6

// cameraControllerImpl is the implementation of the CameraController interface.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	// pending rotation consumed by Update
	deltaAzimuth   float32
	deltaElevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	dampingFactor    float32
	orbitSpeed       float32
	mouseSensitivity float32
	zoomScale        float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller looking at the origin from (0, 3, 6)
// with damping 0.05, distance bounds [1, 15], and elevation limited to the upper
// hemisphere (polar angle at most π/2). Options are applied afterwards.
//
// Parameters:
//   - options: variadic list of CameraControllerOption functions
//
// Returns:
//   - CameraController: the new controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		minRadius:    1.0,
		maxRadius:    15.0,
		minElevation: 0.0,
		maxElevation: float32(math.Pi/2 - 1e-3),

		dampingFactor:    0.05,
		orbitSpeed:       0.03,
		mouseSensitivity: 0.005,
		zoomScale:        0.95,
	}
	cc.setPositionLocked(0, 3, 6)

	for _, option := range options {
		option(cc)
	}

	cc.clamp()
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the eye from the spherical state. Callers hold mu.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position[0] = cc.target[0] + cc.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*cosAzim
}

// setPositionLocked derives spherical state from an eye position. Callers hold mu.
func (cc *cameraControllerImpl) setPositionLocked(x, y, z float32) {
	dx, dy, dz := x-cc.target[0], y-cc.target[1], z-cc.target[2]
	cc.radius = float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
	if cc.radius < 1e-8 {
		cc.azimuth, cc.elevation = 0, 0
		return
	}
	cc.azimuth = float32(math.Atan2(float64(dx), float64(dz)))
	cc.elevation = float32(math.Asin(float64(dy / cc.radius)))
}

func (cc *cameraControllerImpl) clamp() {
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = common.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
}

// rightAxis returns the horizontal unit vector pointing to the camera's right.
func (cc *cameraControllerImpl) rightAxis() (rx, rz float32) {
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))
	return cosAzim, -sinAzim
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.setPositionLocked(x, y, z)
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = [3]float32{x, y, z}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaAzimuth -= dx * cc.mouseSensitivity
	cc.deltaElevation += dy * cc.mouseSensitivity
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius *= float32(math.Pow(float64(cc.zoomScale), float64(delta)))
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaAzimuth -= cc.orbitSpeed
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaAzimuth += cc.orbitSpeed
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaElevation += cc.orbitSpeed
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.deltaElevation -= cc.orbitSpeed
}

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	rx, rz := cc.rightAxis()
	cc.target[0] += rx * delta
	cc.target[2] += rz * delta
	cc.updatePosition()
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target[1] += delta
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if math.Abs(float64(cc.deltaAzimuth)) < dampingEpsilon && math.Abs(float64(cc.deltaElevation)) < dampingEpsilon {
		cc.deltaAzimuth, cc.deltaElevation = 0, 0
		return false
	}

	before := cc.position
	cc.azimuth += cc.deltaAzimuth * cc.dampingFactor
	cc.elevation += cc.deltaElevation * cc.dampingFactor
	cc.deltaAzimuth *= 1 - cc.dampingFactor
	cc.deltaElevation *= 1 - cc.dampingFactor

	cc.clamp()
	cc.updatePosition()
	return cc.position != before
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *cameraControllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingFactor
}
