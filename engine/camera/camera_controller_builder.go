package camera

import "math"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition places the eye; radius and angles are derived from it relative to the target.
// Apply after WithTarget when both are given.
//
// Parameters:
//   - x, y, z: the eye position
//
// Returns:
//   - CameraControllerOption: functional option to set the eye position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.setPositionLocked(x, y, z)
	}
}

// WithTarget sets the orbit center, keeping the current eye position.
//
// Parameters:
//   - x, y, z: the target position
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.updatePosition()
		eye := cc.position
		cc.target = [3]float32{x, y, z}
		cc.setPositionLocked(eye[0], eye[1], eye[2])
	}
}

// WithRadiusBounds sets the minimum and maximum orbit distance.
//
// Parameters:
//   - min: the closest allowed distance
//   - max: the farthest allowed distance
//
// Returns:
//   - CameraControllerOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithMaxPolarAngle limits how far the eye may swing down from straight above.
// π/2 keeps the eye at or above the target's horizon.
//
// Parameters:
//   - polar: maximum angle from +Y in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the polar limit
func WithMaxPolarAngle(polar float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = float32(math.Pi/2) - polar
	}
}

// WithDampingFactor sets the share of pending rotation applied per Update.
//
// Parameters:
//   - factor: in (0, 1]; 1 disables easing
//
// Returns:
//   - CameraControllerOption: functional option to set damping
func WithDampingFactor(factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if factor > 0 && factor <= 1 {
			cc.dampingFactor = factor
		}
	}
}

// WithOrbitSpeed sets the rotation queued by one keyboard orbit step.
//
// Parameters:
//   - speed: radians per step
//
// Returns:
//   - CameraControllerOption: functional option to set orbit speed
func WithOrbitSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSpeed = speed
	}
}

// WithMouseSensitivity sets the rotation queued per dragged pixel.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - CameraControllerOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}
