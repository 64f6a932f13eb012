package camera

// CameraController defines an orbit controller: the eye circles a target on a sphere
// described by radius, azimuth and elevation. Input accumulates pending rotation that
// Update applies with damping, so motion eases out over several frames.
type CameraController interface {
	// Position returns the current eye position.
	//
	// Returns:
	//   - x, y, z: the eye position
	Position() (x, y, z float32)

	// Target returns the point the eye orbits and looks at.
	//
	// Returns:
	//   - x, y, z: the target position
	Target() (x, y, z float32)

	// SetTarget moves the orbit center, keeping radius and angles.
	//
	// Parameters:
	//   - x, y, z: the new target
	SetTarget(x, y, z float32)

	// SetPosition places the eye and derives radius and angles from it, clamped to the bounds.
	//
	// Parameters:
	//   - x, y, z: the new eye position
	SetPosition(x, y, z float32)

	// Rotate queues an orbit from a pointer drag in pixels.
	//
	// Parameters:
	//   - dx: horizontal drag, positive to the right
	//   - dy: vertical drag, positive downward
	Rotate(dx, dy float32)

	// Zoom dollies toward (positive delta) or away from the target, clamped to the radius bounds.
	//
	// Parameters:
	//   - delta: scroll steps
	Zoom(delta float32)

	// OrbitLeft queues one keyboard orbit step to the left.
	OrbitLeft()

	// OrbitRight queues one keyboard orbit step to the right.
	OrbitRight()

	// OrbitUp queues one keyboard orbit step upward.
	OrbitUp()

	// OrbitDown queues one keyboard orbit step downward.
	OrbitDown()

	// PanRight moves eye and target along the camera's horizontal right axis.
	//
	// Parameters:
	//   - delta: world units, negative pans left
	PanRight(delta float32)

	// PanUp moves eye and target along the camera's up axis.
	//
	// Parameters:
	//   - delta: world units, negative pans down
	PanUp(delta float32)

	// Update applies a damped share of the pending rotation and recomputes the eye.
	// Call once per frame.
	//
	// Returns:
	//   - bool: true if the eye moved
	Update() bool

	// Radius returns the distance from eye to target.
	Radius() float32

	// Azimuth returns the horizontal angle around the Y axis in radians.
	Azimuth() float32

	// Elevation returns the angle above the horizontal plane in radians.
	Elevation() float32

	// MinRadius returns the closest allowed distance.
	MinRadius() float32

	// MaxRadius returns the farthest allowed distance.
	MaxRadius() float32

	// MinElevation returns the lowest allowed elevation.
	MinElevation() float32

	// MaxElevation returns the highest allowed elevation.
	MaxElevation() float32

	// DampingFactor returns the share of pending rotation applied per Update.
	DampingFactor() float32
}
