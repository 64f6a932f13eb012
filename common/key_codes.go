package common

// Key codes delivered by the window's key callbacks.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // W key (ASCII)
	KeyA     = 65  // A key (ASCII)
	KeyS     = 83  // S key (ASCII)
	KeyD     = 68  // D key (ASCII)
	KeyR     = 82  // R key (ASCII)
	KeyMinus = 45  // - key (ASCII)
	KeyEqual = 61  // = key (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)
)

// Arrow keys
const (
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265
)
