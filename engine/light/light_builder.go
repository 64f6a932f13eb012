package light

import "math"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithTarget is an option builder that sets the point a directional light aims at.
//
// Parameters:
//   - x, y, z: the target point
//
// Returns:
//   - LightBuilderOption: a function that applies the target option to a lightImpl
func WithTarget(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = [3]float32{x, y, z}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r, g, b: color components in [0, 1]
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithHexColor sets the color from a 0xRRGGBB value.
func WithHexColor(hex uint32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = HexColor(hex)
	}
}

// WithGroundColor sets a hemisphere light's ground color from a 0xRRGGBB value.
func WithGroundColor(hex uint32) LightBuilderOption {
	return func(l *lightImpl) {
		l.groundColor = HexColor(hex)
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithEnabled is an option builder that sets whether the light is active.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithShadow is an option builder that makes the light cast shadows.
//
// Parameters:
//   - s: shadow map settings
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow option to a lightImpl
func WithShadow(s Shadow) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadow = &s
	}
}

// HexColor converts 0xRRGGBB into linear-agnostic [0, 1] RGB components.
func HexColor(hex uint32) [3]float32 {
	return [3]float32{
		float32((hex>>16)&0xFF) / 255,
		float32((hex>>8)&0xFF) / 255,
		float32(hex&0xFF) / 255,
	}
}

func normalize3(x, y, z float32) [3]float32 {
	l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if l < 1e-8 {
		return [3]float32{0, -1, 0}
	}
	return [3]float32{x / l, y / l, z / l}
}
