package light

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every fragment uniformly with no direction.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a light with no position, only direction.
	// Its direction points from the light's position toward its target.
	LightTypeDirectional

	// LightTypeHemisphere blends a sky color and a ground color by how far a
	// surface normal points up toward the light's position.
	LightTypeHemisphere
)

// String returns the lower-case light type name.
func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	case LightTypeHemisphere:
		return "hemisphere"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType   LightType
	position    [3]float32
	target      [3]float32
	color       [3]float32
	groundColor [3]float32
	intensity   float32
	enabled     bool
	shadow      *Shadow
}

// Light defines the interface for a light source in the scene.
//
// Lights are scene-level entities packed into the renderer's light uniform each
// frame via Pack. Type-specific properties (e.g. ground color for hemisphere
// lights) return zero values when not applicable.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for ambient lights.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Direction returns the normalized direction light travels, from position to target.
	// Hemisphere lights return the normalized "up" direction toward their position.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light (sky color for hemisphere lights).
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// GroundColor returns the ground color of a hemisphere light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	GroundColor() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light contributes to rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// Shadow returns the shadow settings, or nil when the light casts no shadows.
	//
	// Returns:
	//   - *Shadow: shadow configuration or nil
	Shadow() *Shadow

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetTarget sets the point a directional light aims at.
	//
	// Parameters:
	//   - x, y, z: target components
	SetTarget(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type: white, intensity 1, enabled,
// positioned at the origin and aimed at the origin, with any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		color:     [3]float32{1, 1, 1},
		intensity: 1.0,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType         { return l.lightType }
func (l *lightImpl) Position() [3]float32    { return l.position }
func (l *lightImpl) Color() [3]float32       { return l.color }
func (l *lightImpl) GroundColor() [3]float32 { return l.groundColor }
func (l *lightImpl) Intensity() float32      { return l.intensity }
func (l *lightImpl) Enabled() bool           { return l.enabled }
func (l *lightImpl) Shadow() *Shadow         { return l.shadow }

func (l *lightImpl) Direction() [3]float32 {
	if l.lightType == LightTypeHemisphere {
		return normalize3(l.position[0], l.position[1], l.position[2])
	}
	return normalize3(
		l.target[0]-l.position[0],
		l.target[1]-l.position[1],
		l.target[2]-l.position[2],
	)
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetTarget(x, y, z float32) {
	l.target = [3]float32{x, y, z}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
