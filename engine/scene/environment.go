package scene

import (
	"math"

	"github.com/Carmen-Shannon/penguin-paradise/engine/light"
	"github.com/Carmen-Shannon/penguin-paradise/engine/loader"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// Sky and water colors as 0xRRGGBB.
const (
	SkyColor   uint32 = 0x87ceeb
	WaterColor uint32 = 0x0077be
)

// DefaultFogDensity is the exponential-squared fog density.
const DefaultFogDensity float32 = 0.005

// Fog is exponential-squared distance fog: factor = 1 - exp(-(density*distance)²).
type Fog struct {
	Color   [3]float32
	Density float32
}

// DefaultPlacements returns the three penguin placements around the ice platform.
func DefaultPlacements() []loader.Placement {
	return []loader.Placement{
		{X: -2, Y: 0, Z: 0, RotationY: math.Pi / 6},
		{X: 2, Y: 0, Z: 0, RotationY: -math.Pi / 6},
		{X: 0, Y: 0, Z: -2, RotationY: math.Pi},
	}
}

// DefaultLights returns the ambient, shadow-casting directional and hemisphere lights.
func DefaultLights() []light.Light {
	return []light.Light{
		light.NewLight(light.LightTypeAmbient,
			light.WithHexColor(0xffffff),
			light.WithIntensity(0.5),
		),
		light.NewLight(light.LightTypeDirectional,
			light.WithHexColor(0xffffff),
			light.WithIntensity(1.0),
			light.WithPosition(5, 10, 7.5),
			light.WithTarget(0, 0, 0),
			light.WithShadow(light.DefaultShadow()),
		),
		light.NewLight(light.LightTypeHemisphere,
			light.WithHexColor(0xffffff),
			light.WithGroundColor(0x444444),
			light.WithIntensity(0.6),
			light.WithPosition(0, 50, 0),
		),
	}
}

// NewIcePlatform returns the white cylinder the penguins stand on, top face at y = 0.
func NewIcePlatform() model.Node {
	mat := model.DefaultMaterial()
	mat.Name = "ice"
	mat.Roughness = 0.6
	return model.NewNode(
		model.WithName("ice"),
		model.WithMesh(model.NewCylinderMesh(8, 1, 32, mat)),
		model.WithPosition(0, -0.5, 0),
		model.WithShadows(false, true),
	)
}

// NewWater returns the translucent 100×100 water plane at y = -1.
func NewWater() model.Node {
	c := light.HexColor(WaterColor)
	mat := model.DefaultMaterial()
	mat.Name = "water"
	mat.BaseColor = [4]float32{c[0], c[1], c[2], 1}
	mat.Roughness = 0.2
	mat.Opacity = 0.8
	return model.NewNode(
		model.WithName("water"),
		model.WithMesh(model.NewPlaneMesh(100, 100, mat)),
		model.WithPosition(0, -1, 0),
	)
}

// DefaultEnvironment returns the ice platform and the water plane.
func DefaultEnvironment() []model.Node {
	return []model.Node{NewIcePlatform(), NewWater()}
}
