package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/penguin-paradise/common"
)

// ShadowMapResolution is the default width and height in texels of the shadow
// depth texture.
const ShadowMapResolution = 2048

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units)
// of the directional light's shadow frustum.
const DefaultShadowHalfExtent float32 = 15.0

// DefaultShadowNear is the default near plane for the directional light's
// orthographic shadow projection.
const DefaultShadowNear float32 = 0.5

// DefaultShadowFar is the default far plane for the directional light's
// orthographic shadow projection.
const DefaultShadowFar float32 = 50.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBiasScale multiplies the world size of one shadow texel to give
// the distance a receiver is pushed along its normal before the lookup.
const DefaultShadowNormalBiasScale float32 = 3.0

// Shadow describes the shadow map a light renders.
type Shadow struct {
	// MapSize is the shadow texture width and height in texels.
	MapSize int

	// HalfExtent bounds the orthographic projection: left/bottom = -HalfExtent, right/top = +HalfExtent.
	HalfExtent float32

	Near, Far float32
}

// DefaultShadow returns a 2048² map covering ±15 world units.
func DefaultShadow() Shadow {
	return Shadow{
		MapSize:    ShadowMapResolution,
		HalfExtent: DefaultShadowHalfExtent,
		Near:       DefaultShadowNear,
		Far:        DefaultShadowFar,
	}
}

// ShadowCaster returns the first enabled directional light with shadow settings, or nil.
func ShadowCaster(lights []Light) Light {
	for _, l := range lights {
		if l != nil && l.Enabled() && l.Type() == LightTypeDirectional && l.Shadow() != nil {
			return l
		}
	}
	return nil
}

// GPUShadowSource is the WGSL definition matching GPUShadow.
const GPUShadowSource = `struct Shadow {
    lightViewProj: mat4x4<f32>,
    params: vec4<f32>,
};`

// GPUShadow is the directional shadow data the lit shader samples with.
// Size: 80 bytes.
type GPUShadow struct {
	LightVP [16]float32 // offset  0: orthographic view-projection from the light
	Params  [4]float32  // offset 64: texel size, depth bias, normal bias, enabled (0 or 1)
}

// NewGPUShadow builds the shadow data for l centered on center. A nil light, or one
// without shadow settings, gives a disabled value with an identity LightVP.
//
// Parameters:
//   - l: the shadow-casting directional light
//   - center: world-space point the shadow frustum is centered on
//
// Returns:
//   - GPUShadow: the packed shadow data
func NewGPUShadow(l Light, center [3]float32) GPUShadow {
	var s GPUShadow
	if l == nil || l.Shadow() == nil {
		common.Identity(s.LightVP[:])
		return s
	}
	cfg := *l.Shadow()
	if cfg.MapSize <= 0 {
		cfg.MapSize = ShadowMapResolution
	}
	s.ComputeDirectionalLightVP(l.Direction(), center, cfg.HalfExtent, cfg.Near, cfg.Far)

	texel := 2 * cfg.HalfExtent / float32(cfg.MapSize)
	s.Params = [4]float32{
		1 / float32(cfg.MapSize),
		DefaultShadowBias,
		texel * DefaultShadowNormalBiasScale,
		1,
	}
	return s
}

// ComputeDirectionalLightVP stores an orthographic view-projection looking along dir
// at center. The eye sits halfway to the far plane behind center.
//
// Parameters:
//   - dir: normalized direction the light travels
//   - center: world-space center of the shadow frustum
//   - halfExtent: half-size of the orthographic frustum in world units
//   - near, far: clip planes along the light direction
func (s *GPUShadow) ComputeDirectionalLightVP(dir, center [3]float32, halfExtent, near, far float32) {
	eye := [3]float32{
		center[0] - dir[0]*far*0.5,
		center[1] - dir[1]*far*0.5,
		center[2] - dir[2]*far*0.5,
	}

	// straight-down lights need another up vector
	up := [3]float32{0, 1, 0}
	if dir[1] > 0.99 || dir[1] < -0.99 {
		up = [3]float32{1, 0, 0}
	}

	var view, proj [16]float32
	common.LookAt(view[:], eye[0], eye[1], eye[2], center[0], center[1], center[2], up[0], up[1], up[2])
	common.Orthographic(proj[:], -halfExtent, halfExtent, -halfExtent, halfExtent, near, far)
	common.Mul4(s.LightVP[:], proj[:], view[:])
}

// Size returns the size of the GPUShadow struct in bytes.
func (s *GPUShadow) Size() int {
	return int(unsafe.Sizeof(*s))
}

// Marshal serializes the shadow data for upload.
//
// Returns:
//   - []byte: 80-byte buffer
func (s *GPUShadow) Marshal() []byte {
	buf := make([]byte, 0, 80)
	for _, f := range s.LightVP {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for _, f := range s.Params {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}
