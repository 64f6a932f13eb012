package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/penguin-paradise/common"
	"github.com/Carmen-Shannon/penguin-paradise/engine/camera"
	"github.com/Carmen-Shannon/penguin-paradise/engine/light"
	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// shadowPassSize is the group 0 uniform of the depth-only pass: the light view-projection.
const shadowPassSize = 64

// GPUFrameUniform is bound at group 0 and shared by every draw in a frame.
// Matches the WGSL Frame struct. Size: 272 bytes.
type GPUFrameUniform struct {
	Camera camera.GPUCameraUniform // offset   0
	Lights light.GPULights         // offset  80
	Fog    [4]float32              // offset 176: rgb, density
	Shadow light.GPUShadow         // offset 192
}

// Size returns the size of the GPUFrameUniform struct in bytes.
func (g *GPUFrameUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the frame uniform for upload.
//
// Returns:
//   - []byte: 272-byte buffer
func (g *GPUFrameUniform) Marshal() []byte {
	buf := make([]byte, 0, g.Size())
	buf = append(buf, g.Camera.Marshal()...)
	buf = append(buf, g.Lights.Marshal()...)
	buf = appendFloats(buf, g.Fog[:])
	return append(buf, g.Shadow.Marshal()...)
}

// GPUObjectUniform is bound at group 1 and holds one mesh node's transform and material.
// Matches the WGSL Object struct. Size: 160 bytes.
type GPUObjectUniform struct {
	Model     [16]float32 // offset   0: world matrix
	Normal    [16]float32 // offset  64: inverse-transpose of Model
	BaseColor [4]float32  // offset 128: rgba, alpha already multiplied by opacity
	Params    [4]float32  // offset 144: metallic, roughness, receiveShadow, unused
}

// NewGPUObjectUniform builds the uniform for a mesh node drawn with the given world matrix.
//
// Parameters:
//   - world: the node's world matrix
//   - mat: the mesh material
//   - receiveShadow: the node's shadow receiver flag
//
// Returns:
//   - GPUObjectUniform: the uniform value
func NewGPUObjectUniform(world [16]float32, mat model.Material, receiveShadow bool) GPUObjectUniform {
	u := GPUObjectUniform{Model: world}

	var inv [16]float32
	if common.Invert4(inv[:], world[:]) {
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				u.Normal[c*4+r] = inv[r*4+c]
			}
		}
	} else {
		common.Identity(u.Normal[:])
	}

	opacity := mat.Opacity
	if opacity == 0 {
		opacity = 1
	}
	u.BaseColor = mat.BaseColor
	u.BaseColor[3] *= opacity

	u.Params[0] = mat.Metallic
	u.Params[1] = mat.Roughness
	if receiveShadow {
		u.Params[2] = 1
	}
	return u
}

// Size returns the size of the GPUObjectUniform struct in bytes.
func (g *GPUObjectUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the object uniform for upload.
//
// Returns:
//   - []byte: 160-byte buffer
func (g *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, 0, g.Size())
	buf = appendFloats(buf, g.Model[:])
	buf = appendFloats(buf, g.Normal[:])
	buf = appendFloats(buf, g.BaseColor[:])
	return appendFloats(buf, g.Params[:])
}

func appendFloats(buf []byte, fs []float32) []byte {
	for _, f := range fs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}
