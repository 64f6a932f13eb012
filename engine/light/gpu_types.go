package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULightsSource is the WGSL definition matching GPULights.
const GPULightsSource = `struct Lights {
    ambient: vec4<f32>,
    dirDirection: vec4<f32>,
    dirColor: vec4<f32>,
    hemiSky: vec4<f32>,
    hemiGround: vec4<f32>,
    hemiUp: vec4<f32>,
};`

// GPULights is the GPU-aligned uniform holding every light the lit pipeline evaluates.
// Colors are premultiplied by intensity. Size: 96 bytes (six vec4s).
type GPULights struct {
	Ambient      [4]float32 // offset  0: summed ambient rgb
	DirDirection [4]float32 // offset 16: direction light travels (xyz)
	DirColor     [4]float32 // offset 32: directional rgb
	HemiSky      [4]float32 // offset 48: hemisphere sky rgb
	HemiGround   [4]float32 // offset 64: hemisphere ground rgb
	HemiUp       [4]float32 // offset 80: hemisphere up direction (xyz)
}

// Size returns the size of the GPULights struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPULights) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULights struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (g *GPULights) Marshal() []byte {
	buf := make([]byte, 0, 96)
	for _, v := range [...][4]float32{g.Ambient, g.DirDirection, g.DirColor, g.HemiSky, g.HemiGround, g.HemiUp} {
		for _, f := range v {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	return buf
}

// Pack folds a light list into the uniform layout. Ambient lights add up; the first
// enabled directional and hemisphere lights win. Disabled lights are skipped.
//
// Parameters:
//   - lights: the scene's lights
//
// Returns:
//   - GPULights: the packed uniform
func Pack(lights []Light) GPULights {
	var g GPULights
	g.DirDirection = [4]float32{0, -1, 0, 0}
	g.HemiUp = [4]float32{0, 1, 0, 0}
	haveDir, haveHemi := false, false

	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		c, k := l.Color(), l.Intensity()
		switch l.Type() {
		case LightTypeAmbient:
			g.Ambient[0] += c[0] * k
			g.Ambient[1] += c[1] * k
			g.Ambient[2] += c[2] * k
		case LightTypeDirectional:
			if haveDir {
				continue
			}
			haveDir = true
			d := l.Direction()
			g.DirDirection = [4]float32{d[0], d[1], d[2], 0}
			g.DirColor = [4]float32{c[0] * k, c[1] * k, c[2] * k, 0}
		case LightTypeHemisphere:
			if haveHemi {
				continue
			}
			haveHemi = true
			gc, up := l.GroundColor(), l.Direction()
			g.HemiSky = [4]float32{c[0] * k, c[1] * k, c[2] * k, 0}
			g.HemiGround = [4]float32{gc[0] * k, gc[1] * k, gc[2] * k, 0}
			g.HemiUp = [4]float32{up[0], up[1], up[2], 0}
		}
	}
	return g
}
