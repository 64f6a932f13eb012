package model

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Vertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct used by the renderer's lit pipeline.
// Size: 24 bytes (no padding required for vertex buffers).
type Vertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
}

// VertexStride is the byte stride between consecutive vertices in a vertex buffer.
const VertexStride = 24

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the Vertex into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 24-byte buffer ready for GPU upload.
func (v *Vertex) Marshal() []byte {
	buf := make([]byte, VertexStride)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(v.Normal[2]))
	return buf
}

// MarshalVertices serializes a slice of vertices into one contiguous buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices)*VertexStride bytes
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, 0, len(vertices)*VertexStride)
	for i := range vertices {
		buf = append(buf, vertices[i].Marshal()...)
	}
	return buf
}

// MarshalIndices serializes uint32 indices in little-endian order.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: len(indices)*4 bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], idx)
	}
	return buf
}
