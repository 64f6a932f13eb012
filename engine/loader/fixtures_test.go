package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"
)

// triangleBuffer returns three float32 positions followed by three uint16 indices.
func triangleBuffer() []byte {
	var buf bytes.Buffer
	for _, f := range []float32{0, 0, 0, 0, 0, 1, 1, 0, 0} {
		_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(f))
	}
	for _, i := range []uint16{0, 1, 2} {
		_ = binary.Write(&buf, binary.LittleEndian, i)
	}
	return buf.Bytes()
}

// triangleDocument returns a one-triangle glTF document. An empty uri leaves the buffer
// for a GLB binary chunk.
func triangleDocument(t *testing.T, uri string) []byte {
	t.Helper()
	buffer := map[string]any{"byteLength": len(triangleBuffer())}
	if uri != "" {
		buffer["uri"] = uri
	}
	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": []int{0}}},
		"nodes": []any{map[string]any{
			"name":        "body",
			"mesh":        0,
			"translation": []float32{0, 1, 0},
		}},
		"meshes": []any{map[string]any{
			"name": "tri",
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0},
				"indices":    1,
				"material":   0,
			}},
		}},
		"materials": []any{map[string]any{
			"name": "red",
			"pbrMetallicRoughness": map[string]any{
				"baseColorFactor": []float32{1, 0, 0, 0.5},
				"metallicFactor":  0.25,
				"roughnessFactor": 0.75,
			},
		}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": gltfComponentTypeFloat, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": gltfComponentTypeUnsignedShort, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"buffers": []any{buffer},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

// embeddedTriangle returns a self-contained glTF with a base64 data URI buffer.
func embeddedTriangle(t *testing.T) []byte {
	t.Helper()
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(triangleBuffer())
	return triangleDocument(t, uri)
}

// triangleGLB packs the triangle into a GLB container.
func triangleGLB(t *testing.T) []byte {
	t.Helper()
	jsonChunk := triangleDocument(t, "")
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	binChunk := triangleBuffer()
	for len(binChunk)%4 != 0 {
		binChunk = append(binChunk, 0)
	}

	var out bytes.Buffer
	total := 12 + 8 + len(jsonChunk) + 8 + len(binChunk)
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)})
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(jsonChunk)), ChunkType: gltfGLBChunkJSON})
	out.Write(jsonChunk)
	_ = binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(binChunk)), ChunkType: gltfGLBChunkBIN})
	out.Write(binChunk)
	return out.Bytes()
}
