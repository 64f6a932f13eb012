package loader

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

func TestImportEmbeddedGLTF(t *testing.T) {
	root, err := newGLTFImporter().Import(context.Background(), embeddedTriangle(t), "tri.gltf", nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	meshes := model.MeshNodes(root)
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh node, got %d", len(meshes))
	}
	n := meshes[0]
	if n.Name() != "body" {
		t.Errorf("mesh node name = %q", n.Name())
	}
	if n.Position() != [3]float32{0, 1, 0} {
		t.Errorf("mesh node translation = %v", n.Position())
	}

	m := n.Mesh()
	if len(m.Vertices) != 3 || len(m.Indices) != 3 {
		t.Fatalf("mesh has %d vertices, %d indices", len(m.Vertices), len(m.Indices))
	}
	if m.Vertices[2].Position != [3]float32{1, 0, 0} {
		t.Errorf("vertex 2 = %v", m.Vertices[2].Position)
	}
	// No NORMAL attribute: generated from the winding, facing +Y.
	if m.Vertices[0].Normal != [3]float32{0, 1, 0} {
		t.Errorf("generated normal = %v", m.Vertices[0].Normal)
	}

	mat := m.Material
	if mat.Name != "red" || mat.Metallic != 0.25 || mat.Roughness != 0.75 {
		t.Errorf("material = %+v", mat)
	}
	// alphaMode defaults to OPAQUE, so alpha is forced to 1.
	if mat.BaseColor != [4]float32{1, 0, 0, 1} {
		t.Errorf("base color = %v", mat.BaseColor)
	}
}

func TestImportGLB(t *testing.T) {
	root, err := newGLTFImporter().Import(context.Background(), triangleGLB(t), "tri.glb", nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := len(model.MeshNodes(root)); got != 1 {
		t.Fatalf("expected 1 mesh node, got %d", got)
	}
}

func TestImportExternalBufferUsesResolver(t *testing.T) {
	var asked string
	resolve := func(_ context.Context, uri string) ([]byte, error) {
		asked = uri
		return triangleBuffer(), nil
	}
	if _, err := newGLTFImporter().Import(context.Background(), triangleDocument(t, "tri.bin"), "tri.gltf", resolve); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if asked != "tri.bin" {
		t.Fatalf("resolver asked for %q", asked)
	}
}

func TestImportRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("not a model")},
		{"wrong version", []byte(`{"asset":{"version":"1.0"}}`)},
		{"no meshes", []byte(`{"asset":{"version":"2.0"},"nodes":[{"name":"empty"}]}`)},
		{"bad glb version", append([]byte{'g', 'l', 'T', 'F', 1, 0, 0, 0}, make([]byte, 8)...)},
		{"required extension", []byte(`{"asset":{"version":"2.0"},"extensionsRequired":["KHR_draco_mesh_compression"]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newGLTFImporter().Import(context.Background(), tt.data, tt.name, nil); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestImportEmptyModelSentinel(t *testing.T) {
	_, err := newGLTFImporter().Import(context.Background(), []byte(`{"asset":{"version":"2.0"},"nodes":[{}]}`), "empty", nil)
	if !errors.Is(err, ErrEmptyModel) {
		t.Fatalf("err = %v, want ErrEmptyModel", err)
	}
}

func TestImportCyclicHierarchy(t *testing.T) {
	doc := []byte(`{"asset":{"version":"2.0"},"scenes":[{"nodes":[0]}],"nodes":[{"children":[1]},{"children":[0]}]}`)
	if _, err := newGLTFImporter().Import(context.Background(), doc, "cycle", nil); err == nil {
		t.Fatal("expected cyclic hierarchy error")
	}
}

func TestBackendFor(t *testing.T) {
	tests := []struct {
		source string
		data   []byte
		ok     bool
	}{
		{"penguin2.glb", nil, true},
		{"Duck.gltf?raw=1", nil, true},
		{"penguin.glb.zst", nil, true},
		{"model.bin", []byte("  {\"asset\":{}}"), true},
		{"model.obj", []byte("v 1 2 3"), false},
	}
	for _, tt := range tests {
		_, err := backendFor(tt.source, tt.data)
		if tt.ok && err != nil {
			t.Errorf("backendFor(%q) = %v", tt.source, err)
		}
		if !tt.ok && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("backendFor(%q) err = %v, want ErrUnsupportedFormat", tt.source, err)
		}
	}
}

// editedTriangle returns embeddedTriangle with edit applied to its decoded JSON.
func editedTriangle(t *testing.T, edit func(doc map[string]any)) []byte {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal(embeddedTriangle(t), &doc); err != nil {
		t.Fatal(err)
	}
	edit(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestImportRejectsMalformedAccessors(t *testing.T) {
	accessor := func(doc map[string]any) map[string]any {
		return doc["accessors"].([]any)[0].(map[string]any)
	}
	view := func(doc map[string]any) map[string]any {
		return doc["bufferViews"].([]any)[0].(map[string]any)
	}

	tests := []struct {
		name string
		edit func(doc map[string]any)
	}{
		{"negative count", func(doc map[string]any) { accessor(doc)["count"] = -1 }},
		{"negative accessor offset", func(doc map[string]any) { accessor(doc)["byteOffset"] = -8 }},
		{"negative view offset", func(doc map[string]any) { view(doc)["byteOffset"] = -4 }},
		{"negative stride", func(doc map[string]any) { view(doc)["byteStride"] = -12 }},
		{"huge count", func(doc map[string]any) { accessor(doc)["count"] = 1 << 40 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := editedTriangle(t, tt.edit)
			if _, err := newGLTFImporter().Import(context.Background(), data, "bad.gltf", nil); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestReadAccessorDataNegativeCount(t *testing.T) {
	data := editedTriangle(t, func(doc map[string]any) {
		doc["accessors"].([]any)[0].(map[string]any)["count"] = -1
	})
	p := newGLTFParser(nil)
	if err := p.Parse(context.Background(), data); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := p.ReadAccessorData(0); !errors.Is(err, errInvalidAccessor) {
		t.Fatalf("err = %v, want errInvalidAccessor", err)
	}
}

func TestParseGLBOversizedChunk(t *testing.T) {
	var glb bytes.Buffer
	_ = binary.Write(&glb, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: 20})
	_ = binary.Write(&glb, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: math.MaxUint32, ChunkType: gltfGLBChunkJSON})

	err := newGLTFParser(nil).Parse(context.Background(), glb.Bytes())
	if !errors.Is(err, errChunkTooLarge) {
		t.Fatalf("err = %v, want errChunkTooLarge", err)
	}
}
