package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser    gltfParser
	materials gltfMaterialExtractor

	// cache shares geometry between nodes that reference the same mesh index.
	cache map[int][]*model.Mesh
}

// gltfMeshExtractor converts glTF meshes into renderer-ready model.Mesh values.
type gltfMeshExtractor interface {
	// ExtractMesh extracts a single mesh by index.
	// Returns one model.Mesh per triangle primitive; repeated calls return the same pointers.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - []*model.Mesh: one Mesh per primitive
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) ([]*model.Mesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
func newGLTFMeshExtractor(parser gltfParser, materials gltfMaterialExtractor) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{
		parser:    parser,
		materials: materials,
		cache:     make(map[int][]*model.Mesh),
	}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]*model.Mesh, error) {
	if cached, ok := e.cache[meshIndex]; ok {
		return cached, nil
	}

	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	result := make([]*model.Mesh, 0, len(mesh.Primitives))
	for primIdx := range mesh.Primitives {
		prim := &mesh.Primitives[primIdx]
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			// Points and lines have no surface to shade.
			continue
		}
		m, err := e.extractPrimitive(prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}
		m.Name = fmt.Sprintf("%s#%d", mesh.Name, primIdx)
		result = append(result, m)
	}

	e.cache[meshIndex] = result
	return result, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive) (*model.Mesh, error) {
	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}

	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	vertices := make([]model.Vertex, len(positions))
	for i, pos := range positions {
		vertices[i].Position = pos
	}

	hasNormals := false
	if normalAccessor, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := e.parser.ReadVec3Accessor(normalAccessor)
		if err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
		for i := range normals {
			if i < len(vertices) {
				vertices[i].Normal = normals[i]
			}
		}
		hasNormals = true
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= len(vertices) {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", idx, len(vertices))
			}
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	m := &model.Mesh{
		Vertices: vertices,
		Indices:  indices,
		Material: e.materials.ExtractMaterial(prim.Material),
	}
	if !hasNormals {
		m.GenerateNormals()
	}
	m.ComputeBounds()
	return m, nil
}
