package loader

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter orchestrates a full glTF/GLB import: parse, then build the node hierarchy
// of the default scene with meshes and materials attached.
type gltfImporter interface {
	// Import decodes data and returns the root node of the default scene.
	//
	// Parameters:
	//   - ctx: context for external buffer fetches
	//   - data: the complete glTF JSON or GLB bytes
	//   - name: name for the returned root node
	//   - resolve: loader for external buffers referenced by the document
	//
	// Returns:
	//   - model.Node: the scene root
	//   - error: error if import fails
	Import(ctx context.Context, data []byte, name string, resolve bufferResolver) (model.Node, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(ctx context.Context, data []byte, name string, resolve bufferResolver) (model.Node, error) {
	parser := newGLTFParser(resolve)
	if err := parser.Parse(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	doc := parser.Document()
	meshes := newGLTFMeshExtractor(parser, newGLTFMaterialExtractor(parser))

	roots, err := gltfSceneRoots(doc)
	if err != nil {
		return nil, err
	}

	root := model.NewNode(model.WithName(name))
	visiting := make(map[int]bool)
	for _, idx := range roots {
		n, err := imp.buildNode(doc, meshes, idx, visiting)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}

	if len(model.MeshNodes(root)) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyModel)
	}
	return root, nil
}

// buildNode converts glTF node idx and its descendants. visiting guards against cyclic
// child references in malformed files.
func (imp *gltfImporterImpl) buildNode(doc *gltfDocument, meshes gltfMeshExtractor, idx int, visiting map[int]bool) (model.Node, error) {
	if idx < 0 || idx >= len(doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", idx)
	}
	if visiting[idx] {
		return nil, fmt.Errorf("node %d: cyclic hierarchy", idx)
	}
	visiting[idx] = true
	defer delete(visiting, idx)

	src := &doc.Nodes[idx]
	n := model.NewNode(model.WithName(src.Name))

	if src.Matrix != nil {
		m := *src.Matrix
		n.SetMatrix(&m)
	} else {
		if t := src.Translation; t != nil {
			n.SetPosition(t[0], t[1], t[2])
		}
		if r := src.Rotation; r != nil {
			n.SetOrientation(*r)
		}
		if s := src.Scale; s != nil {
			n.SetScale(s[0], s[1], s[2])
		}
	}

	if src.Mesh != nil {
		prims, err := meshes.ExtractMesh(*src.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", idx, err)
		}
		switch len(prims) {
		case 0:
		case 1:
			n.SetMesh(prims[0])
		default:
			for _, p := range prims {
				n.Add(model.NewNode(model.WithName(p.Name), model.WithMesh(p)))
			}
		}
	}

	for _, c := range src.Children {
		child, err := imp.buildNode(doc, meshes, c, visiting)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// gltfSceneRoots returns the root node indices of the default scene. Documents without scenes
// fall back to every node that is nobody's child.
func gltfSceneRoots(doc *gltfDocument) ([]int, error) {
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = *doc.Scene
		}
		if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
			return nil, fmt.Errorf("scene index %d out of range", sceneIdx)
		}
		return doc.Scenes[sceneIdx].Nodes, nil
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots, nil
}
