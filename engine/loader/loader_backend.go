package loader

import (
	"context"
	"path"
	"strings"

	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// loaderBackend decodes one model file format into a node hierarchy.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Decode converts raw file bytes into a model.
	//
	// Parameters:
	//   - ctx: context for fetching dependent resources
	//   - data: the file contents, already decompressed
	//   - source: the source the bytes came from, used for naming
	//   - resolve: loader for resources referenced relative to source
	//
	// Returns:
	//   - model.Node: the decoded model root
	//   - error: error if decoding fails
	Decode(ctx context.Context, data []byte, source string, resolve bufferResolver) (model.Node, error)
}

// backendFor picks a backend from the source's extension (after stripping .zst) or,
// failing that, from the content itself.
func backendFor(source string, data []byte) (loaderBackend, error) {
	ext := strings.ToLower(path.Ext(strings.TrimSuffix(stripQuery(source), zstdSuffix)))
	switch ext {
	case ".gltf", ".glb":
		return newGLTFLoaderBackend(), nil
	}
	if isGLB(data) || looksLikeJSON(data) {
		return newGLTFLoaderBackend(), nil
	}
	return nil, ErrUnsupportedFormat
}

func looksLikeJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
