package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/penguin-paradise/engine/model"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser
}

// gltfMaterialExtractor maps glTF metallic-roughness materials onto model.Material.
// Only factors are read; textures are not sampled by the lit pipeline.
type gltfMaterialExtractor interface {
	// ExtractMaterial returns the material at index, or the glTF default material for nil
	// or out-of-range indices.
	//
	// Parameters:
	//   - materialIndex: the primitive's material index, may be nil
	//
	// Returns:
	//   - model.Material: the resolved material
	ExtractMaterial(materialIndex *int) model.Material
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{parser: parser}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex *int) model.Material {
	// glTF default material: white, fully metallic, fully rough.
	mat := model.Material{
		Name:      "gltf-default",
		BaseColor: [4]float32{1, 1, 1, 1},
		Metallic:  1,
		Roughness: 1,
		Opacity:   1,
	}

	doc := e.parser.Document()
	if doc == nil || materialIndex == nil || *materialIndex < 0 || *materialIndex >= len(doc.Materials) {
		return mat
	}

	src := &doc.Materials[*materialIndex]
	mat.Name = src.Name
	if mat.Name == "" {
		mat.Name = fmt.Sprintf("material-%d", *materialIndex)
	}

	if pbr := src.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			mat.BaseColor = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			mat.Metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			mat.Roughness = *pbr.RoughnessFactor
		}
	}

	// OPAQUE and MASK ignore alpha; only BLEND keeps it.
	if src.AlphaMode != gltfAlphaModeBlend {
		mat.BaseColor[3] = 1
	}
	return mat
}
