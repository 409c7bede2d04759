package loader

import (
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/oxy-bloom/common"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser
}

// gltfMaterialExtractor reads glTF materials into imported material descriptions. Only factors
// are read; textures are ignored since every mesh material is overridden after load.
type gltfMaterialExtractor interface {
	// ExtractMaterial extracts a single material by index.
	//
	// Parameters:
	//   - materialIndex: the index of the material in the document
	//
	// Returns:
	//   - common.ImportedMaterial: the material
	//   - error: error if the index is out of range or an extension is malformed
	ExtractMaterial(materialIndex int) (common.ImportedMaterial, error)

	// ExtractAllMaterials extracts every material in file order.
	ExtractAllMaterials() ([]common.ImportedMaterial, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{parser: parser}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex int) (common.ImportedMaterial, error) {
	doc := e.parser.Document()
	if doc == nil {
		return common.ImportedMaterial{}, fmt.Errorf("no document loaded")
	}
	if materialIndex < 0 || materialIndex >= len(doc.Materials) {
		return common.ImportedMaterial{}, fmt.Errorf("material index %d out of range", materialIndex)
	}
	mat := &doc.Materials[materialIndex]

	// glTF defaults: white, fully metallic, fully rough.
	result := common.ImportedMaterial{
		Name:        mat.Name,
		BaseColor:   [4]float32{1, 1, 1, 1},
		Metallic:    1,
		Roughness:   1,
		Transparent: mat.AlphaMode == gltfAlphaModeBlend,
	}
	if result.Name == "" {
		result.Name = fmt.Sprintf("material_%d", materialIndex)
	}

	if pbr := mat.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			result.BaseColor = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			result.Metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			result.Roughness = *pbr.RoughnessFactor
		}
	}

	if mat.EmissiveFactor != nil {
		result.Emissive = *mat.EmissiveFactor
	}
	if raw, ok := mat.Extensions["KHR_materials_emissive_strength"]; ok {
		var ext gltfEmissiveStrength
		if err := json.Unmarshal(raw, &ext); err != nil {
			return common.ImportedMaterial{}, fmt.Errorf("material %q: emissive strength: %w", result.Name, err)
		}
		for i := range result.Emissive {
			result.Emissive[i] *= ext.EmissiveStrength
		}
	}
	return result, nil
}

func (e *gltfMaterialExtractorImpl) ExtractAllMaterials() ([]common.ImportedMaterial, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	out := make([]common.ImportedMaterial, 0, len(doc.Materials))
	for i := range doc.Materials {
		m, err := e.ExtractMaterial(i)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
