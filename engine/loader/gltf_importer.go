package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct {
	decompressors map[string]Decompressor
}

// gltfImporter runs the parser and the extractors over one asset and assembles a Model.
type gltfImporter interface {
	// Import decodes glTF or GLB bytes into a Model.
	//
	// Parameters:
	//   - data: the asset bytes
	//   - source: the path or URL, used for naming and stored on the model
	//   - fetch: resolves external buffer URIs, or nil
	//
	// Returns:
	//   - model.Model: the model
	//   - error: error if parsing or extraction fails, or ErrUnsupportedExtension
	Import(data []byte, source string, fetch uriFetcher) (model.Model, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter(decompressors map[string]Decompressor) gltfImporter {
	return &gltfImporterImpl{decompressors: decompressors}
}

func (imp *gltfImporterImpl) Import(data []byte, source string, fetch uriFetcher) (model.Model, error) {
	parser := newGLTFParser(fetch)
	if err := parser.Parse(data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	doc := parser.Document()

	for _, ext := range doc.ExtensionsRequired {
		if nativeExtensions[ext] {
			continue
		}
		if _, ok := imp.decompressors[ext]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
		}
	}

	meshes, err := newGLTFMeshExtractor(parser, imp.decompressors).ExtractAllMeshes()
	if err != nil {
		return nil, fmt.Errorf("mesh extraction failed: %w", err)
	}
	materials, err := newGLTFMaterialExtractor(parser).ExtractAllMaterials()
	if err != nil {
		return nil, fmt.Errorf("material extraction failed: %w", err)
	}

	return model.NewModel(
		model.WithName(gltfModelName(doc, source)),
		model.WithSource(source),
		model.WithMeshes(meshes...),
		model.WithMaterials(materials...),
	), nil
}

// gltfModelName prefers the default scene's name and falls back to the source.
func gltfModelName(doc *gltfDocument, source string) string {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}
	if source != "" {
		return source
	}
	return "unnamed_model"
}
