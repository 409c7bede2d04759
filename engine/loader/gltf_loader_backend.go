package loader

import "github.com/Carmen-Shannon/oxy-bloom/engine/model"

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

// gltfLoaderBackend is the loaderBackend for glTF and GLB assets.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates the glTF backend. The decompressor map is shared with the
// loader, so registrations made before a load are visible to it.
func newGLTFLoaderBackend(decompressors map[string]Decompressor) gltfLoaderBackend {
	return &gltfLoaderBackendImpl{importer: newGLTFImporter(decompressors)}
}

func (b *gltfLoaderBackendImpl) Decode(data []byte, source string, fetch uriFetcher) (model.Model, error) {
	return b.importer.Import(data, source, fetch)
}

func (b *gltfLoaderBackendImpl) Extensions() []string {
	return []string{".gltf", ".glb"}
}
