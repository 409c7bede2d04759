package loader

import (
	"encoding/json"
	"errors"

	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
)

// ErrUnsupportedExtension is returned when an asset requires a glTF extension that the loader
// neither handles natively nor has a Decompressor for.
var ErrUnsupportedExtension = errors.New("unsupported glTF extension")

// ExtensionDraco is the Draco mesh compression extension.
const ExtensionDraco = "KHR_draco_mesh_compression"

// nativeExtensions are read by the loader itself.
var nativeExtensions = map[string]bool{
	"KHR_materials_emissive_strength": true,
}

// CompressedPrimitive is a mesh primitive whose geometry is stored by an extension.
type CompressedPrimitive struct {
	// Extension is the raw extension object of the primitive.
	Extension json.RawMessage

	// Data is the buffer view named by the extension's "bufferView" field, or nil.
	Data []byte

	// Attributes maps attribute semantics to the extension's attribute ids.
	Attributes map[string]int

	// VertexCount is the POSITION accessor count declared by the primitive, or 0.
	VertexCount int
}

// Decompressor decodes one compressed primitive into triangle geometry.
type Decompressor interface {
	// Decompress decodes the primitive.
	//
	// Parameters:
	//   - p: the compressed primitive
	//
	// Returns:
	//   - []model.GPUVertex: the vertices; a zero Color is replaced with opaque white
	//   - []uint32: the triangle indices
	//   - error: error if decoding fails
	Decompress(p CompressedPrimitive) ([]model.GPUVertex, []uint32, error)
}

// DecompressorFunc adapts a function to the Decompressor interface.
type DecompressorFunc func(p CompressedPrimitive) ([]model.GPUVertex, []uint32, error)

// Decompress calls f(p).
func (f DecompressorFunc) Decompress(p CompressedPrimitive) ([]model.GPUVertex, []uint32, error) {
	return f(p)
}

type compressedExtension struct {
	BufferView *int           `json:"bufferView"`
	Attributes map[string]int `json:"attributes"`
}
