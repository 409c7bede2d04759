package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errAccessorBounds     = errors.New("accessor reads past the end of its buffer")
)

// uriFetcher resolves an external buffer URI relative to the document.
type uriFetcher func(uri string) ([]byte, error)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	fetch          uriFetcher
	document       *gltfDocument
	glbBinaryChunk []byte
}

// gltfParser decodes a glTF or GLB byte stream and reads typed accessor data from it.
type gltfParser interface {
	// Parse decodes data, detecting GLB by its magic number, and loads every buffer.
	//
	// Parameters:
	//   - data: the glTF JSON or GLB bytes
	//
	// Returns:
	//   - error: error if decoding fails
	Parse(data []byte) error

	// Document returns the parsed document, or nil before a successful Parse.
	Document() *gltfDocument

	// BufferView returns the bytes of one buffer view.
	//
	// Parameters:
	//   - index: the buffer view index
	//
	// Returns:
	//   - []byte: the view bytes, sharing the buffer's backing array
	//   - error: error if the view is out of range
	BufferView(index int) ([]byte, error)

	// ReadVec3Accessor reads a VEC3 FLOAT accessor.
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)

	// ReadVec4Accessor reads a VEC4 FLOAT accessor.
	ReadVec4Accessor(accessorIndex int) ([][4]float32, error)

	// ReadIndicesAccessor reads a SCALAR accessor of unsigned bytes, shorts or ints.
	ReadIndicesAccessor(accessorIndex int) ([]uint32, error)

	// ReadColorAccessor reads a VEC3 or VEC4 color accessor stored as floats or as normalized
	// unsigned bytes or shorts. VEC3 colors get alpha 1.
	ReadColorAccessor(accessorIndex int) ([][4]float32, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a parser. fetch may be nil when every buffer is embedded.
func newGLTFParser(fetch uriFetcher) gltfParser {
	return &gltfParserImpl{fetch: fetch}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(data []byte) error {
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic {
		return p.parseGLB(data)
	}
	return p.parseJSON(data)
}

func (p *gltfParserImpl) parseJSON(data []byte) error {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}
	p.document = &doc
	return nil
}

func (p *gltfParserImpl) parseGLB(data []byte) error {
	if len(data) < 12 {
		return errors.New("GLB file too small")
	}
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return errInvalidGLBVersion
	}

	var jsonData []byte
	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to read chunk header: %w", err)
		}
		if int64(chunk.ChunkLength) > int64(r.Len()) {
			return fmt.Errorf("chunk of %d bytes exceeds file", chunk.ChunkLength)
		}
		body := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, body); err != nil {
			return fmt.Errorf("failed to read chunk data: %w", err)
		}
		switch chunk.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = body
		case gltfGLBChunkBIN:
			p.glbBinaryChunk = body
		}
	}
	if jsonData == nil {
		return errMissingJSONChunk
	}
	return p.parseJSON(jsonData)
}

func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		switch {
		case buf.URI == "" && i == 0 && p.glbBinaryChunk != nil:
			buf.Data = p.glbBinaryChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			if p.fetch == nil {
				return fmt.Errorf("buffer %d: external uri %q with no base location", i, buf.URI)
			}
			data, err := p.fetch(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		}
		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// decodeDataURI decodes data:[<mediatype>];base64,<data>.
func decodeDataURI(uri string) ([]byte, error) {
	comma := strings.IndexByte(uri, ',')
	if comma < 0 {
		return nil, errInvalidBufferURI
	}
	if !strings.Contains(uri[5:comma], "base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", uri[5:comma])
	}
	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

func (p *gltfParserImpl) BufferView(index int) ([]byte, error) {
	if p.document == nil {
		return nil, errors.New("no document loaded")
	}
	if index < 0 || index >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", index)
	}
	bv := p.document.BufferViews[index]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("buffer view %d references missing buffer %d", index, bv.Buffer)
	}
	data := p.document.Buffers[bv.Buffer].Data
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || end > len(data) {
		return nil, fmt.Errorf("buffer view %d: %w", index, errAccessorBounds)
	}
	return data[bv.ByteOffset:end], nil
}

// accessor returns the accessor and its tightly packed element bytes.
func (p *gltfParserImpl) accessor(index int) (*gltfAccessor, []byte, error) {
	if p.document == nil {
		return nil, nil, errors.New("no document loaded")
	}
	if index < 0 || index >= len(p.document.Accessors) {
		return nil, nil, fmt.Errorf("accessor index %d out of range", index)
	}
	acc := &p.document.Accessors[index]
	if acc.Sparse != nil {
		return nil, nil, errors.New("sparse accessors not supported")
	}
	if acc.BufferView == nil {
		return nil, nil, errors.New("accessor has no bufferView")
	}
	view, err := p.BufferView(*acc.BufferView)
	if err != nil {
		return nil, nil, err
	}

	elementSize := gltfComponentTypeSize(acc.ComponentType) * gltfAccessorTypeComponentCount(acc.Type)
	if elementSize == 0 {
		return nil, nil, fmt.Errorf("accessor %d: unsupported layout %s/%d", index, acc.Type, acc.ComponentType)
	}
	stride := elementSize
	if bv := p.document.BufferViews[*acc.BufferView]; bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}
	if acc.Count > 0 && acc.ByteOffset+(acc.Count-1)*stride+elementSize > len(view) {
		return nil, nil, fmt.Errorf("accessor %d: %w", index, errAccessorBounds)
	}

	out := make([]byte, acc.Count*elementSize)
	for i := 0; i < acc.Count; i++ {
		src := acc.ByteOffset + i*stride
		copy(out[i*elementSize:(i+1)*elementSize], view[src:src+elementSize])
	}
	return acc, out, nil
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	acc, data, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeVec3 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not VEC3 FLOAT: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}
	out := make([][3]float32, acc.Count)
	for i := range out {
		for c := range 3 {
			out[i][c] = readFloat(data, (i*3+c)*4)
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadVec4Accessor(accessorIndex int) ([][4]float32, error) {
	acc, data, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeVec4 || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("accessor is not VEC4 FLOAT: type=%s, componentType=%d", acc.Type, acc.ComponentType)
	}
	out := make([][4]float32, acc.Count)
	for i := range out {
		for c := range 4 {
			out[i][c] = readFloat(data, (i*4+c)*4)
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadIndicesAccessor(accessorIndex int) ([]uint32, error) {
	acc, data, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("index accessor is not SCALAR: type=%s", acc.Type)
	}
	out := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		for i := range out {
			out[i] = uint32(data[i])
		}
	case gltfComponentTypeUnsignedShort:
		for i := range out {
			out[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case gltfComponentTypeUnsignedInt:
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
	}
	return out, nil
}

func (p *gltfParserImpl) ReadColorAccessor(accessorIndex int) ([][4]float32, error) {
	acc, data, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	n := gltfAccessorTypeComponentCount(acc.Type)
	if n != 3 && n != 4 {
		return nil, fmt.Errorf("color accessor is not VEC3 or VEC4: type=%s", acc.Type)
	}

	var component func(i int) float32
	switch acc.ComponentType {
	case gltfComponentTypeFloat:
		component = func(i int) float32 { return readFloat(data, i*4) }
	case gltfComponentTypeUnsignedByte:
		component = func(i int) float32 { return float32(data[i]) / 255 }
	case gltfComponentTypeUnsignedShort:
		component = func(i int) float32 { return float32(binary.LittleEndian.Uint16(data[i*2:])) / 65535 }
	default:
		return nil, fmt.Errorf("unsupported color component type: %d", acc.ComponentType)
	}

	out := make([][4]float32, acc.Count)
	for i := range out {
		out[i][3] = 1
		for c := 0; c < n; c++ {
			out[i][c] = component(i*n + c)
		}
	}
	return out, nil
}

func readFloat(data []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
}

func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	case gltfAccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
