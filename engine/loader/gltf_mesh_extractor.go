package loader

import (
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/chewxy/math32"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser        gltfParser
	decompressors map[string]Decompressor
}

// gltfMeshExtractor converts glTF mesh primitives into model meshes.
type gltfMeshExtractor interface {
	// ExtractAllMeshes extracts every primitive of every mesh, in file order.
	//
	// Returns:
	//   - []model.Mesh: one Mesh per primitive
	//   - error: error if any primitive cannot be read
	ExtractAllMeshes() ([]model.Mesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

func newGLTFMeshExtractor(parser gltfParser, decompressors map[string]Decompressor) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser, decompressors: decompressors}
}

func (e *gltfMeshExtractorImpl) ExtractAllMeshes() ([]model.Mesh, error) {
	doc := e.parser.Document()
	var out []model.Mesh
	for mi := range doc.Meshes {
		gm := &doc.Meshes[mi]
		for pi := range gm.Primitives {
			mesh, err := e.extractPrimitive(&gm.Primitives[pi], gm.Name, mi, pi)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			out = append(out, mesh)
		}
	}
	return out, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, meshName string, meshIndex, primIndex int) (model.Mesh, error) {
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return model.Mesh{}, fmt.Errorf("unsupported primitive mode: %d (only triangles supported)", *prim.Mode)
	}

	var (
		vertices   []model.GPUVertex
		indices    []uint32
		hasNormals bool
		err        error
	)
	if name, raw, ok := e.compressed(prim); ok {
		vertices, indices, err = e.decompress(name, raw, prim)
		if err != nil {
			return model.Mesh{}, err
		}
		for i := range vertices {
			if vertices[i].Normal != [3]float32{} {
				hasNormals = true
			}
			if vertices[i].Color == [4]float32{} {
				vertices[i].Color = [4]float32{1, 1, 1, 1}
			}
		}
	} else {
		vertices, hasNormals, err = e.readVertices(prim)
		if err != nil {
			return model.Mesh{}, err
		}
		indices, err = e.readIndices(prim, len(vertices))
		if err != nil {
			return model.Mesh{}, err
		}
	}

	for _, idx := range indices {
		if int(idx) >= len(vertices) {
			return model.Mesh{}, fmt.Errorf("index %d out of range for %d vertices", idx, len(vertices))
		}
	}
	if !hasNormals && len(indices) >= 3 {
		generateNormals(vertices, indices)
	}

	materialIndex := -1
	if prim.Material != nil {
		materialIndex = *prim.Material
	}

	name := meshName
	if name == "" {
		name = fmt.Sprintf("mesh_%d", meshIndex)
	}
	if primIndex > 0 {
		name = fmt.Sprintf("%s_prim%d", name, primIndex)
	}

	mesh := model.Mesh{
		Name:          name,
		Vertices:      vertices,
		Indices:       indices,
		MaterialIndex: materialIndex,
	}
	mesh.ComputeBounds()
	return mesh, nil
}

// compressed returns the first primitive extension that has a registered decompressor. An
// extension without one is left to the required-extension check.
func (e *gltfMeshExtractorImpl) compressed(prim *gltfPrimitive) (string, json.RawMessage, bool) {
	for name, raw := range prim.Extensions {
		if _, ok := e.decompressors[name]; ok {
			return name, raw, true
		}
	}
	return "", nil, false
}

func (e *gltfMeshExtractorImpl) decompress(name string, raw json.RawMessage, prim *gltfPrimitive) ([]model.GPUVertex, []uint32, error) {
	var ext compressedExtension
	if err := json.Unmarshal(raw, &ext); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	cp := CompressedPrimitive{Extension: raw, Attributes: ext.Attributes}
	if ext.BufferView != nil {
		data, err := e.parser.BufferView(*ext.BufferView)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		cp.Data = data
	}
	if pos, ok := prim.Attributes["POSITION"]; ok {
		if doc := e.parser.Document(); pos >= 0 && pos < len(doc.Accessors) {
			cp.VertexCount = doc.Accessors[pos].Count
		}
	}

	vertices, indices, err := e.decompressors[name].Decompress(cp)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	return vertices, indices, nil
}

func (e *gltfMeshExtractorImpl) readVertices(prim *gltfPrimitive) ([]model.GPUVertex, bool, error) {
	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, false, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read positions: %w", err)
	}

	vertices := make([]model.GPUVertex, len(positions))
	for i, pos := range positions {
		vertices[i].Position = pos
		vertices[i].Color = [4]float32{1, 1, 1, 1}
	}

	hasNormals := false
	if acc, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := e.parser.ReadVec3Accessor(acc)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read normals: %w", err)
		}
		for i := 0; i < len(normals) && i < len(vertices); i++ {
			vertices[i].Normal = normals[i]
		}
		hasNormals = true
	}

	if acc, ok := prim.Attributes["COLOR_0"]; ok {
		colors, err := e.parser.ReadColorAccessor(acc)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read colors: %w", err)
		}
		for i := 0; i < len(colors) && i < len(vertices); i++ {
			vertices[i].Color = colors[i]
		}
	}
	return vertices, hasNormals, nil
}

func (e *gltfMeshExtractorImpl) readIndices(prim *gltfPrimitive, vertexCount int) ([]uint32, error) {
	if prim.Indices == nil {
		indices := make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
		return indices, nil
	}
	indices, err := e.parser.ReadIndicesAccessor(*prim.Indices)
	if err != nil {
		return nil, fmt.Errorf("failed to read indices: %w", err)
	}
	return indices, nil
}

// generateNormals fills smooth normals by accumulating area-weighted face normals onto each
// triangle's vertices. Vertices touched by no triangle get +Y.
func generateNormals(vertices []model.GPUVertex, indices []uint32) {
	n := len(vertices)
	accum := make([][3]float32, n)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}
		p0, p1, p2 := vertices[i0].Position, vertices[i1].Position, vertices[i2].Position
		e1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		e2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		face := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for _, idx := range [3]uint32{i0, i1, i2} {
			for c := range 3 {
				accum[idx][c] += face[c]
			}
		}
	}

	for i := range n {
		a := accum[i]
		length := math32.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
		if length < 1e-6 {
			vertices[i].Normal = [3]float32{0, 1, 0}
			continue
		}
		vertices[i].Normal = [3]float32{a[0] / length, a[1] / length, a[2] / length}
	}
}
