package model

import (
	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/chewxy/math32"
)

// model is the implementation of the Model interface.
type model struct {
	name        string
	source      string
	meshes      []Mesh
	materials   []common.ImportedMaterial
	boundingMin [3]float32
	boundingMax [3]float32
}

// Model defines the interface for a loaded 3D model.
// A Model is an immutable CPU-side container of meshes and their imported materials.
// It is produced by the Loader and turned into scene nodes by the scene package.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Source returns the path or URL the model was loaded from.
	//
	// Returns:
	//   - string: the model source, empty for in-memory models
	Source() string

	// Meshes returns the model's meshes in file order.
	//
	// Returns:
	//   - []Mesh: the meshes
	Meshes() []Mesh

	// Materials returns the imported material descriptions referenced by Mesh.MaterialIndex.
	//
	// Returns:
	//   - []common.ImportedMaterial: the materials
	Materials() []common.ImportedMaterial

	// Bounds returns the axis-aligned bounding box enclosing every mesh.
	//
	// Returns:
	//   - min: the minimum corner
	//   - max: the maximum corner
	Bounds() (min, max [3]float32)

	// BoundingRadius returns the radius of the sphere centered on the origin that encloses the bounds.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// VertexCount returns the total number of vertices across all meshes.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options applied.
// Bounds are computed from the meshes after all options are applied.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	m.computeBounds()
	return m
}

func (m *model) computeBounds() {
	first := true
	for _, mesh := range m.meshes {
		if len(mesh.Vertices) == 0 {
			continue
		}
		if first {
			m.boundingMin, m.boundingMax = mesh.BoundingMin, mesh.BoundingMax
			first = false
			continue
		}
		for i := range 3 {
			m.boundingMin[i] = min(m.boundingMin[i], mesh.BoundingMin[i])
			m.boundingMax[i] = max(m.boundingMax[i], mesh.BoundingMax[i])
		}
	}
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Source() string {
	return m.source
}

func (m *model) Meshes() []Mesh {
	return m.meshes
}

func (m *model) Materials() []common.ImportedMaterial {
	return m.materials
}

func (m *model) Bounds() (min, max [3]float32) {
	return m.boundingMin, m.boundingMax
}

func (m *model) BoundingRadius() float32 {
	var r float32
	for _, c := range [][3]float32{m.boundingMin, m.boundingMax} {
		r = math32.Max(r, math32.Sqrt(c[0]*c[0]+c[1]*c[1]+c[2]*c[2]))
	}
	return r
}

func (m *model) VertexCount() int {
	n := 0
	for _, mesh := range m.meshes {
		n += len(mesh.Vertices)
	}
	return n
}
