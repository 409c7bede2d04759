package scene

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
)

// Topology selects how a geometry's indices are assembled into primitives.
type Topology int

const (
	// TopologyTriangleList draws every three indices as a triangle.
	TopologyTriangleList Topology = iota

	// TopologyLineList draws every two indices as a line segment.
	TopologyLineList
)

// geometryCount is an atomic counter used to generate unique geometry identifiers.
var geometryCount atomic.Uint64

// Geometry is immutable vertex and index data shared between a mesh and its clones.
// Renderers key uploaded GPU buffers by ID.
type Geometry struct {
	id       uint64
	Vertices []model.GPUVertex
	Indices  []uint32
	Topology Topology
}

// NewGeometry wraps vertex and index data in a Geometry with a fresh identifier.
//
// Parameters:
//   - vertices: the vertices
//   - indices: the primitive indices
//   - topology: how indices form primitives
//
// Returns:
//   - *Geometry: the geometry
func NewGeometry(vertices []model.GPUVertex, indices []uint32, topology Topology) *Geometry {
	return &Geometry{
		id:       geometryCount.Add(1),
		Vertices: vertices,
		Indices:  indices,
		Topology: topology,
	}
}

// ID returns the geometry's unique identifier.
func (g *Geometry) ID() uint64 {
	return g.id
}

type mesh struct {
	*node
	geometry *Geometry
	material material.Material
}

// Mesh is a drawable node: shared geometry plus a swappable material.
// The material is the only field the bloom compositor mutates, and only within one pass.
type Mesh interface {
	Node

	// Geometry returns the mesh's geometry. Clones share the same pointer.
	//
	// Returns:
	//   - *Geometry: the geometry
	Geometry() *Geometry

	// Material returns the mesh's current material.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// SetMaterial replaces the mesh's material.
	//
	// Parameters:
	//   - m: the new material
	SetMaterial(m material.Material)
}

var _ Mesh = &mesh{}

// NewMesh creates a triangle mesh node.
//
// Parameters:
//   - geometry: the geometry to draw
//   - mat: the material, or nil for a default white material
//   - options: functional options to configure the node
//
// Returns:
//   - Mesh: the new mesh
func NewMesh(geometry *Geometry, mat material.Material, options ...NodeBuilderOption) Mesh {
	return newMesh(NodeKindMesh, geometry, mat, options)
}

func newMesh(kind NodeKind, geometry *Geometry, mat material.Material, options []NodeBuilderOption) *mesh {
	if mat == nil {
		mat = material.NewMaterial()
	}
	m := &mesh{
		node:     newNode(kind),
		geometry: geometry,
		material: mat,
	}
	m.node.self = m
	m.node.apply(options)
	return m
}

func (m *mesh) Geometry() *Geometry {
	return m.geometry
}

func (m *mesh) Material() material.Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.material
}

func (m *mesh) SetMaterial(mat material.Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.material = mat
}
