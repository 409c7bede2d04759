package model

// Mesh is a single CPU-side mesh within a loaded model.
// Vertices are stored in their GPU layout so geometry can be uploaded without conversion.
type Mesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices are the mesh vertices in model space.
	Vertices []GPUVertex

	// Indices are the triangle indices.
	Indices []uint32

	// MaterialIndex references Model.Materials, or -1 when the mesh has no material.
	MaterialIndex int

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// ComputeBounds recalculates BoundingMin and BoundingMax from the vertex positions.
// A mesh with no vertices gets zero bounds.
func (m *Mesh) ComputeBounds() {
	if len(m.Vertices) == 0 {
		m.BoundingMin, m.BoundingMax = [3]float32{}, [3]float32{}
		return
	}
	m.BoundingMin = m.Vertices[0].Position
	m.BoundingMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		for i := range 3 {
			m.BoundingMin[i] = min(m.BoundingMin[i], v.Position[i])
			m.BoundingMax[i] = max(m.BoundingMax[i], v.Position[i])
		}
	}
}
