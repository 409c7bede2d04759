package scene

import (
	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
)

// NewModelGroup converts a loaded model into a group holding one Mesh per model mesh.
// Meshes that reference the same imported material share one Material instance.
//
// Parameters:
//   - m: the loaded model
//   - options: functional options applied to the group
//
// Returns:
//   - Node: the group
func NewModelGroup(m model.Model, options ...NodeBuilderOption) Node {
	group := NewGroup(append([]NodeBuilderOption{WithName(m.Name())}, options...)...)

	imported := m.Materials()
	mats := make([]material.Material, len(imported))
	for i, im := range imported {
		mats[i] = materialFromImport(im)
	}

	for _, mm := range m.Meshes() {
		var mat material.Material
		if mm.MaterialIndex >= 0 && mm.MaterialIndex < len(mats) {
			mat = mats[mm.MaterialIndex]
		}
		geo := NewGeometry(mm.Vertices, mm.Indices, TopologyTriangleList)
		group.Add(NewMesh(geo, mat, WithName(mm.Name)))
	}
	return group
}

func materialFromImport(im common.ImportedMaterial) material.Material {
	return material.NewMaterial(
		material.WithName(im.Name),
		material.WithColor([3]float32{im.BaseColor[0], im.BaseColor[1], im.BaseColor[2]}),
		material.WithOpacity(im.BaseColor[3]),
		material.WithEmissive(im.Emissive),
		material.WithMetalness(im.Metallic),
		material.WithRoughness(im.Roughness),
		material.WithTransparent(im.Transparent),
	)
}

// Meshes returns every Mesh in the subtree rooted at n in traversal order, visible or not.
//
// Parameters:
//   - n: the subtree root
//
// Returns:
//   - []Mesh: the meshes
func Meshes(n Node) []Mesh {
	var out []Mesh
	n.Traverse(func(c Node) {
		if m, ok := c.(Mesh); ok && c.Kind() == NodeKindMesh {
			out = append(out, m)
		}
	})
	return out
}
