package scene

import (
	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
)

var (
	gridCenterColor = [4]float32{0x44 / 255.0, 0x44 / 255.0, 0x44 / 255.0, 1}
	gridLineColor   = [4]float32{0x88 / 255.0, 0x88 / 255.0, 0x88 / 255.0, 1}
)

// NewAxesHelper creates three colored line segments from the origin along +X (red),
// +Y (green) and +Z (blue). The helper starts hidden.
//
// Parameters:
//   - size: the length of each axis line
//   - options: functional options applied after the defaults
//
// Returns:
//   - Mesh: the helper node
func NewAxesHelper(size float32, options ...NodeBuilderOption) Mesh {
	red := [4]float32{1, 0, 0, 1}
	green := [4]float32{0, 1, 0, 1}
	blue := [4]float32{0, 0, 1, 1}
	vertices := []model.GPUVertex{
		{Color: red}, {Position: [3]float32{size, 0, 0}, Color: red},
		{Color: green}, {Position: [3]float32{0, size, 0}, Color: green},
		{Color: blue}, {Position: [3]float32{0, 0, size}, Color: blue},
	}
	indices := []uint32{0, 1, 2, 3, 4, 5}
	return newHelper("axes", vertices, indices, options)
}

// NewGridHelper creates a square grid of lines on the XZ plane centered on the origin.
// The two center lines use a darker color. The helper starts hidden.
//
// Parameters:
//   - size: the side length of the grid
//   - divisions: the number of cells along each side
//   - options: functional options applied after the defaults
//
// Returns:
//   - Mesh: the helper node
func NewGridHelper(size float32, divisions int, options ...NodeBuilderOption) Mesh {
	if divisions < 1 {
		divisions = 1
	}
	center := divisions / 2
	step := size / float32(divisions)
	half := size / 2

	vertices := make([]model.GPUVertex, 0, (divisions+1)*4)
	indices := make([]uint32, 0, (divisions+1)*4)
	k := -half
	for i := 0; i <= divisions; i++ {
		color := gridLineColor
		if i == center {
			color = gridCenterColor
		}
		base := uint32(len(vertices))
		vertices = append(vertices,
			model.GPUVertex{Position: [3]float32{-half, 0, k}, Color: color},
			model.GPUVertex{Position: [3]float32{half, 0, k}, Color: color},
			model.GPUVertex{Position: [3]float32{k, 0, -half}, Color: color},
			model.GPUVertex{Position: [3]float32{k, 0, half}, Color: color},
		)
		indices = append(indices, base, base+1, base+2, base+3)
		k += step
	}
	return newHelper("grid", vertices, indices, options)
}

func newHelper(name string, vertices []model.GPUVertex, indices []uint32, options []NodeBuilderOption) Mesh {
	mat := material.NewMaterial(material.WithName(name+"_helper"), material.WithUnlit(true))
	opts := append([]NodeBuilderOption{WithName(name), WithVisible(false)}, options...)
	return newMesh(NodeKindHelper, NewGeometry(vertices, indices, TopologyLineList), mat, opts)
}
