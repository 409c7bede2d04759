package transform

import (
	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
)

var axisColors = [3][4]float32{
	{1, 0.25, 0.25, 1},
	{0.25, 1, 0.25, 1},
	{0.25, 0.45, 1, 1},
}

type gizmo struct {
	root scene.Node
	axes [3]scene.Mesh
}

// Gizmo draws the controller's axes at the controlled node: one unlit line per axis,
// scaled by the gizmo size and hidden per the axis flags.
type Gizmo interface {
	// Node returns the gizmo root, to be attached under the scene root.
	//
	// Returns:
	//   - scene.Node: the root group
	Node() scene.Node

	// Sync places the gizmo at the anchor and applies the snapshot's size, axes and space.
	//
	// Parameters:
	//   - s: the controller state
	//   - anchor: the world position of the controlled node
	//   - rotation: the rotation of the controlled node, used in local space
	Sync(s Snapshot, anchor, rotation [3]float32)
}

var _ Gizmo = &gizmo{}

// NewGizmo creates a Gizmo.
//
// Returns:
//   - Gizmo: the gizmo
func NewGizmo() Gizmo {
	g := &gizmo{root: scene.NewGroup(scene.WithName("gizmo"))}
	for i := range g.axes {
		var tip [3]float32
		tip[i] = 1
		color := axisColors[i]
		geo := scene.NewGeometry(
			[]model.GPUVertex{{Color: color}, {Position: tip, Color: color}},
			[]uint32{0, 1},
			scene.TopologyLineList,
		)
		mat := material.NewMaterial(material.WithName("gizmo_"+common.Axis(i).String()), material.WithUnlit(true))
		g.axes[i] = scene.NewMesh(geo, mat, scene.WithName("gizmo_"+common.Axis(i).String()))
		g.root.Add(g.axes[i])
	}
	return g
}

func (g *gizmo) Node() scene.Node {
	return g.root
}

func (g *gizmo) Sync(s Snapshot, anchor, rotation [3]float32) {
	g.root.SetPosition(anchor)
	if s.Space == SpaceLocal {
		g.root.SetRotation(rotation)
	} else {
		g.root.SetRotation([3]float32{})
	}
	g.root.SetScale([3]float32{s.Size, s.Size, s.Size})
	for i, m := range g.axes {
		m.SetVisible(s.Axes[i])
	}
}
