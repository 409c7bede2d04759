package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReparents(t *testing.T) {
	a := NewGroup(WithName("a"))
	b := NewGroup(WithName("b"))
	child := NewGroup(WithName("child"))

	a.Add(child)
	require.Equal(t, a, child.Parent())

	b.Add(child)
	assert.Equal(t, b, child.Parent())
	assert.Empty(t, a.Children())
	assert.Len(t, b.Children(), 1)
}

func TestAddRejectsCycles(t *testing.T) {
	outer := NewGroup()
	inner := NewGroup()
	outer.Add(inner)

	inner.Add(outer)
	outer.Add(outer)

	assert.Nil(t, outer.Parent())
	assert.Empty(t, inner.Children())
}

func TestMeshParentIsMesh(t *testing.T) {
	m := NewMesh(NewGeometry(nil, nil, TopologyTriangleList), nil)
	leaf := NewGroup()
	m.Add(leaf)

	_, ok := leaf.Parent().(Mesh)
	assert.True(t, ok)
}

func TestTraverseOrder(t *testing.T) {
	c1 := NewGroup(WithName("c1"))
	c2 := NewGroup(WithName("c2"))
	g1 := NewGroup(WithName("g1"))
	c1.Add(g1)
	root := NewGroup(WithName("root"), WithChildren(c1, c2))

	var names []string
	root.Traverse(func(n Node) { names = append(names, n.Name()) })
	assert.Equal(t, []string{"root", "c1", "g1", "c2"}, names)
}

func TestLayers(t *testing.T) {
	var l Layers
	l.Enable(1)
	l.Enable(40)
	assert.True(t, l.Has(1))
	assert.False(t, l.Has(0))
	assert.True(t, l.Test(Layers(1<<1)))
	assert.False(t, l.Test(DefaultLayers))

	l.Disable(1)
	assert.Zero(t, l)
}
