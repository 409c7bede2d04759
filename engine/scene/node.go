package scene

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-bloom/common"
)

// NodeID uniquely identifies a node for the lifetime of the process.
type NodeID uint64

// nodeCount is an atomic counter used to generate unique node identifiers.
var nodeCount atomic.Uint64

func nextNodeID() NodeID {
	return NodeID(nodeCount.Add(1))
}

// NodeKind distinguishes grouping nodes from drawable ones.
type NodeKind int

const (
	// NodeKindGroup is a transform-only node with children.
	NodeKindGroup NodeKind = iota

	// NodeKindMesh is a triangle renderable.
	NodeKindMesh

	// NodeKindHelper is a line renderable used for debug overlays (axes, grid).
	NodeKindHelper
)

// String returns a readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeKindGroup:
		return "group"
	case NodeKindMesh:
		return "mesh"
	case NodeKindHelper:
		return "helper"
	default:
		return "unknown"
	}
}

type node struct {
	mu *sync.RWMutex

	id   NodeID
	name string
	kind NodeKind

	// self is the outermost value wrapping this node, so children see a Mesh as a Mesh.
	self     Node
	parent   Node
	children []Node

	visible   bool
	layers    Layers
	transform common.Transform
}

// Node defines the interface for an element of the scene hierarchy.
//
// Every node carries a local transform (position, Euler XYZ rotation, scale), a visibility
// flag, a layer mask and an ordered list of children. Groups are bare nodes; meshes and
// helpers embed a node and add geometry and material.
type Node interface {
	// ID returns the node's unique identifier.
	//
	// Returns:
	//   - NodeID: the node ID
	ID() NodeID

	// Name returns the node's label.
	//
	// Returns:
	//   - string: the node name
	Name() string

	// Kind returns the node kind.
	//
	// Returns:
	//   - NodeKind: group, mesh or helper
	Kind() NodeKind

	// Parent returns the node this node is attached to, or nil for a detached or root node.
	//
	// Returns:
	//   - Node: the parent or nil
	Parent() Node

	// Children returns a copy of the node's children in insertion order.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// Add attaches children to this node. A child that already has a parent is detached from it first.
	// Adding a node to itself or to one of its own descendants is ignored.
	//
	// Parameters:
	//   - children: the nodes to attach
	Add(children ...Node)

	// Remove detaches a direct child.
	//
	// Parameters:
	//   - child: the child to detach
	//
	// Returns:
	//   - bool: true if child was a direct child of this node
	Remove(child Node) bool

	// Visible reports whether the node and its subtree are drawn.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// SetVisible shows or hides the node and its subtree.
	//
	// Parameters:
	//   - visible: true to show
	SetVisible(visible bool)

	// Layers returns the node's layer mask.
	//
	// Returns:
	//   - Layers: the mask
	Layers() Layers

	// SetLayers replaces the node's layer mask.
	//
	// Parameters:
	//   - layers: the new mask
	SetLayers(layers Layers)

	// EnableLayer adds the node to layer l.
	//
	// Parameters:
	//   - l: the layer index in [0, 31]
	EnableLayer(l int)

	// Position returns the local position.
	//
	// Returns:
	//   - [3]float32: the position
	Position() [3]float32

	// Rotation returns the local Euler XYZ rotation in radians.
	//
	// Returns:
	//   - [3]float32: the rotation
	Rotation() [3]float32

	// Scale returns the local scale.
	//
	// Returns:
	//   - [3]float32: the scale
	Scale() [3]float32

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - v: the new position
	SetPosition(v [3]float32)

	// SetRotation sets the local Euler XYZ rotation in radians.
	//
	// Parameters:
	//   - v: the new rotation
	SetRotation(v [3]float32)

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - v: the new scale
	SetScale(v [3]float32)

	// Transform returns the full local transform.
	//
	// Returns:
	//   - common.Transform: position, rotation and scale
	Transform() common.Transform

	// SetTransform replaces the full local transform.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t common.Transform)

	// LocalMatrix composes the local transform into a column-major 4x4 matrix.
	//
	// Returns:
	//   - [16]float32: the local matrix
	LocalMatrix() [16]float32

	// Traverse calls fn for this node and every descendant, depth first, parents before
	// children, children in insertion order.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(Node))

	base() *node
}

var _ Node = &node{}

func newNode(kind NodeKind) *node {
	n := &node{
		mu:        &sync.RWMutex{},
		id:        nextNodeID(),
		kind:      kind,
		visible:   true,
		layers:    DefaultLayers,
		transform: common.IdentityTransform(),
	}
	n.self = n
	return n
}

func (n *node) apply(options []NodeBuilderOption) {
	for _, option := range options {
		option(n)
	}
}

// NewGroup creates an empty grouping node.
//
// Parameters:
//   - options: functional options to configure the group
//
// Returns:
//   - Node: the new group
func NewGroup(options ...NodeBuilderOption) Node {
	n := newNode(NodeKindGroup)
	n.apply(options)
	return n
}

func (n *node) base() *node {
	return n
}

func (n *node) ID() NodeID {
	return n.id
}

func (n *node) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.name
}

func (n *node) Kind() NodeKind {
	return n.kind
}

func (n *node) Parent() Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.parent
}

func (n *node) Children() []Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.children)
}

func (n *node) Add(children ...Node) {
	for _, child := range children {
		if child == nil || n.isDescendantOf(child) {
			continue
		}
		if old := child.Parent(); old != nil {
			old.Remove(child)
		}
		n.mu.Lock()
		n.children = append(n.children, child)
		n.mu.Unlock()

		cb := child.base()
		cb.mu.Lock()
		cb.parent = n.self
		cb.mu.Unlock()
	}
}

// isDescendantOf reports whether n is candidate or lies below it.
func (n *node) isDescendantOf(candidate Node) bool {
	for cur := n.self; cur != nil; cur = cur.Parent() {
		if cur.ID() == candidate.ID() {
			return true
		}
	}
	return false
}

func (n *node) Remove(child Node) bool {
	if child == nil {
		return false
	}
	n.mu.Lock()
	idx := slices.IndexFunc(n.children, func(c Node) bool { return c.ID() == child.ID() })
	if idx < 0 {
		n.mu.Unlock()
		return false
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	n.mu.Unlock()

	cb := child.base()
	cb.mu.Lock()
	cb.parent = nil
	cb.mu.Unlock()
	return true
}

func (n *node) Visible() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.visible
}

func (n *node) SetVisible(visible bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visible = visible
}

func (n *node) Layers() Layers {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.layers
}

func (n *node) SetLayers(layers Layers) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.layers = layers
}

func (n *node) EnableLayer(l int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.layers.Enable(l)
}

func (n *node) Position() [3]float32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.transform.Position
}

func (n *node) Rotation() [3]float32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.transform.Rotation
}

func (n *node) Scale() [3]float32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.transform.Scale
}

func (n *node) SetPosition(v [3]float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transform.Position = v
}

func (n *node) SetRotation(v [3]float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transform.Rotation = v
}

func (n *node) SetScale(v [3]float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transform.Scale = v
}

func (n *node) Transform() common.Transform {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.transform
}

func (n *node) SetTransform(t common.Transform) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transform = t
}

func (n *node) LocalMatrix() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:], n.Transform())
	return m
}

func (n *node) Traverse(fn func(Node)) {
	fn(n.self)
	for _, child := range n.Children() {
		child.Traverse(fn)
	}
}
