package scene

// NodeBuilderOption is a function that configures a node during construction.
// The same options apply to groups, meshes and helpers.
type NodeBuilderOption func(*node)

// WithName is an option builder that labels the node.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - NodeBuilderOption: a function that applies the name option
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithPosition is an option builder that sets the local position.
//
// Parameters:
//   - v: the position
//
// Returns:
//   - NodeBuilderOption: a function that applies the position option
func WithPosition(v [3]float32) NodeBuilderOption {
	return func(n *node) {
		n.transform.Position = v
	}
}

// WithRotation is an option builder that sets the local Euler XYZ rotation in radians.
//
// Parameters:
//   - v: the rotation
//
// Returns:
//   - NodeBuilderOption: a function that applies the rotation option
func WithRotation(v [3]float32) NodeBuilderOption {
	return func(n *node) {
		n.transform.Rotation = v
	}
}

// WithScale is an option builder that sets the local scale.
//
// Parameters:
//   - v: the scale
//
// Returns:
//   - NodeBuilderOption: a function that applies the scale option
func WithScale(v [3]float32) NodeBuilderOption {
	return func(n *node) {
		n.transform.Scale = v
	}
}

// WithVisible is an option builder that sets the initial visibility.
//
// Parameters:
//   - visible: true to show
//
// Returns:
//   - NodeBuilderOption: a function that applies the visibility option
func WithVisible(visible bool) NodeBuilderOption {
	return func(n *node) {
		n.visible = visible
	}
}

// WithLayers is an option builder that replaces the layer mask.
//
// Parameters:
//   - layers: the mask
//
// Returns:
//   - NodeBuilderOption: a function that applies the layers option
func WithLayers(layers Layers) NodeBuilderOption {
	return func(n *node) {
		n.layers = layers
	}
}

// WithChildren is an option builder that attaches initial children.
//
// Parameters:
//   - children: the nodes to attach
//
// Returns:
//   - NodeBuilderOption: a function that applies the children option
func WithChildren(children ...Node) NodeBuilderOption {
	return func(n *node) {
		n.self.Add(children...)
	}
}
