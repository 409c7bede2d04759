package scene

// CloneNode duplicates a subtree. Every copy gets a fresh NodeID and the same local state
// as its source. Meshes share geometry and material with their source, so a material
// change on the source is visible on every clone.
//
// Parameters:
//   - src: the subtree root to duplicate
//
// Returns:
//   - Node: the detached copy
func CloneNode(src Node) Node {
	if src == nil {
		return nil
	}

	var dst Node
	switch s := src.(type) {
	case *mesh:
		dst = newMesh(s.Kind(), s.Geometry(), s.Material(), nil)
	default:
		dst = newNode(src.Kind())
	}
	copyState(dst.base(), src.base())

	for _, child := range src.Children() {
		dst.Add(CloneNode(child))
	}
	return dst
}

// copyState copies the local state of src. Identity, parent and children are never copied.
func copyState(dst, src *node) {
	src.mu.RLock()
	name, visible, layers, transform := src.name, src.visible, src.layers, src.transform
	src.mu.RUnlock()

	dst.mu.Lock()
	dst.name, dst.visible, dst.layers, dst.transform = name, visible, layers, transform
	dst.mu.Unlock()
}
