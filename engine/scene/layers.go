package scene

// Layers is a 32-slot membership mask. A renderable belongs to every layer whose bit is set.
// New nodes start on layer 0 only.
type Layers uint32

// DefaultLayers is the mask assigned to newly created nodes.
const DefaultLayers Layers = 1

// Enable adds the node to layer l. Layers outside [0, 31] are ignored.
func (m *Layers) Enable(l int) {
	if l < 0 || l > 31 {
		return
	}
	*m |= 1 << uint(l)
}

// Disable removes the node from layer l. Layers outside [0, 31] are ignored.
func (m *Layers) Disable(l int) {
	if l < 0 || l > 31 {
		return
	}
	*m &^= 1 << uint(l)
}

// Has reports whether layer l is set.
func (m Layers) Has(l int) bool {
	if l < 0 || l > 31 {
		return false
	}
	return m&(1<<uint(l)) != 0
}

// Test reports whether the two masks share at least one layer.
func (m Layers) Test(other Layers) bool {
	return m&other != 0
}
