package bloom

import (
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
)

// MaterialCache holds the original materials of renderables darkened for one bloom pass.
// It is scratch state owned by a single Compositor and is empty outside a pass.
type MaterialCache struct {
	entries map[scene.NodeID]material.Material
}

// NewMaterialCache returns an empty cache.
//
// Returns:
//   - *MaterialCache: the cache
func NewMaterialCache() *MaterialCache {
	return &MaterialCache{entries: make(map[scene.NodeID]material.Material)}
}

// Store records m as the original material of the renderable id.
// A second Store for the same id keeps the first material so a renderable visited twice
// is never restored to the placeholder.
//
// Parameters:
//   - id: the renderable identity
//   - m: the original material
func (c *MaterialCache) Store(id scene.NodeID, m material.Material) {
	if _, ok := c.entries[id]; ok {
		return
	}
	c.entries[id] = m
}

// Take removes and returns the material stored for id.
//
// Parameters:
//   - id: the renderable identity
//
// Returns:
//   - material.Material: the stored material
//   - bool: false if nothing was stored for id
func (c *MaterialCache) Take(id scene.NodeID) (material.Material, bool) {
	m, ok := c.entries[id]
	if ok {
		delete(c.entries, id)
	}
	return m, ok
}

// Len returns the number of cached materials.
func (c *MaterialCache) Len() int {
	return len(c.entries)
}

// Clear drops every entry.
func (c *MaterialCache) Clear() {
	clear(c.entries)
}
