package bloom

import "github.com/Carmen-Shannon/oxy-bloom/engine/scene"

// Layers is a renderable's layer membership mask.
type Layers = scene.Layers

// BloomLayer is the layer whose members keep their materials during the bloom pass.
const BloomLayer = 1

// Classifier decides which renderables glow.
type Classifier interface {
	// IsBloom reports whether r keeps its own material in the bloom pass.
	//
	// Parameters:
	//   - r: the renderable
	//
	// Returns:
	//   - bool: true if r glows
	IsBloom(r scene.Mesh) bool
}

// LayerClassifier selects renderables that are members of Layer.
type LayerClassifier struct {
	Layer int
}

var _ Classifier = LayerClassifier{}

// IsBloom tests r's layer mask against a mask holding only c.Layer.
func (c LayerClassifier) IsBloom(r scene.Mesh) bool {
	var mask Layers
	mask.Enable(c.Layer)
	return mask != 0 && r.Layers().Test(mask)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(r scene.Mesh) bool

// IsBloom calls f(r).
func (f ClassifierFunc) IsBloom(r scene.Mesh) bool {
	return f(r)
}
