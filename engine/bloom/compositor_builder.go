package bloom

import (
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
)

// CompositorBuilderOption is a functional option for configuring a Compositor.
type CompositorBuilderOption func(*compositor)

// WithEnabledFunc sets the predicate consulted at the start of every Render.
//
// Parameters:
//   - fn: returns true when bloom should run
//
// Returns:
//   - CompositorBuilderOption: option function to apply
func WithEnabledFunc(fn func() bool) CompositorBuilderOption {
	return func(c *compositor) {
		if fn != nil {
			c.enabled = fn
		}
	}
}

// WithClassifier replaces the layer classifier.
//
// Parameters:
//   - cl: the classifier
//
// Returns:
//   - CompositorBuilderOption: option function to apply
func WithClassifier(cl Classifier) CompositorBuilderOption {
	return func(c *compositor) {
		if cl != nil {
			c.classifier = cl
		}
	}
}

// WithParams sets the initial bloom parameters, clamped.
//
// Parameters:
//   - p: the parameters
//
// Returns:
//   - CompositorBuilderOption: option function to apply
func WithParams(p renderer.BloomParams) CompositorBuilderOption {
	return func(c *compositor) {
		c.params = p.Clamp()
	}
}

// WithDarkMaterial replaces the placeholder swapped onto non-bloom renderables.
//
// Parameters:
//   - m: the placeholder material
//
// Returns:
//   - CompositorBuilderOption: option function to apply
func WithDarkMaterial(m material.Material) CompositorBuilderOption {
	return func(c *compositor) {
		if m != nil {
			c.dark = m
		}
	}
}
