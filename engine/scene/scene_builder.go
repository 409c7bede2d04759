package scene

import (
	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithCamera sets the scene camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithLights registers initial lights.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = append(s.lights, lights...)
	}
}

// WithFog sets the scene fog.
//
// Parameters:
//   - fog: the fog
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFog(fog light.Fog) SceneBuilderOption {
	return func(s *scene) {
		s.fog = fog
	}
}

// WithBackground sets the clear color.
//
// Parameters:
//   - c: RGBA clear color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(c [4]float32) SceneBuilderOption {
	return func(s *scene) {
		s.background = c
	}
}

// WithNodes attaches initial nodes to the root group.
//
// Parameters:
//   - nodes: the nodes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithNodes(nodes ...Node) SceneBuilderOption {
	return func(s *scene) {
		s.root.Add(nodes...)
	}
}

// WithTransformStore replaces the default transform store.
//
// Parameters:
//   - store: the store
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTransformStore(store TransformStore) SceneBuilderOption {
	return func(s *scene) {
		s.store = store
	}
}

// WithComputeWorkers sets the number of worker goroutines used to prepare world matrices.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}

// WithParallelThreshold sets the draw count at which matrix preparation moves onto the
// compute pool. Smaller draw lists are prepared inline.
//
// Parameters:
//   - n: the threshold
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParallelThreshold(n int) SceneBuilderOption {
	return func(s *scene) {
		s.parallelThreshold = n
	}
}
