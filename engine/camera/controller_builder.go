package camera

// ControllerBuilderOption is a function that configures an orbit controller during construction.
type ControllerBuilderOption func(*orbitController)

// WithPosition sets the initial eye position.
//
// Parameters:
//   - position: world-space eye position
//
// Returns:
//   - ControllerBuilderOption: functional option to set the eye position
func WithPosition(position [3]float32) ControllerBuilderOption {
	return func(oc *orbitController) {
		oc.position = position
	}
}

// WithTarget sets the orbit pivot and look-at point.
//
// Parameters:
//   - target: world-space target position
//
// Returns:
//   - ControllerBuilderOption: functional option to set the target
func WithTarget(target [3]float32) ControllerBuilderOption {
	return func(oc *orbitController) {
		oc.target = target
	}
}

// WithEnabledFunc sets the predicate consulted before every orbit input.
// The application passes a closure over its orbit flag.
//
// Parameters:
//   - enabled: returns true while orbiting is allowed
//
// Returns:
//   - ControllerBuilderOption: functional option to set the enabled predicate
func WithEnabledFunc(enabled func() bool) ControllerBuilderOption {
	return func(oc *orbitController) {
		if enabled != nil {
			oc.enabled = enabled
		}
	}
}

// WithZoomBounds sets the zoom factor limits.
//
// Parameters:
//   - min: minimum zoom
//   - max: maximum zoom
//
// Returns:
//   - ControllerBuilderOption: functional option to set zoom bounds
func WithZoomBounds(min, max float32) ControllerBuilderOption {
	return func(oc *orbitController) {
		oc.minZoom = min
		oc.maxZoom = max
	}
}

// WithRotateSpeed sets the radians of orbit per dragged pixel.
//
// Parameters:
//   - speed: radians per pixel
//
// Returns:
//   - ControllerBuilderOption: functional option to set rotate speed
func WithRotateSpeed(speed float32) ControllerBuilderOption {
	return func(oc *orbitController) {
		oc.rotateSpeed = speed
	}
}
