package transform

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(c *controller)

// WithStep sets the initial nudge step. It is clamped to [MinStep, MaxStep].
//
// Parameters:
//   - step: the step
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithStep(step float32) ControllerBuilderOption {
	return func(c *controller) {
		c.step = step
	}
}

// WithSnapValues replaces the snap grid sizes. Non-positive values keep the default for
// that kind.
//
// Parameters:
//   - v: the grid sizes
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithSnapValues(v SnapValues) ControllerBuilderOption {
	return func(c *controller) {
		if v.Translation > 0 {
			c.values.Translation = v.Translation
		}
		if v.Rotation > 0 {
			c.values.Rotation = v.Rotation
		}
		if v.Scale > 0 {
			c.values.Scale = v.Scale
		}
	}
}

// WithMode sets the initial mode. Translate is the default.
func WithMode(m Mode) ControllerBuilderOption {
	return func(c *controller) {
		if m.valid() {
			c.mode = m
		}
	}
}
