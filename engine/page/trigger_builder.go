package page

// TriggerBuilderOption is a functional option for configuring a Trigger.
type TriggerBuilderOption func(t *trigger)

// WithStart sets the start edge, for example "top bottom" or "top 80%".
// The default is "top bottom": the section top meets the viewport bottom.
//
// Parameters:
//   - edge: "<element> <viewport>" with each side top, center, bottom, N% or Npx
//
// Returns:
//   - TriggerBuilderOption: option function to apply
func WithStart(edge string) TriggerBuilderOption {
	return func(t *trigger) {
		t.startRaw = edge
	}
}

// WithEnd sets the end edge. The default is "bottom top".
//
// Parameters:
//   - edge: "<element> <viewport>" with each side top, center, bottom, N% or Npx
//
// Returns:
//   - TriggerBuilderOption: option function to apply
func WithEnd(edge string) TriggerBuilderOption {
	return func(t *trigger) {
		t.endRaw = edge
	}
}

// WithOnEnter sets the callback fired when scrolling forward past the start.
func WithOnEnter(fn func()) TriggerBuilderOption {
	return func(t *trigger) {
		t.onEnter = fn
	}
}

// WithOnLeave sets the callback fired when scrolling forward past the end.
func WithOnLeave(fn func()) TriggerBuilderOption {
	return func(t *trigger) {
		t.onLeave = fn
	}
}

// WithOnEnterBack sets the callback fired when scrolling backward past the end.
func WithOnEnterBack(fn func()) TriggerBuilderOption {
	return func(t *trigger) {
		t.onEnterBack = fn
	}
}

// WithOnLeaveBack sets the callback fired when scrolling backward past the start.
func WithOnLeaveBack(fn func()) TriggerBuilderOption {
	return func(t *trigger) {
		t.onLeaveBack = fn
	}
}

// WithOnToggle sets one callback for all four crossings.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - TriggerBuilderOption: option function to apply
func WithOnToggle(fn func()) TriggerBuilderOption {
	return func(t *trigger) {
		t.onEnter, t.onLeave, t.onEnterBack, t.onLeaveBack = fn, fn, fn, fn
	}
}

// WithOnUpdate sets the callback fired whenever progress changes.
//
// Parameters:
//   - fn: receives the new progress in [0, 1]
//
// Returns:
//   - TriggerBuilderOption: option function to apply
func WithOnUpdate(fn func(progress float32)) TriggerBuilderOption {
	return func(t *trigger) {
		t.onUpdate = fn
	}
}
