package animation

// TweenBuilderOption is a functional option for configuring a Tween.
type TweenBuilderOption func(t *tween)

// WithEase sets the easing curve. A nil curve keeps DefaultEase.
//
// Parameters:
//   - ease: the curve
//
// Returns:
//   - TweenBuilderOption: option function to apply
func WithEase(ease Ease) TweenBuilderOption {
	return func(t *tween) {
		if ease != nil {
			t.ease = ease
		}
	}
}

// WithDelay sets the wait before the tween starts, in seconds.
//
// Parameters:
//   - delay: the delay; negative values are treated as 0
//
// Returns:
//   - TweenBuilderOption: option function to apply
func WithDelay(delay float32) TweenBuilderOption {
	return func(t *tween) {
		t.delay = max(delay, 0)
	}
}

// WithFromFunc reads the start value when the tween starts instead of using the value
// given at construction, so the tween picks up wherever the property was left.
//
// Parameters:
//   - get: returns the property's current value
//
// Returns:
//   - TweenBuilderOption: option function to apply
func WithFromFunc(get func() [3]float32) TweenBuilderOption {
	return func(t *tween) {
		t.capture = get
	}
}

// WithOnStart sets the callback fired when the tween passes its delay.
func WithOnStart(fn func()) TweenBuilderOption {
	return func(t *tween) {
		t.onStart = fn
	}
}

// WithOnUpdate sets the callback fired after every write with the un-eased progress.
func WithOnUpdate(fn func(progress float32)) TweenBuilderOption {
	return func(t *tween) {
		t.onUpdate = fn
	}
}

// WithOnComplete sets the callback fired when the tween reaches its end.
func WithOnComplete(fn func()) TweenBuilderOption {
	return func(t *tween) {
		t.onComplete = fn
	}
}
