package animation

// StaggerBuilderOption is a functional option for configuring a CloneStagger.
type StaggerBuilderOption func(s *cloneStagger)

// WithStaggerDuration sets the length of every clone tween. Default is 1.
func WithStaggerDuration(d float32) StaggerBuilderOption {
	return func(s *cloneStagger) {
		s.duration = max(d, 0)
	}
}

// WithStaggerDelay sets the wait before the clones start moving. Default is 1.
func WithStaggerDelay(d float32) StaggerBuilderOption {
	return func(s *cloneStagger) {
		s.delay = max(d, 0)
	}
}

// WithStaggerEase sets the easing curve. Default is power2.inOut.
func WithStaggerEase(ease Ease) StaggerBuilderOption {
	return func(s *cloneStagger) {
		if ease != nil {
			s.ease = ease
		}
	}
}

// WithStaggerOnStart sets the callback fired once when the clones start moving.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - StaggerBuilderOption: option function to apply
func WithStaggerOnStart(fn func()) StaggerBuilderOption {
	return func(s *cloneStagger) {
		s.onStart = fn
	}
}

// WithStaggerWorkers sets how many pool workers render a large fan. Defaults to
// runtime.NumCPU()-1; 1 renders on the calling goroutine.
//
// Parameters:
//   - n: the worker count (minimum 1)
//
// Returns:
//   - StaggerBuilderOption: option function to apply
func WithStaggerWorkers(n int) StaggerBuilderOption {
	return func(s *cloneStagger) {
		s.workers = max(n, 1)
	}
}

// WithStaggerParallelThreshold sets the clone count at which rendering moves to the
// worker pool. Default is 16.
func WithStaggerParallelThreshold(n int) StaggerBuilderOption {
	return func(s *cloneStagger) {
		s.parallelThreshold = max(n, 1)
	}
}
