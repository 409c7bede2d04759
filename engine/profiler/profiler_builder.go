package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithUpdateInterval sets how often statistics are reported. Values <= 0 keep the default.
//
// Parameters:
//   - d: the report interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithUpdateInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithReporter replaces the log output with fn.
func WithReporter(fn func(s Stats)) ProfilerBuilderOption {
	return func(p *Profiler) {
		if fn != nil {
			p.report = fn
		}
	}
}
