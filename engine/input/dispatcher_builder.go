package input

// DispatcherBuilderOption is a functional option for configuring a Dispatcher.
type DispatcherBuilderOption func(d *dispatcher)

// WithQueueSize bounds the queue. Values <= 0 keep DefaultQueueSize.
//
// Parameters:
//   - n: the maximum number of queued events
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithQueueSize(n int) DispatcherBuilderOption {
	return func(d *dispatcher) {
		d.limit = n
	}
}
