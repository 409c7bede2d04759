package animation

// OrchestratorBuilderOption is a functional option for configuring an Orchestrator.
type OrchestratorBuilderOption func(o *orchestrator)

// WithChoreography replaces the default poses, timings and scroll bindings.
//
// Parameters:
//   - c: the choreography
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithChoreography(c Choreography) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.choreo = c
	}
}

// WithCloneCount overrides the size of the clone row.
func WithCloneCount(n int) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.choreo.CloneCount = max(n, 0)
	}
}
