package core

// =============================================================================
// RuntimeConfig: Configuration for Runtime
// =============================================================================

// RuntimeConfig holds configuration options for a Runtime.
// All fields are optional; if not provided, default implementations will be used.
type RuntimeConfig struct {
	// Logger receives runtime lifecycle and task events. Defaults to NoOpLogger.
	Logger Logger

	// Metrics is called to record runtime execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// HistorySize is the number of task completion records to retain.
	// Values below 1 fall back to the default of 100.
	HistorySize int
}

// DefaultRuntimeConfig returns a config with default implementations.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Logger:      NewNoOpLogger(),
		Metrics:     &NilMetrics{},
		HistorySize: defaultTaskHistoryCapacity,
	}
}
