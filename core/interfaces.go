package core

import (
	"time"
)

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting runtime execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods may be called from the executor goroutine and, for RecordWake and
// RecordQueueDepth, from any goroutine that holds a Waker or a Sender.
// Methods should be non-blocking and fast to avoid impacting poll latency.
type Metrics interface {
	// RecordPoll records one completed poll call.
	//
	// Parameters:
	// - target: "root" for the root future, "task" for a spawned task
	// - duration: how long the poll ran
	RecordPoll(target string, duration time.Duration)

	// RecordWake records one Wake invocation.
	//
	// Parameters:
	// - target: "root", "task", or "stale" for a wake that found its task
	//   already completed
	RecordWake(target string)

	// RecordPark records one park of the executor's driving goroutine.
	//
	// Parameters:
	// - duration: how long the worker was blocked
	// - timedOut: true when the park ended at a timer deadline rather
	//   than a wake
	RecordPark(duration time.Duration, timedOut bool)

	// RecordTimerFired records one fired timer.
	//
	// Parameters:
	// - lag: how far past its deadline the timer fired
	RecordTimerFired(lag time.Duration)

	// RecordQueueDepth records the ready-queue depth right after a task
	// was enqueued.
	//
	// Parameters:
	// - depth: the current number of tasks in the ready queue
	RecordQueueDepth(depth int)

	// RecordTaskCompleted records that a spawned task ran to completion.
	//
	// Parameters:
	// - polls: how many polls the task took from spawn to completion
	RecordTaskCompleted(polls int)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordPoll is a no-op.
func (m *NilMetrics) RecordPoll(target string, duration time.Duration) {
}

// RecordWake is a no-op.
func (m *NilMetrics) RecordWake(target string) {
}

// RecordPark is a no-op.
func (m *NilMetrics) RecordPark(duration time.Duration, timedOut bool) {
}

// RecordTimerFired is a no-op.
func (m *NilMetrics) RecordTimerFired(lag time.Duration) {
}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(depth int) {
}

// RecordTaskCompleted is a no-op.
func (m *NilMetrics) RecordTaskCompleted(polls int) {
}
