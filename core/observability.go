package core

import "time"

// TaskRecord captures a completed task execution event.
type TaskRecord struct {
	TaskID     uint64
	Polls      int
	SpawnedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
}

// RuntimeStats represents runtime observability state for a Runtime.
// The live fields describe the moment the snapshot was taken; the counter
// fields are cumulative across the Runtime's lifetime.
type RuntimeStats struct {
	Running       bool
	State         string
	ReadyTasks    int
	LiveTasks     int
	PendingTimers int

	Polls            int64
	Wakes            int64
	Spawned          int64
	Completed        int64
	Parks            int64
	TimersRegistered int64
	TimersFired      int64
}
