package core

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gammazero/deque"
)

// =============================================================================
// Worker state machine
// =============================================================================

// workerState tracks what the executor's driving goroutine is doing.
// It decides how much work a wake notification has to perform: a parked
// worker must be unparked, a running or ready one only needs the flag flip.
type workerState int

const (
	// stateRunning: the worker is polling tasks and no wake has arrived
	// since it last started doing so.
	stateRunning workerState = iota

	// stateReady: a wake arrived; the worker must make another pass before
	// it is allowed to park.
	stateReady

	// stateParked: the worker is blocked (or about to block) waiting for
	// a wake or the nearest timer deadline.
	stateParked
)

func (s workerState) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateReady:
		return "ready"
	case stateParked:
		return "parked"
	default:
		return "unknown"
	}
}

// =============================================================================
// Runtime: the single-threaded cooperative executor
// =============================================================================

// Runtime drives cooperative tasks on a single goroutine: the one that
// calls BlockOn. It owns the ready queue, the timer heap and the worker
// state, all guarded by one mutex that Wakers share, so that a wake can
// never be lost between "nothing is ready" and the worker going to sleep.
//
// A Runtime is an explicit object rather than ambient state: any number of
// independent runtimes may coexist in one process, each driven by its own
// goroutine. Wakers, Send, Spawn and Cancel may be called from any
// goroutine; polling only ever happens on the BlockOn goroutine.
type Runtime struct {
	mu        sync.Mutex
	state     workerState
	rootReady bool
	running   bool
	ready     deque.Deque[*task]
	tasks     map[uint64]*task
	timers    timerHeap

	// unpark carries at most one token from a Waker to the parked worker.
	// Buffering means a token sent after the worker decided to park but
	// before it reached its select is not lost.
	unpark    chan struct{}
	parkTimer *time.Timer

	nextTaskID atomic.Uint64

	logger  Logger
	metrics Metrics
	history taskHistory

	// Cumulative counters, exposed through Stats().
	polls       atomic.Int64
	wakes       atomic.Int64
	spawned     atomic.Int64
	completed   atomic.Int64
	parks       atomic.Int64
	timersAdded atomic.Int64
	timersFired atomic.Int64
}

// NewRuntime creates a Runtime with the default configuration: no logging,
// no metrics, a 100-entry completion history.
func NewRuntime() *Runtime {
	return NewRuntimeWithConfig(DefaultRuntimeConfig())
}

// NewRuntimeWithConfig creates a Runtime with the given configuration.
// Nil config or nil fields fall back to the defaults.
func NewRuntimeWithConfig(config *RuntimeConfig) *Runtime {
	rt := &Runtime{
		tasks:  make(map[uint64]*task),
		unpark: make(chan struct{}, 1),
	}
	rt.parkTimer = time.NewTimer(time.Hour)
	rt.parkTimer.Stop()

	if config != nil {
		rt.logger = config.Logger
		rt.metrics = config.Metrics
		rt.history = newTaskHistory(config.HistorySize)
	} else {
		rt.history = newTaskHistory(0)
	}
	if rt.logger == nil {
		rt.logger = NewNoOpLogger()
	}
	if rt.metrics == nil {
		rt.metrics = &NilMetrics{}
	}

	return rt
}

// BlockOn runs the Runtime until f completes and returns f's result. It is
// the bridge from synchronous code into cooperative execution and is meant
// to be called once per driving goroutine.
//
// The loop polls the root future whenever its waker has fired (the first
// poll is the synthetic bootstrap), drains the ready queue of spawned
// tasks, fires due timers, and otherwise parks until a wake or the nearest
// deadline. Calling BlockOn while the Runtime is already running panics;
// sequential reuse of a Runtime is fine.
func BlockOn[T any](rt *Runtime, f Future[T]) T {
	rt.begin()
	defer rt.end()

	cx := &Context{runtime: rt, waker: Waker{runtime: rt}}

	for {
		if rt.takeRootReady() {
			start := time.Now()
			v, ok := f.Poll(cx)
			rt.polls.Add(1)
			rt.metrics.RecordPoll(wakeTargetRoot, time.Since(start))
			if ok {
				return v
			}
		}

		rt.runReadyTasks()
		rt.parkUntilReady()
	}
}

func (rt *Runtime) begin() {
	rt.mu.Lock()
	if rt.running {
		rt.mu.Unlock()
		panic("weft: BlockOn called on a Runtime that is already running")
	}
	rt.running = true
	rt.state = stateRunning
	rt.rootReady = true

	// A previous run may have left a park token behind.
	select {
	case <-rt.unpark:
	default:
	}
	rt.mu.Unlock()

	rt.logger.Info("runtime run started")
}

// end abandons whatever did not finish: remaining tasks are marked done so
// that late wakes for them become no-ops, and pending timers are dropped.
func (rt *Runtime) end() {
	rt.mu.Lock()
	for rt.ready.Len() > 0 {
		rt.ready.PopFront()
	}
	abandoned := len(rt.tasks)
	for id, t := range rt.tasks {
		t.done = true
		delete(rt.tasks, id)
	}
	rt.timers = nil
	rt.rootReady = false
	rt.state = stateRunning
	rt.running = false
	rt.mu.Unlock()

	rt.logger.Info("runtime run finished",
		F("polls", rt.polls.Load()),
		F("abandoned_tasks", abandoned))
}

func (rt *Runtime) takeRootReady() bool {
	rt.mu.Lock()
	ready := rt.rootReady
	rt.rootReady = false
	rt.mu.Unlock()
	return ready
}

// admit registers a freshly spawned task and makes it ready, unparking the
// worker if necessary. Same protocol as Waker.Wake, minus the staleness
// check a fresh task cannot need.
func (rt *Runtime) admit(t *task) {
	rt.mu.Lock()
	rt.tasks[t.id] = t
	rt.ready.PushBack(t)
	depth := rt.ready.Len()
	if rt.state == stateParked {
		select {
		case rt.unpark <- struct{}{}:
		default:
		}
	}
	rt.state = stateReady
	rt.mu.Unlock()

	rt.metrics.RecordQueueDepth(depth)
}

// runReadyTasks pops and polls spawned tasks until the queue is empty.
// A task that turned done while still queued (a duplicate wake landed
// before its final poll) is skipped, not re-polled.
func (rt *Runtime) runReadyTasks() {
	for {
		rt.mu.Lock()
		if rt.ready.Len() == 0 {
			rt.mu.Unlock()
			return
		}
		t := rt.ready.PopFront()
		if t.done {
			rt.mu.Unlock()
			continue
		}
		rt.mu.Unlock()

		rt.pollTask(t)
	}
}

func (rt *Runtime) pollTask(t *task) {
	cx := &Context{runtime: rt, waker: Waker{runtime: rt, task: t}}

	start := time.Now()
	completed := t.poll(cx)
	elapsed := time.Since(start)

	rt.polls.Add(1)
	t.polls++
	rt.metrics.RecordPoll(wakeTargetTask, elapsed)

	if !completed {
		// The task has arranged its own wake-up; nothing to keep here.
		return
	}

	rt.mu.Lock()
	t.done = true
	delete(rt.tasks, t.id)
	rt.mu.Unlock()

	finished := time.Now()
	rt.completed.Add(1)
	rt.metrics.RecordTaskCompleted(t.polls)
	rt.history.Add(TaskRecord{
		TaskID:     t.id,
		Polls:      t.polls,
		SpawnedAt:  t.spawnedAt,
		FinishedAt: finished,
		Duration:   finished.Sub(t.spawnedAt),
	})
	rt.logger.Debug("task completed", F("task", t.id), F("polls", t.polls))
}

// parkUntilReady blocks the worker until a wake arrives, firing due timers
// along the way. The state check and the transition to parked happen under
// the same lock Wakers take, which closes the lost-wakeup window; a wake
// that lands after the worker released the lock still gets through because
// the unpark token is buffered.
func (rt *Runtime) parkUntilReady() {
	timeout, bounded := rt.fireDueTimers()

	rt.mu.Lock()
	for rt.state != stateReady {
		rt.state = stateParked

		// Drop any stale token left by an earlier wake/timeout race, under
		// the lock so a genuine wake cannot be drained by mistake.
		select {
		case <-rt.unpark:
		default:
		}
		rt.mu.Unlock()

		start := time.Now()
		timedOut := rt.await(timeout, bounded)
		rt.parks.Add(1)
		rt.metrics.RecordPark(time.Since(start), timedOut)

		if timedOut {
			timeout, bounded = rt.fireDueTimers()
		}
		rt.mu.Lock()
	}
	rt.state = stateRunning
	rt.mu.Unlock()
}

// await blocks until an unpark token arrives or, if bounded, until the
// timeout elapses. Reports whether it timed out.
func (rt *Runtime) await(timeout time.Duration, bounded bool) bool {
	if !bounded {
		<-rt.unpark
		return false
	}

	rt.parkTimer.Reset(timeout)
	select {
	case <-rt.unpark:
		if !rt.parkTimer.Stop() {
			select {
			case <-rt.parkTimer.C:
			default:
			}
		}
		return false
	case <-rt.parkTimer.C:
		return true
	}
}

// =============================================================================
// Snapshots
// =============================================================================

// Stats returns a point-in-time snapshot of the Runtime's state and
// cumulative counters. Safe to call from any goroutine.
func (rt *Runtime) Stats() RuntimeStats {
	rt.mu.Lock()
	stats := RuntimeStats{
		Running:       rt.running,
		State:         rt.state.String(),
		ReadyTasks:    rt.ready.Len(),
		LiveTasks:     len(rt.tasks),
		PendingTimers: rt.timers.Len(),
	}
	if !rt.running {
		stats.State = "idle"
	}
	rt.mu.Unlock()

	stats.Polls = rt.polls.Load()
	stats.Wakes = rt.wakes.Load()
	stats.Spawned = rt.spawned.Load()
	stats.Completed = rt.completed.Load()
	stats.Parks = rt.parks.Load()
	stats.TimersRegistered = rt.timersAdded.Load()
	stats.TimersFired = rt.timersFired.Load()
	return stats
}

// History returns up to limit of the most recent task completion records,
// newest first. limit <= 0 means all retained records.
func (rt *Runtime) History(limit int) []TaskRecord {
	return rt.history.Recent(limit)
}
