package core

// Wake targets, as reported to Metrics.RecordWake.
const (
	wakeTargetRoot  = "root"
	wakeTargetTask  = "task"
	wakeTargetStale = "stale"
)

// Waker is a cloneable, thread-safe handle that schedules exactly one task
// to be polled again. A Waker is a plain value: copying it is cloning it,
// and every copy wakes the same task.
//
// Wake may be called from any goroutine, any number of times. Waking a
// task that has already completed, or waking more than once before the
// task is next polled, is harmless: at worst it costs a redundant poll.
// The zero Waker is valid and wakes nothing.
type Waker struct {
	runtime *Runtime
	// task identifies the task to reschedule. nil means the root task of
	// the runtime, which has no queue entry of its own.
	task *task
}

// Wake reschedules the task this Waker is bound to and unparks the worker
// if it is parked.
//
// The whole protocol runs under the runtime's shared worker-state lock,
// so a wake can never slip between the executor's "nothing ready" check
// and the moment it actually parks.
func (w Waker) Wake() {
	rt := w.runtime
	if rt == nil {
		return
	}
	rt.wakes.Add(1)

	rt.mu.Lock()

	if w.task != nil && w.task.done {
		// Late wake for a finished task. Defined to be a no-op.
		rt.mu.Unlock()
		rt.metrics.RecordWake(wakeTargetStale)
		return
	}

	target := wakeTargetRoot
	depth := -1
	if w.task != nil {
		rt.ready.PushBack(w.task)
		target = wakeTargetTask
		depth = rt.ready.Len()
	} else {
		rt.rootReady = true
	}

	if rt.state == stateParked {
		// The worker is blocked (or about to block) on the unpark channel.
		// The buffered token is what makes this race-free: even if the
		// worker has not reached its select yet, the token waits for it.
		select {
		case rt.unpark <- struct{}{}:
		default:
		}
	}
	rt.state = stateReady
	rt.mu.Unlock()

	rt.metrics.RecordWake(target)
	if depth >= 0 {
		rt.metrics.RecordQueueDepth(depth)
	}
}
