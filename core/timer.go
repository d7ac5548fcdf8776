package core

import (
	"container/heap"
	"time"
)

// =============================================================================
// Timer heap
// =============================================================================

// timerEntry is one registered deadline with the waker to fire when it
// passes. Entries are owned by the runtime and ordered by deadline.
type timerEntry struct {
	deadline time.Time
	waker    Waker
	index    int // maintained by heap.Interface
}

// timerHeap is a min-heap of timer entries keyed on deadline, so the
// executor can find the nearest deadline in O(1) when deciding how long
// to park.
type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x interface{}) {
	entry := x.(*timerEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil // avoid memory leak
	entry.index = -1
	*h = old[:n-1]
	return entry
}

func (h timerHeap) Peek() *timerEntry {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

// addTimer registers w to be woken once deadline has passed. Timers are
// checked by the executor between polls and before parking; firing lag is
// therefore bounded by how long the current batch of polls runs.
func (rt *Runtime) addTimer(deadline time.Time, w Waker) {
	rt.mu.Lock()
	heap.Push(&rt.timers, &timerEntry{deadline: deadline, waker: w})
	rt.mu.Unlock()

	rt.timersAdded.Add(1)
	rt.logger.Debug("timer registered", F("deadline", deadline))
}

// fireDueTimers pops every entry whose deadline has passed and wakes it.
// Returns the duration until the nearest remaining deadline; bounded is
// false when no timers are left, in which case the worker may park without
// a timeout.
//
// Wakers run outside the runtime lock because each Wake retakes it.
func (rt *Runtime) fireDueTimers() (next time.Duration, bounded bool) {
	rt.mu.Lock()
	now := time.Now()
	var due []*timerEntry
	for rt.timers.Len() > 0 {
		entry := rt.timers.Peek()
		if entry.deadline.After(now) {
			next = entry.deadline.Sub(now)
			bounded = true
			break
		}
		heap.Pop(&rt.timers)
		due = append(due, entry)
	}
	rt.mu.Unlock()

	for _, entry := range due {
		rt.timersFired.Add(1)
		rt.metrics.RecordTimerFired(now.Sub(entry.deadline))
		entry.waker.Wake()
	}
	return next, bounded
}

// =============================================================================
// Delay future
// =============================================================================

// Delay is a Future that completes once its deadline has passed, yielding
// the time at which completion was observed. The deadline is absolute:
// a Delay built with After resolves its deadline on first poll, so the
// countdown starts when the delay is first awaited, not when it is built.
//
// A Delay registers exactly one timer entry per wait. Entries for delays
// that are abandoned (a losing Select arm, for instance) fire as stale
// wakes and cost at most a redundant poll.
type Delay struct {
	duration   time.Duration
	deadline   time.Time
	registered bool
	done       bool
}

// After returns a Delay that completes d after its first poll.
// Non-positive d completes on the first poll without registering a timer.
func After(d time.Duration) *Delay {
	return &Delay{duration: d}
}

// AtTime returns a Delay that completes once the absolute time t has
// passed.
func AtTime(t time.Time) *Delay {
	return &Delay{deadline: t}
}

// Deadline reports the absolute deadline. For After-built delays the value
// is zero until the first poll resolves it.
func (d *Delay) Deadline() time.Time {
	return d.deadline
}

// Poll implements Future. It panics if called again after completing.
func (d *Delay) Poll(cx *Context) (time.Time, bool) {
	if d.done {
		panic("weft: poll of completed Delay")
	}

	now := time.Now()
	if d.deadline.IsZero() {
		d.deadline = now.Add(d.duration)
	}
	if !now.Before(d.deadline) {
		d.done = true
		return now, true
	}
	if !d.registered {
		cx.Runtime().addTimer(d.deadline, cx.Waker())
		d.registered = true
	}
	return time.Time{}, false
}
