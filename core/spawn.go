package core

import (
	"sync"
	"time"
)

// task is the runtime-internal representation of one spawned unit of work.
// The result type is erased at the spawn boundary; the closure routes the
// typed value into the task's JoinHandle.
type task struct {
	id   uint64
	poll func(cx *Context) bool

	// done is guarded by Runtime.mu. Once set, wakes for this task are
	// no-ops and queued entries for it are skipped.
	done bool

	// polls is touched only by the executor goroutine.
	polls     int
	spawnedAt time.Time
}

// Spawn submits f to the runtime as an independent task and returns a
// JoinHandle for its result. The task is polled on the runtime's driving
// goroutine alongside every other task; Spawn itself may be called from
// any goroutine, including from inside a running poll.
//
// The handle is optional: a task whose result nobody joins still runs to
// completion. If BlockOn returns while the task is unfinished, the task is
// abandoned and never polled again.
func Spawn[T any](rt *Runtime, f Future[T]) *JoinHandle[T] {
	h := &JoinHandle[T]{state: &joinState[T]{}}

	t := &task{
		id:        rt.nextTaskID.Add(1),
		spawnedAt: time.Now(),
	}
	t.poll = func(cx *Context) bool {
		v, ok := f.Poll(cx)
		if ok {
			h.state.complete(v)
		}
		return ok
	}

	rt.admit(t)
	rt.spawned.Add(1)
	rt.logger.Debug("task spawned", F("task", t.id))
	return h
}

// joinState is the rendezvous between a finished task and the handle
// waiting on it. Tasks complete on the executor goroutine while the handle
// may be polled from a different runtime's executor, hence the lock.
type joinState[T any] struct {
	mu    sync.Mutex
	value T
	done  bool
	waker Waker
}

func (s *joinState[T]) complete(v T) {
	s.mu.Lock()
	s.value = v
	s.done = true
	w := s.waker
	s.waker = Waker{}
	s.mu.Unlock()

	w.Wake()
}

// JoinHandle is a Future for the result of a spawned task. Polling it
// before the task finishes registers the caller's waker; the completing
// task fires that waker exactly once.
type JoinHandle[T any] struct {
	state *joinState[T]
	taken bool
}

// Poll implements Future. It panics if called again after the result has
// been delivered.
func (h *JoinHandle[T]) Poll(cx *Context) (T, bool) {
	if h.taken {
		panic("weft: poll of completed JoinHandle")
	}

	s := h.state
	s.mu.Lock()
	if s.done {
		v := s.value
		s.mu.Unlock()
		h.taken = true
		return v, true
	}
	s.waker = cx.Waker()
	s.mu.Unlock()

	var zero T
	return zero, false
}
