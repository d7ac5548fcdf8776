package core

// Future is the unit of suspendable work.
//
// A Future makes progress only when polled. Poll attempts to advance the
// work and returns (value, true) once it has completed, or (zero value,
// false) when it must wait for something.
//
// Contract: before returning false, a Future must have arranged for a
// Waker obtained from cx to be invoked once it is worth polling again
// (by registering it with a timer, a channel, a mutex wait slot, ...).
// Returning false without doing so suspends the task forever. The only
// exception is the synthetic bootstrap poll the Runtime itself performs
// when it first runs a task.
//
// Polling a Future again after it has completed is a programming error.
// The futures in this package treat it as fatal and panic, since no
// defined continuation exists past completion.
type Future[T any] interface {
	Poll(cx *Context) (T, bool)
}

// FutureFunc is an adapter that allows an ordinary function to be used as
// a Future. It is the canonical way to hand-write a resumable operation:
// keep the state machine's locals in the closure and switch on them each
// poll.
//
//	tick := 0
//	f := core.FutureFunc[int](func(cx *core.Context) (int, bool) {
//		tick++
//		if tick < 3 {
//			cx.Waker().Wake() // immediately reschedule ourselves
//			return 0, false
//		}
//		return tick, true
//	})
type FutureFunc[T any] func(cx *Context) (T, bool)

// Poll implements Future by calling f.
func (f FutureFunc[T]) Poll(cx *Context) (T, bool) { return f(cx) }

// =============================================================================
// Context: what a Future is polled with
// =============================================================================

// Context carries the notification handle for the task being polled and a
// reference to the Runtime driving it. A Context is only valid for the
// duration of the Poll call it is passed to; a Future that needs to be
// woken later must clone the Waker out of it, never the Context itself.
type Context struct {
	runtime *Runtime
	waker   Waker
}

// Waker returns the Waker bound to the task currently being polled.
// Copies of the returned value all wake the same task.
func (cx *Context) Waker() Waker { return cx.waker }

// Runtime returns the Runtime driving the current task. Futures use it to
// reach runtime-owned facilities such as the timer heap, and task bodies
// use it to spawn further tasks.
func (cx *Context) Runtime() *Runtime { return cx.runtime }
