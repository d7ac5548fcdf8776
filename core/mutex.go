package core

import (
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
)

// Mutex is an asynchronous, strictly fair mutual-exclusion lock protecting
// a value of type T. Fairness is by ticket: every Lock call takes the next
// ticket, and the lock is always granted to the smallest outstanding one,
// so no waiter can be overtaken.
//
// Suspended waiters hold no goroutine; they park as entries in an ordered
// tree and are woken one at a time. The internal lock is independent of
// the runtime lock, so tasks on different runtimes may share one Mutex.
type Mutex[T any] struct {
	mu sync.Mutex

	// waiters maps ticket to the waiter's registered Waker. A nil value is
	// a waiter that has not been polled yet. Removal of a ticket is the
	// grant: a waiter whose ticket is gone owns the lock.
	waiters *redblacktree.Tree

	next     uint64
	unlocked bool
	data     T
}

// NewMutex creates an unlocked Mutex guarding v.
func NewMutex[T any](v T) *Mutex[T] {
	return &Mutex[T]{
		waiters:  redblacktree.NewWith(utils.UInt64Comparator),
		unlocked: true,
		data:     v,
	}
}

// Lock claims the next ticket and returns the Acquire future that waits
// for it. If the mutex is free the grant is immediate and the first poll
// observes it; otherwise the caller queues behind every earlier ticket.
//
// An Acquire that will not be polled to completion must be cancelled, or
// the grant it may receive is stranded and the mutex deadlocks.
func (m *Mutex[T]) Lock() *Acquire[T] {
	m.mu.Lock()
	ticket := m.next
	m.next++
	if m.unlocked {
		m.unlocked = false
	} else {
		m.waiters.Put(ticket, nil)
	}
	m.mu.Unlock()

	return &Acquire[T]{mutex: m, ticket: ticket}
}

// release passes the lock to the smallest waiting ticket, or marks the
// mutex free when nobody waits. Shared by Guard.Unlock and the cancel
// path that loses the race against its own grant.
func (m *Mutex[T]) release() {
	m.mu.Lock()
	if m.unlocked {
		m.mu.Unlock()
		panic("weft: unlock of unlocked Mutex")
	}
	var w Waker
	if !m.waiters.Empty() {
		node := m.waiters.Left()
		if wk, ok := node.Value.(Waker); ok {
			w = wk
		}
		m.waiters.Remove(node.Key)
	} else {
		m.unlocked = true
	}
	m.mu.Unlock()

	w.Wake()
}

// Acquire is the Future side of Mutex.Lock. It completes with a Guard once
// the lock is granted to its ticket.
type Acquire[T any] struct {
	mutex     *Mutex[T]
	ticket    uint64
	granted   bool
	cancelled bool
}

// Poll implements Future. The grant is observed by absence: once the
// ticket is no longer in the wait tree the lock belongs to this waiter.
// Polling again after the Guard was produced, or after Cancel, panics.
func (a *Acquire[T]) Poll(cx *Context) (*Guard[T], bool) {
	if a.granted {
		panic("weft: poll of completed Acquire")
	}
	if a.cancelled {
		panic("weft: poll of cancelled Acquire")
	}

	m := a.mutex
	m.mu.Lock()
	if _, found := m.waiters.Get(a.ticket); !found {
		m.mu.Unlock()
		a.granted = true
		return &Guard[T]{mutex: m}, true
	}
	m.waiters.Put(a.ticket, cx.Waker())
	m.mu.Unlock()

	return nil, false
}

// Cancel withdraws this waiter. A cancelled Acquire loses its place in
// line and may never be polled again.
//
// Cancel is race-safe against the grant: if the lock was already handed to
// this ticket, Cancel releases it onward exactly as an unlock would, so a
// grant sent to a leaving waiter is never stranded. Cancelling after the
// Guard was produced is a no-op; so is cancelling twice.
func (a *Acquire[T]) Cancel() {
	if a.granted || a.cancelled {
		return
	}
	a.cancelled = true

	m := a.mutex
	m.mu.Lock()
	if _, found := m.waiters.Get(a.ticket); found {
		m.waiters.Remove(a.ticket)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	// The ticket is gone, so the lock was granted concurrently with the
	// cancellation. Pass it on.
	m.release()
}

// Guard is exclusive access to the value a Mutex protects. It is produced
// by a completed Acquire and holds the lock until Unlock.
type Guard[T any] struct {
	mutex    *Mutex[T]
	released bool
}

// Get returns the protected value. The pointer must not be retained past
// Unlock.
func (g *Guard[T]) Get() *T {
	if g.released {
		panic("weft: use of released Guard")
	}
	return &g.mutex.data
}

// Unlock releases the mutex, handing it to the earliest waiter if any.
// Unlocking twice panics.
func (g *Guard[T]) Unlock() {
	if g.released {
		panic("weft: unlock of released Guard")
	}
	g.released = true
	g.mutex.release()
}
