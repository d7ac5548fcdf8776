package core

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gammazero/deque"
)

// ErrReceiverClosed is returned by Sender.Send once the receiving side is
// gone. Sends that fail this way did not enqueue their message.
var ErrReceiverClosed = errors.New("weft: send on channel with closed receiver")

// Item is one step of a receive stream: OK true carries a message, OK
// false is end of stream, observed exactly once after every sender has
// closed and the buffer has drained.
type Item[T any] struct {
	Value T
	OK    bool
}

// chanState is the heart shared by all handles of one channel. Its mutex
// is independent of the runtime lock: senders on foreign goroutines only
// touch the runtime through the consumer waker, after releasing this lock.
type chanState[T any] struct {
	mu  sync.Mutex
	buf deque.Deque[T]

	// recv is the registered consumer waker. The zero Waker means none.
	// A waker is only ever parked here while the buffer is empty and at
	// least one sender is live; everything else clears it on its way out.
	recv Waker

	senders int
	closed  bool // receiver side is gone
}

// take clears and returns the registered consumer waker. Callers invoke
// the result after releasing the lock.
func (st *chanState[T]) take() Waker {
	w := st.recv
	st.recv = Waker{}
	return w
}

// NewChannel creates an unbounded multi-producer single-consumer channel
// and returns its first Sender and its only Receiver. Further senders come
// from Sender.Clone; messages from all of them are delivered to the one
// receiver in global send order.
func NewChannel[T any]() (*Sender[T], *Receiver[T]) {
	st := &chanState[T]{senders: 1}
	return &Sender[T]{state: st}, &Receiver[T]{state: st}
}

// =============================================================================
// Sender
// =============================================================================

// Sender is a producer handle. Handles are cloneable and individually
// closeable; the channel reaches end of stream once every handle has
// closed. Send and Close are safe to call from any goroutine.
type Sender[T any] struct {
	state  *chanState[T]
	closed atomic.Bool
}

// Send enqueues v and wakes the receiver if it is waiting. Send never
// blocks: the buffer is unbounded. Once the receiver has closed, Send
// returns ErrReceiverClosed and the message is discarded. Sending on a
// handle that was itself closed panics.
func (s *Sender[T]) Send(v T) error {
	if s.closed.Load() {
		panic("weft: send on closed Sender")
	}

	st := s.state
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return ErrReceiverClosed
	}
	st.buf.PushBack(v)
	w := st.take()
	st.mu.Unlock()

	w.Wake()
	return nil
}

// Clone returns a new independent Sender for the same channel.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed.Load() {
		panic("weft: clone of closed Sender")
	}

	st := s.state
	st.mu.Lock()
	st.senders++
	st.mu.Unlock()
	return &Sender[T]{state: st}
}

// Close retires this handle. When the last handle closes, a waiting
// receiver is woken so it can observe end of stream. Closing an already
// closed handle is a no-op.
func (s *Sender[T]) Close() {
	if s.closed.Swap(true) {
		return
	}

	st := s.state
	st.mu.Lock()
	st.senders--
	var w Waker
	if st.senders == 0 {
		w = st.take()
	}
	st.mu.Unlock()

	w.Wake()
}

// =============================================================================
// Receiver
// =============================================================================

// Receiver is the single consumer handle. It is not safe for concurrent
// use: one task owns it and awaits one receive at a time.
type Receiver[T any] struct {
	state  *chanState[T]
	closed bool
}

// Recv returns a Future for the next step of the stream: a message, or
// end of stream once all senders have closed and the buffer is drained.
func (r *Receiver[T]) Recv() *RecvFuture[T] {
	if r.closed {
		panic("weft: receive on closed Receiver")
	}
	return &RecvFuture[T]{state: r.state}
}

// Close retires the receiver. Buffered messages are discarded and every
// subsequent Send fails with ErrReceiverClosed. Closing twice is a no-op.
func (r *Receiver[T]) Close() {
	if r.closed {
		return
	}
	r.closed = true

	st := r.state
	st.mu.Lock()
	st.closed = true
	st.buf.Clear()
	st.recv = Waker{}
	st.mu.Unlock()
}

// RecvFuture is a single pending receive. It completes with the next
// message in send order, or with end of stream.
type RecvFuture[T any] struct {
	state *chanState[T]
	done  bool
}

// Poll implements Future. It panics if called again after completing, or
// if the receiver was closed while the receive was pending.
func (f *RecvFuture[T]) Poll(cx *Context) (Item[T], bool) {
	if f.done {
		panic("weft: poll of completed RecvFuture")
	}

	st := f.state
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		panic("weft: receive on closed Receiver")
	}
	if st.buf.Len() > 0 {
		v := st.buf.PopFront()
		st.recv = Waker{}
		st.mu.Unlock()
		f.done = true
		return Item[T]{Value: v, OK: true}, true
	}
	if st.senders == 0 {
		st.recv = Waker{}
		st.mu.Unlock()
		f.done = true
		return Item[T]{}, true
	}
	st.recv = cx.Waker()
	st.mu.Unlock()
	return Item[T]{}, false
}
