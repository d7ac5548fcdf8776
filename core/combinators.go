package core

// readyFuture completes on its first poll with a preset value.
type readyFuture[T any] struct {
	value T
	done  bool
}

// Ready returns a Future that is immediately complete with v. Useful as
// the terminal step of a Then chain and in tests.
func Ready[T any](v T) Future[T] {
	return &readyFuture[T]{value: v}
}

func (r *readyFuture[T]) Poll(cx *Context) (T, bool) {
	if r.done {
		panic("weft: poll of completed Ready")
	}
	r.done = true
	return r.value, true
}

// mapFuture applies fn to the inner future's result.
type mapFuture[A, B any] struct {
	inner Future[A]
	fn    func(A) B
}

// Map returns a Future that completes when f does, with fn applied to its
// result. Pending polls pass straight through to f, which keeps the waker
// discipline untouched.
func Map[A, B any](f Future[A], fn func(A) B) Future[B] {
	return &mapFuture[A, B]{inner: f, fn: fn}
}

func (m *mapFuture[A, B]) Poll(cx *Context) (B, bool) {
	v, ok := m.inner.Poll(cx)
	if !ok {
		var zero B
		return zero, false
	}
	return m.fn(v), true
}

// thenFuture chains a second future built from the first one's result.
type thenFuture[A, B any] struct {
	first  Future[A]
	make   func(A) Future[B]
	second Future[B]
}

// Then returns a Future that runs f to completion, feeds its result to fn,
// and then runs the future fn built. The continuation is polled in the
// same pass that completed f, so an immediately ready continuation costs
// no extra wake.
func Then[A, B any](f Future[A], fn func(A) Future[B]) Future[B] {
	return &thenFuture[A, B]{first: f, make: fn}
}

func (t *thenFuture[A, B]) Poll(cx *Context) (B, bool) {
	if t.second == nil {
		v, ok := t.first.Poll(cx)
		if !ok {
			var zero B
			return zero, false
		}
		t.second = t.make(v)
		t.first = nil
	}
	return t.second.Poll(cx)
}

// Either is the result of a Select: exactly one side is populated, the
// other is its zero value.
type Either[L, R any] struct {
	Left   L
	Right  R
	IsLeft bool
}

// canceler is implemented by futures that must give up a claim when they
// are abandoned before completing. Acquire is the important case: its
// ticket would otherwise keep its place in line and strand the lock.
type canceler interface {
	Cancel()
}

// selectFuture races two futures; left is polled first on every pass.
type selectFuture[L, R any] struct {
	left  Future[L]
	right Future[R]
	done  bool
}

// Select returns a Future that completes with whichever of left or right
// completes first. On completion the losing future is cancelled if it
// supports cancellation; otherwise it is simply abandoned, which every
// runtime primitive except Acquire tolerates at the cost of at most one
// stale wake.
func Select[L, R any](left Future[L], right Future[R]) Future[Either[L, R]] {
	return &selectFuture[L, R]{left: left, right: right}
}

func (s *selectFuture[L, R]) Poll(cx *Context) (Either[L, R], bool) {
	if s.done {
		panic("weft: poll of completed Select")
	}

	if v, ok := s.left.Poll(cx); ok {
		s.done = true
		cancelIfPossible(s.right)
		return Either[L, R]{Left: v, IsLeft: true}, true
	}
	if v, ok := s.right.Poll(cx); ok {
		s.done = true
		cancelIfPossible(s.left)
		return Either[L, R]{Right: v}, true
	}
	return Either[L, R]{}, false
}

func cancelIfPossible(f any) {
	if c, ok := f.(canceler); ok {
		c.Cancel()
	}
}
