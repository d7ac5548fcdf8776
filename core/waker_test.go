package core_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/weft-rt/weft/core"
)

func TestWaker_ZeroValueWakeIsNoOp(t *testing.T) {
	var w core.Waker

	// A zero Waker belongs to no runtime and waking it must do nothing.
	w.Wake()
}

// TestWaker_ConcurrentWakesAreSafe hammers one task's waker from many
// goroutines while the task is pending. The run must complete and every
// wake must be absorbed without losing the final one that matters.
func TestWaker_ConcurrentWakesAreSafe(t *testing.T) {
	const goroutines = 8
	const wakesPerGoroutine = 100

	rt := core.NewRuntime()
	wakerCh := make(chan core.Waker, 1)
	var release atomic.Bool

	h := core.Spawn(rt, core.FutureFunc[int](func(cx *core.Context) (int, bool) {
		if release.Load() {
			return 42, true
		}
		select {
		case wakerCh <- cx.Waker():
		default:
		}
		return 0, false
	}))

	go func() {
		w := <-wakerCh
		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < wakesPerGoroutine; j++ {
					w.Wake()
				}
			}()
		}
		wg.Wait()
		release.Store(true)
		w.Wake()
	}()

	got := core.BlockOn(rt, h)

	if got != 42 {
		t.Errorf("task result = %d, want 42", got)
	}
	if wakes := rt.Stats().Wakes; wakes < goroutines*wakesPerGoroutine {
		t.Errorf("recorded %d wakes, want at least %d", wakes, goroutines*wakesPerGoroutine)
	}
}
