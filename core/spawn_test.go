package core_test

import (
	"strings"
	"testing"
	"time"

	"github.com/weft-rt/weft/core"
)

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, got none", want)
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, want) {
			t.Fatalf("panic = %v, want message containing %q", r, want)
		}
	}()
	fn()
}

func TestJoinHandle_DeliversResultAfterCompletion(t *testing.T) {
	rt := core.NewRuntime()

	// The task finishes long before anything joins it; the handle must
	// still deliver the buffered result.
	h := core.Spawn(rt, core.Ready("answer"))
	core.BlockOn(rt, core.After(10*time.Millisecond))

	got := core.BlockOn(rt, h)

	if got != "answer" {
		t.Errorf("joined result = %q, want answer", got)
	}
}

func TestJoinHandle_SuspendsJoinerUntilTaskFinishes(t *testing.T) {
	rt := core.NewRuntime()
	delay := 25 * time.Millisecond

	h := core.Spawn(rt, core.Map(core.After(delay), func(time.Time) int { return 9 }))

	start := time.Now()
	got := core.BlockOn(rt, h)
	elapsed := time.Since(start)

	if got != 9 {
		t.Errorf("joined result = %d, want 9", got)
	}
	if elapsed < delay {
		t.Errorf("join completed after %v, want >= %v", elapsed, delay)
	}
}

func TestSpawn_TaskRunsWithoutJoin(t *testing.T) {
	rt := core.NewRuntime()

	ran := false
	core.Spawn(rt, core.Map(core.Ready(0), func(int) int {
		ran = true
		return 0
	}))

	// Nothing joins the task; driving the runtime is enough.
	core.BlockOn(rt, core.After(5*time.Millisecond))

	if !ran {
		t.Error("unjoined task did not run")
	}
	if got := rt.Stats().Completed; got != 1 {
		t.Errorf("stats.Completed = %d, want 1", got)
	}
}

func TestJoinHandle_PollAfterResultPanics(t *testing.T) {
	rt := core.NewRuntime()

	h := core.Spawn(rt, core.Ready(5))

	var caught any
	root := core.FutureFunc[int](func(cx *core.Context) (int, bool) {
		v, ok := h.Poll(cx)
		if !ok {
			return 0, false
		}
		func() {
			defer func() { caught = recover() }()
			h.Poll(cx)
		}()
		return v, true
	})

	got := core.BlockOn(rt, root)

	if got != 5 {
		t.Errorf("BlockOn = %d, want 5", got)
	}
	if caught == nil {
		t.Fatal("second poll of completed JoinHandle did not panic")
	}
	if msg, ok := caught.(string); !ok || !strings.Contains(msg, "completed JoinHandle") {
		t.Errorf("panic = %v, want message about completed JoinHandle", caught)
	}
}
