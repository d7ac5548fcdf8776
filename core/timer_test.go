package core_test

import (
	"testing"
	"time"

	"github.com/weft-rt/weft/core"
)

func TestDelay_CompletesAfterDeadline(t *testing.T) {
	rt := core.NewRuntime()
	d := 30 * time.Millisecond
	delay := core.After(d)

	start := time.Now()
	woke := core.BlockOn(rt, delay)
	elapsed := time.Since(start)

	// The deadline is a lower bound; a delay may complete late but never early.
	if elapsed < d {
		t.Errorf("BlockOn returned after %v, want >= %v", elapsed, d)
	}
	if woke.Before(delay.Deadline()) {
		t.Errorf("observed wake time %v is before deadline %v", woke, delay.Deadline())
	}
	if delay.Deadline().Before(start.Add(d)) {
		t.Errorf("deadline %v resolved before first poll, want >= %v", delay.Deadline(), start.Add(d))
	}
}

func TestDelay_ZeroDurationCompletesOnFirstPoll(t *testing.T) {
	rt := core.NewRuntime()

	core.BlockOn(rt, core.After(0))

	stats := rt.Stats()
	if stats.TimersRegistered != 0 {
		t.Errorf("stats.TimersRegistered = %d, want 0 (no timer for an expired delay)", stats.TimersRegistered)
	}
}

func TestDelay_AtTimeAbsoluteDeadline(t *testing.T) {
	rt := core.NewRuntime()
	target := time.Now().Add(25 * time.Millisecond)

	woke := core.BlockOn(rt, core.AtTime(target))

	if woke.Before(target) {
		t.Errorf("woke at %v, want >= %v", woke, target)
	}
}

func TestDelay_PastDeadlineCompletesImmediately(t *testing.T) {
	rt := core.NewRuntime()

	start := time.Now()
	core.BlockOn(rt, core.AtTime(start.Add(-time.Second)))
	elapsed := time.Since(start)

	if elapsed > 20*time.Millisecond {
		t.Errorf("past deadline took %v, want immediate completion", elapsed)
	}
	if got := rt.Stats().TimersRegistered; got != 0 {
		t.Errorf("stats.TimersRegistered = %d, want 0", got)
	}
}

// TestSleep_TwoSleepersShareOneThread verifies concurrent sleeping on the
// single executor goroutine: a slow task and a fast task spawned together
// must finish in deadline order and overlap their waits, so the whole run
// takes about the longer delay, not the sum.
func TestSleep_TwoSleepersShareOneThread(t *testing.T) {
	rt := core.NewRuntime()

	slowDelay := 80 * time.Millisecond
	fastDelay := 40 * time.Millisecond

	// order is appended from task polls and read after BlockOn; both
	// happen on this goroutine.
	var order []string
	track := func(name string, d time.Duration) core.Future[string] {
		return core.Map(core.After(d), func(time.Time) string {
			order = append(order, name)
			return name
		})
	}

	slow := core.Spawn(rt, track("slow", slowDelay))
	fast := core.Spawn(rt, track("fast", fastDelay))

	start := time.Now()
	core.BlockOn(rt, joinAll([]*core.JoinHandle[string]{slow, fast}))
	elapsed := time.Since(start)

	if len(order) != 2 || order[0] != "fast" || order[1] != "slow" {
		t.Errorf("completion order = %v, want [fast slow]", order)
	}
	if elapsed < slowDelay {
		t.Errorf("elapsed = %v, want >= %v", elapsed, slowDelay)
	}
	if elapsed >= slowDelay+fastDelay {
		t.Errorf("elapsed = %v, want < %v (sleeps must overlap, not run back to back)", elapsed, slowDelay+fastDelay)
	}
}

func TestTimers_FireInDeadlineOrder(t *testing.T) {
	rt := core.NewRuntime()

	// Spawn in scrambled order; completion must follow the deadlines.
	delays := []time.Duration{150, 30, 120, 60, 90}
	var order []time.Duration
	handles := make([]*core.JoinHandle[time.Duration], 0, len(delays))
	for _, d := range delays {
		d := d
		handles = append(handles, core.Spawn(rt, core.Map(core.After(d*time.Millisecond), func(time.Time) time.Duration {
			order = append(order, d)
			return d
		})))
	}

	core.BlockOn(rt, joinAll(handles))

	want := []time.Duration{30, 60, 90, 120, 150}
	if len(order) != len(want) {
		t.Fatalf("completed %d timers, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("completion order = %v, want %v", order, want)
			break
		}
	}
	if got := rt.Stats().TimersFired; got != int64(len(delays)) {
		t.Errorf("stats.TimersFired = %d, want %d", got, len(delays))
	}
}
