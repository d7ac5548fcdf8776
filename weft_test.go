package weft

import (
	"testing"
	"time"

	"github.com/weft-rt/weft/core"
)

// TestFacadeConstructorsReturnUsableInstances verifies top-level constructors
// Given: The package-level constructor re-exports
// When: Each constructor is called
// Then: Each returns a non-nil, working instance
func TestFacadeConstructorsReturnUsableInstances(t *testing.T) {
	// Act
	rt := NewRuntime()
	cfgRt := NewRuntimeWithConfig(DefaultRuntimeConfig())
	tx, rx := NewChannel[int]()
	m := NewMutex("guarded")
	d := After(time.Millisecond)

	// Assert
	if rt == nil {
		t.Fatal("NewRuntime() returned nil")
	}
	if cfgRt == nil {
		t.Fatal("NewRuntimeWithConfig() returned nil")
	}
	if tx == nil || rx == nil {
		t.Fatal("NewChannel() returned a nil handle")
	}
	if m == nil {
		t.Fatal("NewMutex() returned nil")
	}
	if d == nil {
		t.Fatal("After() returned nil")
	}

	tx.Close()
	rx.Close()
}

// TestRunDrivesFutureToCompletion verifies the single-call entry point
// Given: A future chaining a timer into a mapped result
// When: Run is called
// Then: It blocks until completion and returns the final value
func TestRunDrivesFutureToCompletion(t *testing.T) {
	// Arrange
	start := time.Now()
	f := Then(After(10*time.Millisecond), func(time.Time) Future[int] {
		return Ready(99)
	})

	// Act
	got := Run(f)

	// Assert
	if got != 99 {
		t.Errorf("Run result = %d, want 99", got)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("Run returned after %v, want at least 10ms", elapsed)
	}
}

// TestAliasesInteroperateWithCorePackage verifies the alias surface
// Given: Values built through the facade and through core directly
// When: They are mixed in the same calls
// Then: The aliases are interchangeable with the core types
func TestAliasesInteroperateWithCorePackage(t *testing.T) {
	// Arrange - A core future held through the facade alias
	var f Future[int] = core.Ready(7)
	rt := core.NewRuntime()

	// Act - Facade generics driving core values and the other way around
	h := Spawn(rt, f)
	got := core.BlockOn(rt, h)

	// Assert
	if got != 7 {
		t.Errorf("joined result = %d, want 7", got)
	}

	var stats core.RuntimeStats = rt.Stats()
	if stats.Completed != 1 {
		t.Errorf("stats.Completed = %d, want 1", stats.Completed)
	}
	if ErrReceiverClosed != core.ErrReceiverClosed {
		t.Error("ErrReceiverClosed alias does not match the core sentinel")
	}
}
