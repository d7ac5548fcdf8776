package core

import (
	"testing"
)

// TestTaskHistory_RecentReturnsNewestFirst verifies ring ordering
// Given: A history with capacity 3 that has seen 5 completions
// When: Recent is called
// Then: Only the 3 newest records remain, newest first
func TestTaskHistory_RecentReturnsNewestFirst(t *testing.T) {
	// Arrange
	h := newTaskHistory(3)
	for id := uint64(1); id <= 5; id++ {
		h.Add(TaskRecord{TaskID: id})
	}

	// Act
	recent := h.Recent(0)

	// Assert - Oldest two records were overwritten
	if len(recent) != 3 {
		t.Fatalf("Recent returned %d records, want 3", len(recent))
	}
	for i, want := range []uint64{5, 4, 3} {
		if recent[i].TaskID != want {
			t.Errorf("recent[%d].TaskID = %d, want %d", i, recent[i].TaskID, want)
		}
	}
}

// TestTaskHistory_RecentHonorsLimit verifies the limit parameter
// Given: A history holding 3 records
// When: Recent is called with limits below, at and above the count
// Then: The returned slice is clamped to the available records
func TestTaskHistory_RecentHonorsLimit(t *testing.T) {
	// Arrange
	h := newTaskHistory(5)
	for id := uint64(1); id <= 3; id++ {
		h.Add(TaskRecord{TaskID: id})
	}

	// Act & Assert
	if got := h.Recent(2); len(got) != 2 || got[0].TaskID != 3 {
		t.Errorf("Recent(2) = %v, want the 2 newest records", got)
	}
	if got := h.Recent(10); len(got) != 3 {
		t.Errorf("Recent(10) returned %d records, want 3", len(got))
	}
	if got := h.Recent(-1); len(got) != 3 {
		t.Errorf("Recent(-1) returned %d records, want 3", len(got))
	}
}

// TestTaskHistory_Last verifies the most-recent accessor
// Given: An empty history, then one with records
// When: Last is called
// Then: It reports absence first, then the newest record
func TestTaskHistory_Last(t *testing.T) {
	// Arrange
	h := newTaskHistory(2)

	// Act & Assert - Empty history has no last record
	if _, ok := h.Last(); ok {
		t.Error("Last on empty history = ok, want not ok")
	}

	h.Add(TaskRecord{TaskID: 1})
	h.Add(TaskRecord{TaskID: 2})
	h.Add(TaskRecord{TaskID: 3})

	last, ok := h.Last()
	if !ok {
		t.Fatal("Last after adds = not ok, want ok")
	}
	if last.TaskID != 3 {
		t.Errorf("Last().TaskID = %d, want 3", last.TaskID)
	}
}

// TestTaskHistory_NonPositiveCapacityUsesDefault verifies the constructor
// Given: Capacities of 0 and -5
// When: Histories are built
// Then: Both fall back to the default capacity
func TestTaskHistory_NonPositiveCapacityUsesDefault(t *testing.T) {
	for _, capacity := range []int{0, -5} {
		h := newTaskHistory(capacity)
		if len(h.items) != defaultTaskHistoryCapacity {
			t.Errorf("newTaskHistory(%d) capacity = %d, want %d",
				capacity, len(h.items), defaultTaskHistoryCapacity)
		}
	}
}
