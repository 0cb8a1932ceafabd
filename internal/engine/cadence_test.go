package engine

import (
	"testing"
	"time"

	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
)

func ts(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

// TestIsAvailableNeverPerformed verifies that an item with no lastPerformed
// timestamp is always available regardless of interval.
func TestIsAvailableNeverPerformed(t *testing.T) {
	asOf := ts(t, "2025-06-10T08:00:00Z")
	if !IsAvailable(nil, 7, asOf) {
		t.Error("never-performed item should be available")
	}
	if got := DaysUntilAvailable(nil, 7, asOf); got != 0 {
		t.Errorf("DaysUntilAvailable = %d, want 0", got)
	}
}

// TestIsAvailableDayBoundaries verifies the whole-day truncation rule: a
// partial day never counts, and availability flips exactly when the interval
// in full days has elapsed.
func TestIsAvailableDayBoundaries(t *testing.T) {
	asOf := ts(t, "2025-06-10T08:00:00Z")
	tests := []struct {
		name          string
		lastPerformed time.Time
		intervalDays  int
		want          bool
	}{
		{"five of seven days", asOf.AddDate(0, 0, -5), 7, false},
		{"eight of seven days", asOf.AddDate(0, 0, -8), 7, true},
		{"exactly seven days", asOf.AddDate(0, 0, -7), 7, true},
		{"seven days minus an hour", asOf.Add(-7*24*time.Hour + time.Hour), 7, false},
		{"one day interval, yesterday", asOf.AddDate(0, 0, -1), 1, true},
		{"one day interval, this morning", asOf.Add(-2 * time.Hour), 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lp := tt.lastPerformed
			if got := IsAvailable(&lp, tt.intervalDays, asOf); got != tt.want {
				t.Errorf("IsAvailable(%v, %d) = %v, want %v", lp, tt.intervalDays, got, tt.want)
			}
		})
	}
}

// TestDaysUntilAvailable verifies the remaining-days computation clamps at
// zero once the item is due.
func TestDaysUntilAvailable(t *testing.T) {
	asOf := ts(t, "2025-06-10T08:00:00Z")
	tests := []struct {
		name         string
		daysAgo      int
		intervalDays int
		want         int
	}{
		{"performed today", 0, 7, 7},
		{"two of seven", 2, 7, 5},
		{"due today", 7, 7, 0},
		{"overdue", 10, 7, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lp := asOf.AddDate(0, 0, -tt.daysAgo)
			if got := DaysUntilAvailable(&lp, tt.intervalDays, asOf); got != tt.want {
				t.Errorf("DaysUntilAvailable = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestMarkPerformedThenUnavailable verifies that marking an item performed
// makes it immediately unavailable for any positive interval.
func TestMarkPerformedThenUnavailable(t *testing.T) {
	now := ts(t, "2025-06-10T08:00:00Z")
	c := models.MovementCadence{MovementID: uuid.New(), IntervalDays: 2, Enabled: true}

	updated := c.MarkPerformed(now)
	if CadenceAvailable(updated, now) {
		t.Error("just-performed movement should not be available")
	}
	// Original snapshot untouched.
	if c.LastPerformed != nil {
		t.Error("MarkPerformed mutated the receiver")
	}
}

// TestPoolEntryAvailable covers the pool availability invariant: enabled
// entries become eligible once cadenceDays whole days have elapsed.
func TestPoolEntryAvailable(t *testing.T) {
	asOf := ts(t, "2025-06-10T08:00:00Z")
	fiveAgo := asOf.AddDate(0, 0, -5)
	eightAgo := asOf.AddDate(0, 0, -8)

	entry := models.PoolEntry{ID: uuid.New(), Enabled: true, CadenceDays: 7, LastPerformed: &fiveAgo}
	if PoolEntryAvailable(entry, asOf) {
		t.Error("entry performed 5 days ago with 7-day cadence should be unavailable")
	}

	entry.LastPerformed = &eightAgo
	if !PoolEntryAvailable(entry, asOf) {
		t.Error("entry performed 8 days ago with 7-day cadence should be available")
	}

	entry.Enabled = false
	if PoolEntryAvailable(entry, asOf) {
		t.Error("disabled entry should never be available")
	}
}
