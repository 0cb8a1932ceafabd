// Package engine is the workout selection core: cadence evaluation,
// candidate filtering, and workout assembly. Everything here is a pure
// computation over in-memory snapshots; storage and transport live elsewhere.
package engine

import (
	"time"

	"github.com/claude/wodforge/internal/models"
)

// daysBetween returns the whole-day difference between two timestamps,
// truncating toward zero. A partial day never counts as a full one.
func daysBetween(asOf, since time.Time) int {
	return int(asOf.Sub(since) / (24 * time.Hour))
}

// IsAvailable decides cadence availability: an item never performed is always
// available; otherwise at least intervalDays whole days must have elapsed.
func IsAvailable(lastPerformed *time.Time, intervalDays int, asOf time.Time) bool {
	if lastPerformed == nil {
		return true
	}
	return daysBetween(asOf, *lastPerformed) >= intervalDays
}

// DaysUntilAvailable returns how many days remain before the item becomes
// eligible again, clamped at zero.
func DaysUntilAvailable(lastPerformed *time.Time, intervalDays int, asOf time.Time) int {
	if lastPerformed == nil {
		return 0
	}
	remaining := intervalDays - daysBetween(asOf, *lastPerformed)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PoolEntryAvailable applies the availability invariant to a pool entry:
// enabled, and past its cadence interval.
func PoolEntryAvailable(e models.PoolEntry, asOf time.Time) bool {
	return e.Enabled && IsAvailable(e.LastPerformed, e.CadenceDays, asOf)
}

// CadenceAvailable applies the availability invariant to a movement cadence.
// A movement with no cadence record is treated as available; that is the
// caller's concern, see FilterMovements.
func CadenceAvailable(c models.MovementCadence, asOf time.Time) bool {
	return c.Enabled && IsAvailable(c.LastPerformed, c.IntervalDays, asOf)
}
