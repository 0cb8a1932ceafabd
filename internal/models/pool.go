package models

import (
	"time"

	"github.com/google/uuid"
)

// PoolEntry is a pre-authored workout in the rotating pool, plus the
// scheduling metadata that decides when it may be selected again.
type PoolEntry struct {
	ID            uuid.UUID   `json:"id"`
	Workout       Workout     `json:"workout"`
	Enabled       bool        `json:"enabled"`
	LastPerformed *time.Time  `json:"last_performed,omitempty"`
	CadenceDays   int         `json:"cadence_days"`
	Equipment     []Equipment `json:"equipment,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ToWorkout projects the entry into a fresh executable Workout: scheduling
// metadata is stripped and a new identity and creation time are stamped.
// Identity inputs are passed in so the projection stays pure.
func (e PoolEntry) ToWorkout(id uuid.UUID, at time.Time) Workout {
	w := e.Workout
	w.ID = id
	w.CreatedAt = at
	w.CompletedAt = nil
	w.Notes = ""
	// Movement slice is shared read-only; copy so later edits to the taken
	// workout cannot reach back into the pool entry.
	w.Movements = append([]WorkoutMovement(nil), e.Workout.Movements...)
	return w
}

// MarkPerformed returns a copy with LastPerformed and UpdatedAt set to the
// given time. The receiver is not mutated, so readers holding the old
// snapshot are unaffected.
func (e PoolEntry) MarkPerformed(at time.Time) PoolEntry {
	out := e
	out.LastPerformed = &at
	out.UpdatedAt = at
	return out
}
