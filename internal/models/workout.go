package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout is a concrete, executable workout: an ordered sequence of movements
// with format, intensity, and timing. Workouts come from the generator or
// from taking a pool entry; they are mutated only by whole-object replacement
// and marked done by setting CompletedAt.
type Workout struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Format         Format            `json:"format"`
	Intensity      Intensity         `json:"intensity"`
	Movements      []WorkoutMovement `json:"movements"`
	Rounds         *int              `json:"rounds,omitempty"`
	DurationMin    int               `json:"duration_minutes"`
	TimeCapMin     *int              `json:"time_cap_minutes,omitempty"`
	FormatSettings map[string]any    `json:"format_settings,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	Notes          string            `json:"notes,omitempty"`
}

// Completed reports whether the workout has been marked done.
func (w Workout) Completed() bool {
	return w.CompletedAt != nil
}

// WithCompletion returns a copy of the workout marked completed at the given
// time with the given notes. The receiver is not mutated.
func (w Workout) WithCompletion(at time.Time, notes string) Workout {
	out := w
	out.CompletedAt = &at
	if notes != "" {
		out.Notes = notes
	}
	return out
}
