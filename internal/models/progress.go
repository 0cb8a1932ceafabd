package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutResult is one completed workout in the user's history.
type WorkoutResult struct {
	WorkoutID   uuid.UUID `json:"workout_id"`
	Name        string    `json:"name"`
	Format      Format    `json:"format"`
	Intensity   Intensity `json:"intensity"`
	DurationMin int       `json:"duration_minutes"`
	CompletedAt time.Time `json:"completed_at"`
	Score       string    `json:"score,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// MovementProgress tracks personal bests for a single movement.
type MovementProgress struct {
	MovementID      uuid.UUID  `json:"movement_id"`
	Name            string     `json:"name"`
	BestWeightKg    *float64   `json:"best_weight_kg,omitempty"`
	BestReps        *int       `json:"best_reps,omitempty"`
	BestTimeSeconds *int       `json:"best_time_seconds,omitempty"`
	TimesPerformed  int        `json:"times_performed"`
	LastPerformed   *time.Time `json:"last_performed,omitempty"`
}

// Improve returns a copy of the progress entry updated with one more
// performance of the movement. Bests only ever move forward: a heavier
// weight, more reps, or a shorter time replaces the previous best.
func (p MovementProgress) Improve(wm WorkoutMovement, at time.Time) MovementProgress {
	out := p
	out.TimesPerformed++
	out.LastPerformed = &at
	if wm.WeightKg != nil && (out.BestWeightKg == nil || *wm.WeightKg > *out.BestWeightKg) {
		w := *wm.WeightKg
		out.BestWeightKg = &w
	}
	if wm.Reps > 0 && (out.BestReps == nil || wm.Reps > *out.BestReps) {
		r := wm.Reps
		out.BestReps = &r
	}
	if wm.TimeSeconds != nil && (out.BestTimeSeconds == nil || *wm.TimeSeconds < *out.BestTimeSeconds) {
		t := *wm.TimeSeconds
		out.BestTimeSeconds = &t
	}
	return out
}

// UserProgress is the per-user aggregate: workout history, per-movement
// bests, and running totals. It is assembled by the storage layer from the
// result and progress tables; the core only reads and returns snapshots.
type UserProgress struct {
	UserID             int                         `json:"user_id"`
	History            []WorkoutResult             `json:"history"`
	Movements          map[string]MovementProgress `json:"movements"`
	TotalWorkouts      int                         `json:"total_workouts"`
	TotalMinutes       int                         `json:"total_minutes"`
	OnboardingComplete bool                        `json:"onboarding_complete"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}
