package models

import (
	"time"

	"github.com/google/uuid"
)

// Movement is one entry in the movement library. Movements are immutable
// values: they are created by seeding, read everywhere, and replaced wholesale
// on edit rather than mutated in place.
type Movement struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description,omitempty"`
	Categories     []Category        `json:"categories"`
	Equipment      []Equipment       `json:"equipment"`
	MuscleGroups   []MuscleGroup     `json:"muscle_groups"`
	Difficulty     Difficulty        `json:"difficulty"`
	IsMain         bool              `json:"is_main"`
	ScalingOptions map[string]string `json:"scaling_options,omitempty"`
	Guidelines     map[string]string `json:"guidelines,omitempty"`
	MediaRefs      []string          `json:"media_refs,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// HasCategory reports whether the movement carries the given category.
func (m Movement) HasCategory(c Category) bool {
	for _, mc := range m.Categories {
		if mc == c {
			return true
		}
	}
	return false
}

// WorkoutMovement is one line item inside a concrete workout: a movement
// reference with the reps/weight/time prescribed for it. It has no lifecycle
// of its own; it is owned by its parent Workout.
type WorkoutMovement struct {
	MovementID    uuid.UUID `json:"movement_id"`
	Name          string    `json:"name"`
	Reps          int       `json:"reps"`
	WeightKg      *float64  `json:"weight_kg,omitempty"`
	TimeSeconds   *int      `json:"time_seconds,omitempty"`
	ScalingOption string    `json:"scaling_option,omitempty"`
}
