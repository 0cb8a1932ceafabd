package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutTemplate is a reusable set of generation parameters. Each use
// produces a concrete Workout and bumps TimesUsed/LastUsed; the template
// itself otherwise never changes until deleted.
type WorkoutTemplate struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Format      Format            `json:"format"`
	Intensity   Intensity         `json:"intensity"`
	DurationMin int               `json:"duration_minutes"`
	Categories  []Category        `json:"categories,omitempty"`
	Equipment   []Equipment       `json:"equipment,omitempty"`
	MainOnly    bool              `json:"main_only,omitempty"`
	TimesUsed   int               `json:"times_used"`
	LastUsed    *time.Time        `json:"last_used,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// WithUsage returns a copy of the template with usage recorded at the given
// time. The receiver is not mutated; the storage layer persists the copy.
func (t WorkoutTemplate) WithUsage(at time.Time) WorkoutTemplate {
	out := t
	out.TimesUsed++
	out.LastUsed = &at
	out.UpdatedAt = at
	return out
}
