package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MovementCadence is the per-movement repeat interval: how many days must
// pass after a movement was last performed before it is eligible again.
type MovementCadence struct {
	MovementID    uuid.UUID  `json:"movement_id"`
	IntervalDays  int        `json:"interval_days"`
	LastPerformed *time.Time `json:"last_performed,omitempty"`
	Enabled       bool       `json:"enabled"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// MarkPerformed returns a copy with LastPerformed and UpdatedAt set to the
// given time. The receiver is not mutated.
func (c MovementCadence) MarkPerformed(at time.Time) MovementCadence {
	out := c
	out.LastPerformed = &at
	out.UpdatedAt = at
	return out
}

// cadenceRule maps movement-name substrings to a default repeat interval.
type cadenceRule struct {
	substrings []string
	days       int
}

// defaultCadenceRules is evaluated in declaration order and the first rule
// with a matching substring wins. Order matters: "row" appears both as cardio
// (rowing) and in accessory names like "barbell row"; the cardio rule is
// declared first and therefore takes precedence.
var defaultCadenceRules = []cadenceRule{
	{[]string{"heavy", "max effort", "max-effort", "1rm"}, 2},
	{[]string{"squat", "deadlift", "bench", "press", "clean", "snatch", "jerk", "thruster"}, 7},
	{[]string{"run", "row", "bike", "ski", "swim", "jump rope", "double under", "sprint"}, 1},
	{[]string{"curl", "raise", "extension", "fly", "pull", "push", "lunge", "dip", "plank", "sit-up", "situp", "burpee"}, 3},
}

// fallbackCadenceDays applies when no rule matches: twice-weekly.
const fallbackCadenceDays = 3

// DefaultCadenceDays derives a default repeat interval from a movement name.
// The matching is fuzzy by design; callers wanting exact control should set
// an explicit interval instead of relying on this.
func DefaultCadenceDays(name string) int {
	lower := strings.ToLower(name)
	for _, rule := range defaultCadenceRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.days
			}
		}
	}
	return fallbackCadenceDays
}

// DefaultCadence builds a cadence for a movement using the name heuristic.
func DefaultCadence(m Movement, now time.Time) MovementCadence {
	return MovementCadence{
		MovementID:   m.ID,
		IntervalDays: DefaultCadenceDays(m.Name),
		Enabled:      true,
		UpdatedAt:    now,
	}
}
