package engine

import (
	"time"

	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
)

// Constraints narrows a candidate set. Every field is optional: a zero value
// imposes no restriction. Across fields the semantics are AND; within a
// multi-valued field they are intersect-or-unconstrained.
type Constraints struct {
	// Equipment is the set the user has available. A candidate qualifies only
	// if every piece it requires is in this set (or it requires none).
	Equipment []models.Equipment
	// Categories a candidate must intersect.
	Categories []models.Category
	// MuscleGroups a candidate must intersect.
	MuscleGroups []models.MuscleGroup
	// MaxDifficulty is a ceiling; empty means no ceiling.
	MaxDifficulty models.Difficulty
	// MainOnly keeps only main movements.
	MainOnly bool
	// AsOf enables cadence filtering at this reference date; zero skips it.
	AsOf time.Time
}

// FilterMovements returns the movements passing every present constraint,
// preserving input order. Cadence availability is looked up in cadences by
// movement ID; movements without a cadence record are treated as available.
// Filtering is pure: the input slice is never modified.
func FilterMovements(movements []models.Movement, cadences map[uuid.UUID]models.MovementCadence, c Constraints) []models.Movement {
	out := make([]models.Movement, 0, len(movements))
	for _, m := range movements {
		if !equipmentSatisfied(m.Equipment, c.Equipment) {
			continue
		}
		if len(c.Categories) > 0 && !hasAnyCategory(m, c.Categories) {
			continue
		}
		if len(c.MuscleGroups) > 0 && !muscleGroupsIntersect(m.MuscleGroups, c.MuscleGroups) {
			continue
		}
		if c.MaxDifficulty != "" && m.Difficulty.Level() > c.MaxDifficulty.Level() {
			continue
		}
		if c.MainOnly && !m.IsMain {
			continue
		}
		if !c.AsOf.IsZero() {
			if cad, ok := cadences[m.ID]; ok && !CadenceAvailable(cad, c.AsOf) {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

// FilterPoolEntries returns the pool entries passing the equipment constraint
// and, when AsOf is set, the cadence availability invariant. Order preserved.
func FilterPoolEntries(entries []models.PoolEntry, c Constraints) []models.PoolEntry {
	out := make([]models.PoolEntry, 0, len(entries))
	for _, e := range entries {
		if !equipmentSatisfied(e.Equipment, c.Equipment) {
			continue
		}
		if !c.AsOf.IsZero() && !PoolEntryAvailable(e, c.AsOf) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// equipmentSatisfied reports whether every required piece is available.
// nil available means unconstrained; nil required always qualifies.
func equipmentSatisfied(required, available []models.Equipment) bool {
	if len(available) == 0 || len(required) == 0 {
		return true
	}
	for _, req := range required {
		found := false
		for _, have := range available {
			if req == have {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func hasAnyCategory(m models.Movement, wanted []models.Category) bool {
	for _, c := range wanted {
		if m.HasCategory(c) {
			return true
		}
	}
	return false
}

func muscleGroupsIntersect(a, b []models.MuscleGroup) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
