package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
)

// InsertMovement inserts a movement row. Returns true if inserted, false if a
// movement with the same name already exists.
func (db *DB) InsertMovement(ctx context.Context, m models.Movement) (bool, error) {
	scaling, err := json.Marshal(orEmpty(m.ScalingOptions))
	if err != nil {
		return false, fmt.Errorf("encoding scaling options: %w", err)
	}
	guidelines, err := json.Marshal(orEmpty(m.Guidelines))
	if err != nil {
		return false, fmt.Errorf("encoding guidelines: %w", err)
	}

	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO movements (id, name, description, categories, equipment, muscle_groups,
		 difficulty, is_main, scaling_options, guidelines, media_refs, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 ON CONFLICT (name) DO NOTHING`,
		m.ID, m.Name, m.Description,
		models.CategoryStrings(m.Categories),
		models.EquipmentStrings(m.Equipment),
		models.MuscleGroupStrings(m.MuscleGroups),
		string(m.Difficulty), m.IsMain, scaling, guidelines, m.MediaRefs, m.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("inserting movement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListMovements retrieves the full movement library in name order.
func (db *DB) ListMovements(ctx context.Context) ([]models.Movement, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, description, categories, equipment, muscle_groups,
		 difficulty, is_main, scaling_options, guidelines, media_refs, created_at
		 FROM movements
		 ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying movements: %w", err)
	}
	defer rows.Close()

	var result []models.Movement
	for rows.Next() {
		var (
			m            models.Movement
			categories   []string
			equipment    []string
			muscleGroups []string
			difficulty   string
			scaling      []byte
			guidelines   []byte
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &categories, &equipment,
			&muscleGroups, &difficulty, &m.IsMain, &scaling, &guidelines,
			&m.MediaRefs, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		if m.Categories, err = models.ParseCategories(categories); err != nil {
			return nil, fmt.Errorf("movement %s: %w", m.Name, err)
		}
		if m.Equipment, err = models.ParseEquipmentList(equipment); err != nil {
			return nil, fmt.Errorf("movement %s: %w", m.Name, err)
		}
		if m.MuscleGroups, err = models.ParseMuscleGroups(muscleGroups); err != nil {
			return nil, fmt.Errorf("movement %s: %w", m.Name, err)
		}
		if m.Difficulty, err = models.ParseDifficulty(difficulty); err != nil {
			return nil, fmt.Errorf("movement %s: %w", m.Name, err)
		}
		if err := json.Unmarshal(scaling, &m.ScalingOptions); err != nil {
			return nil, fmt.Errorf("movement %s: decoding scaling options: %w", m.Name, err)
		}
		if err := json.Unmarshal(guidelines, &m.Guidelines); err != nil {
			return nil, fmt.Errorf("movement %s: decoding guidelines: %w", m.Name, err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// ListMovementCadences retrieves all cadence records keyed by movement id.
func (db *DB) ListMovementCadences(ctx context.Context) (map[uuid.UUID]models.MovementCadence, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT movement_id, interval_days, last_performed, enabled, updated_at
		 FROM movement_cadences`)
	if err != nil {
		return nil, fmt.Errorf("querying movement cadences: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]models.MovementCadence)
	for rows.Next() {
		var c models.MovementCadence
		if err := rows.Scan(&c.MovementID, &c.IntervalDays, &c.LastPerformed,
			&c.Enabled, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning movement cadence: %w", err)
		}
		result[c.MovementID] = c
	}
	return result, rows.Err()
}

// UpsertMovementCadence writes a cadence snapshot, replacing any previous row
// for the movement.
func (db *DB) UpsertMovementCadence(ctx context.Context, c models.MovementCadence) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO movement_cadences (movement_id, interval_days, last_performed, enabled, updated_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (movement_id) DO UPDATE
		 SET interval_days = $2, last_performed = $3, enabled = $4, updated_at = $5`,
		c.MovementID, c.IntervalDays, c.LastPerformed, c.Enabled, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting movement cadence: %w", err)
	}
	return nil
}

// orEmpty replaces a nil map with an empty one so JSONB columns never get
// SQL NULL.
func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
