package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/wodforge/internal/engine"
	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const workoutColumns = `id, name, description, format, intensity, movements, rounds,
	duration_minutes, time_cap_minutes, format_settings, created_at, completed_at, notes`

// SaveWorkout upserts a workout as a whole object; the row is replaced, never
// patched field by field.
func (db *DB) SaveWorkout(ctx context.Context, w models.Workout) error {
	movements, err := json.Marshal(w.Movements)
	if err != nil {
		return fmt.Errorf("encoding workout movements: %w", err)
	}
	settings, err := json.Marshal(w.FormatSettings)
	if err != nil {
		return fmt.Errorf("encoding format settings: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workouts (`+workoutColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 ON CONFLICT (id) DO UPDATE SET
		   name = $2, description = $3, format = $4, intensity = $5, movements = $6,
		   rounds = $7, duration_minutes = $8, time_cap_minutes = $9,
		   format_settings = $10, created_at = $11, completed_at = $12, notes = $13`,
		w.ID, w.Name, w.Description, string(w.Format), string(w.Intensity), movements,
		w.Rounds, w.DurationMin, w.TimeCapMin, settings, w.CreatedAt, w.CompletedAt, w.Notes)
	if err != nil {
		return fmt.Errorf("saving workout: %w", err)
	}
	return nil
}

// GetWorkout retrieves a workout by id. Returns engine.ErrNotFound for an
// unknown id.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id)
	w, err := scanWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("workout %s: %w", id, engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}
	return w, nil
}

// ListWorkouts retrieves up to limit workouts, newest first.
func (db *DB) ListWorkouts(ctx context.Context, limit int) ([]models.Workout, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT `+workoutColumns+` FROM workouts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

// CompleteWorkout sets the completion timestamp and notes on a workout.
func (db *DB) CompleteWorkout(ctx context.Context, id uuid.UUID, at time.Time, notes string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workouts SET completed_at = $2, notes = CASE WHEN $3 = '' THEN notes ELSE $3 END
		 WHERE id = $1`,
		id, at, notes)
	if err != nil {
		return fmt.Errorf("completing workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout %s: %w", id, engine.ErrNotFound)
	}
	return nil
}

func scanWorkout(row pgx.Row) (*models.Workout, error) {
	var (
		w         models.Workout
		format    string
		intensity string
		movements []byte
		settings  []byte
	)
	err := row.Scan(&w.ID, &w.Name, &w.Description, &format, &intensity, &movements,
		&w.Rounds, &w.DurationMin, &w.TimeCapMin, &settings, &w.CreatedAt,
		&w.CompletedAt, &w.Notes)
	if err != nil {
		return nil, err
	}
	if w.Format, err = models.ParseFormat(format); err != nil {
		return nil, err
	}
	if w.Intensity, err = models.ParseIntensity(intensity); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(movements, &w.Movements); err != nil {
		return nil, fmt.Errorf("decoding workout movements: %w", err)
	}
	if err := json.Unmarshal(settings, &w.FormatSettings); err != nil {
		return nil, fmt.Errorf("decoding format settings: %w", err)
	}
	return &w, nil
}
