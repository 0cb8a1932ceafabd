package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/wodforge/internal/engine"
	"github.com/claude/wodforge/internal/models"
	"github.com/jackc/pgx/v5"
)

// AppendWorkoutResult appends one completed workout to the user's history.
func (db *DB) AppendWorkoutResult(ctx context.Context, userID int, r models.WorkoutResult) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_results (user_id, workout_id, name, format, intensity,
		 duration_minutes, completed_at, score, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		userID, r.WorkoutID, r.Name, string(r.Format), string(r.Intensity),
		r.DurationMin, r.CompletedAt, r.Score, r.Notes)
	if err != nil {
		return fmt.Errorf("appending workout result: %w", err)
	}
	return nil
}

// UpsertMovementProgress writes a per-movement progress snapshot.
func (db *DB) UpsertMovementProgress(ctx context.Context, userID int, p models.MovementProgress) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO movement_progress (user_id, movement_id, name, best_weight_kg,
		 best_reps, best_time_seconds, times_performed, last_performed)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (user_id, movement_id) DO UPDATE
		 SET name = $3, best_weight_kg = $4, best_reps = $5, best_time_seconds = $6,
		     times_performed = $7, last_performed = $8`,
		userID, p.MovementID, p.Name, p.BestWeightKg, p.BestReps, p.BestTimeSeconds,
		p.TimesPerformed, p.LastPerformed)
	if err != nil {
		return fmt.Errorf("upserting movement progress: %w", err)
	}
	return nil
}

// SetOnboardingComplete flips the user's onboarding flag.
func (db *DB) SetOnboardingComplete(ctx context.Context, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE users SET onboarding_complete = TRUE WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("setting onboarding flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, engine.ErrNotFound)
	}
	return nil
}

// GetUserProgress assembles the user's aggregate: history, per-movement
// bests, and running totals. The aggregate is a read-time projection of the
// result and progress tables, never stored as a blob.
func (db *DB) GetUserProgress(ctx context.Context, userID int) (*models.UserProgress, error) {
	p := &models.UserProgress{
		UserID:    userID,
		Movements: make(map[string]models.MovementProgress),
	}

	err := db.Pool.QueryRow(ctx,
		`SELECT onboarding_complete, created_at FROM users WHERE id = $1`, userID).
		Scan(&p.OnboardingComplete, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT workout_id, name, format, intensity, duration_minutes, completed_at, score, notes
		 FROM workout_results
		 WHERE user_id = $1
		 ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r         models.WorkoutResult
			format    string
			intensity string
		)
		if err := rows.Scan(&r.WorkoutID, &r.Name, &format, &intensity,
			&r.DurationMin, &r.CompletedAt, &r.Score, &r.Notes); err != nil {
			return nil, fmt.Errorf("scanning workout result: %w", err)
		}
		if r.Format, err = models.ParseFormat(format); err != nil {
			return nil, err
		}
		if r.Intensity, err = models.ParseIntensity(intensity); err != nil {
			return nil, err
		}
		p.History = append(p.History, r)
		p.TotalWorkouts++
		p.TotalMinutes += r.DurationMin
		if r.CompletedAt.After(p.UpdatedAt) {
			p.UpdatedAt = r.CompletedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mpRows, err := db.Pool.Query(ctx,
		`SELECT movement_id, name, best_weight_kg, best_reps, best_time_seconds,
		 times_performed, last_performed
		 FROM movement_progress
		 WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying movement progress: %w", err)
	}
	defer mpRows.Close()

	for mpRows.Next() {
		var mp models.MovementProgress
		if err := mpRows.Scan(&mp.MovementID, &mp.Name, &mp.BestWeightKg, &mp.BestReps,
			&mp.BestTimeSeconds, &mp.TimesPerformed, &mp.LastPerformed); err != nil {
			return nil, fmt.Errorf("scanning movement progress: %w", err)
		}
		p.Movements[mp.MovementID.String()] = mp
	}
	return p, mpRows.Err()
}
