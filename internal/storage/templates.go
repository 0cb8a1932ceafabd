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

const templateColumns = `id, name, description, format, intensity, duration_minutes,
	categories, equipment, main_only, times_used, last_used, metadata, created_at, updated_at`

// InsertTemplate persists a new workout template.
func (db *DB) InsertTemplate(ctx context.Context, t models.WorkoutTemplate) error {
	metadata, err := json.Marshal(orEmpty(t.Metadata))
	if err != nil {
		return fmt.Errorf("encoding template metadata: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_templates (`+templateColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		t.ID, t.Name, t.Description, string(t.Format), string(t.Intensity), t.DurationMin,
		models.CategoryStrings(t.Categories), models.EquipmentStrings(t.Equipment),
		t.MainOnly, t.TimesUsed, t.LastUsed, metadata, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by id. Returns engine.ErrNotFound when no
// such template exists.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID) (*models.WorkoutTemplate, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM workout_templates WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("template %s: %w", id, engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying template: %w", err)
	}
	return t, nil
}

// ListTemplates retrieves all templates, most recently created first.
func (db *DB) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+templateColumns+` FROM workout_templates ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

// UpdateTemplateUsage records one use of a template: counter and timestamp
// move together in a single statement so they can never diverge.
func (db *DB) UpdateTemplateUsage(ctx context.Context, id uuid.UUID, timesUsed int, lastUsed time.Time) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_templates
		 SET times_used = $2, last_used = $3, updated_at = $3
		 WHERE id = $1`,
		id, timesUsed, lastUsed)
	if err != nil {
		return fmt.Errorf("updating template usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, engine.ErrNotFound)
	}
	return nil
}

// DeleteTemplate removes a template. Returns engine.ErrNotFound for an
// unknown id.
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workout_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, engine.ErrNotFound)
	}
	return nil
}

func scanTemplate(row pgx.Row) (*models.WorkoutTemplate, error) {
	var (
		t          models.WorkoutTemplate
		format     string
		intensity  string
		categories []string
		equipment  []string
		metadata   []byte
	)
	err := row.Scan(&t.ID, &t.Name, &t.Description, &format, &intensity, &t.DurationMin,
		&categories, &equipment, &t.MainOnly, &t.TimesUsed, &t.LastUsed, &metadata,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if t.Format, err = models.ParseFormat(format); err != nil {
		return nil, err
	}
	if t.Intensity, err = models.ParseIntensity(intensity); err != nil {
		return nil, err
	}
	if t.Categories, err = models.ParseCategories(categories); err != nil {
		return nil, err
	}
	if t.Equipment, err = models.ParseEquipmentList(equipment); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metadata, &t.Metadata); err != nil {
		return nil, fmt.Errorf("decoding template metadata: %w", err)
	}
	return &t, nil
}
