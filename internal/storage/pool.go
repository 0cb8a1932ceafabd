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

// InsertPoolEntry persists a pre-authored pool entry. Returns true if
// inserted, false if the id already exists.
func (db *DB) InsertPoolEntry(ctx context.Context, e models.PoolEntry) (bool, error) {
	workout, err := json.Marshal(e.Workout)
	if err != nil {
		return false, fmt.Errorf("encoding pool workout: %w", err)
	}
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_pool (id, workout, enabled, last_performed, cadence_days, equipment, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO NOTHING`,
		e.ID, workout, e.Enabled, e.LastPerformed, e.CadenceDays,
		models.EquipmentStrings(e.Equipment), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("inserting pool entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListPoolEntries retrieves the whole pool in creation order.
func (db *DB) ListPoolEntries(ctx context.Context) ([]models.PoolEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, workout, enabled, last_performed, cadence_days, equipment, created_at, updated_at
		 FROM workout_pool
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying pool: %w", err)
	}
	defer rows.Close()

	var result []models.PoolEntry
	for rows.Next() {
		e, err := scanPoolEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pool entry: %w", err)
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

// GetPoolEntry retrieves one pool entry. Returns engine.ErrNotFound for an
// unknown id.
func (db *DB) GetPoolEntry(ctx context.Context, id uuid.UUID) (*models.PoolEntry, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, workout, enabled, last_performed, cadence_days, equipment, created_at, updated_at
		 FROM workout_pool WHERE id = $1`, id)
	e, err := scanPoolEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("pool entry %s: %w", id, engine.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying pool entry: %w", err)
	}
	return e, nil
}

// UpdatePoolEntry stamps lastPerformed and updatedAt on a pool entry.
func (db *DB) UpdatePoolEntry(ctx context.Context, id uuid.UUID, lastPerformed, updatedAt time.Time) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_pool SET last_performed = $2, updated_at = $3 WHERE id = $1`,
		id, lastPerformed, updatedAt)
	if err != nil {
		return fmt.Errorf("updating pool entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pool entry %s: %w", id, engine.ErrNotFound)
	}
	return nil
}

func scanPoolEntry(row pgx.Row) (*models.PoolEntry, error) {
	var (
		e         models.PoolEntry
		workout   []byte
		equipment []string
	)
	err := row.Scan(&e.ID, &workout, &e.Enabled, &e.LastPerformed, &e.CadenceDays,
		&equipment, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(workout, &e.Workout); err != nil {
		return nil, fmt.Errorf("decoding pool workout: %w", err)
	}
	if e.Equipment, err = models.ParseEquipmentList(equipment); err != nil {
		return nil, err
	}
	return &e, nil
}
