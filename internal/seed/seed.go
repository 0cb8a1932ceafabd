package seed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
)

// Store is the persistence surface the seeder needs.
type Store interface {
	InsertMovement(ctx context.Context, m models.Movement) (bool, error)
	UpsertMovementCadence(ctx context.Context, c models.MovementCadence) error
	ListMovements(ctx context.Context) ([]models.Movement, error)
	InsertPoolEntry(ctx context.Context, e models.PoolEntry) (bool, error)
}

// Seeder loads a spreadsheet export into the movement catalog and the
// workout pool.
type Seeder struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// New creates a Seeder.
func New(store Store, log *slog.Logger) *Seeder {
	return &Seeder{store: store, log: log, now: time.Now}
}

// Result summarizes one seeding run.
type Result struct {
	Movements   int // movements newly inserted
	PoolEntries int // pool entries newly inserted
	SkippedRows int // export rows that were not usable workouts
}

// repsByIntensity and durationByIntensity give pool workouts sensible
// defaults; the export carries no rep or duration columns.
var repsByIntensity = map[models.Intensity]int{
	models.IntensityHigh:   8,
	models.IntensityMedium: 12,
	models.IntensityLow:    15,
}

var durationByIntensity = map[models.Intensity]int{
	models.IntensityHigh:   15,
	models.IntensityMedium: 20,
	models.IntensityLow:    30,
}

// Run parses the export at path and inserts movements, default cadences, and
// pool entries. Movements that already exist are left untouched. With dryRun
// set, nothing is written; the result reports what a real run would insert.
func (s *Seeder) Run(ctx context.Context, path string, dryRun bool) (*Result, error) {
	raw, skipped, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	res := &Result{SkippedRows: skipped}
	now := s.now().UTC()

	// Collect unique movement names. A name seen as a main movement anywhere
	// is a main movement, even if other rows list it as accessory work.
	isMain := map[string]bool{}
	for _, w := range raw {
		isMain[w.MainMovement] = true
		for _, a := range w.Accessories {
			if _, ok := isMain[a]; !ok {
				isMain[a] = false
			}
		}
	}
	names := make([]string, 0, len(isMain))
	for name := range isMain {
		names = append(names, name)
	}
	sort.Strings(names)

	if dryRun {
		res.Movements = len(names)
		res.PoolEntries = len(raw)
		s.log.Info("seed dry run", "movements", res.Movements, "pool_entries", res.PoolEntries, "skipped_rows", res.SkippedRows)
		return res, nil
	}

	for _, name := range names {
		m := MovementFromName(name, isMain[name], now)
		inserted, err := s.store.InsertMovement(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("seeding movement %q: %w", name, err)
		}
		if !inserted {
			continue
		}
		res.Movements++
		if err := s.store.UpsertMovementCadence(ctx, models.DefaultCadence(m, now)); err != nil {
			return nil, fmt.Errorf("seeding cadence for %q: %w", name, err)
		}
	}

	// Re-read so pool workouts reference canonical ids, including movements
	// that predate this run.
	catalog, err := s.store.ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	byName := make(map[string]models.Movement, len(catalog))
	for _, m := range catalog {
		byName[m.Name] = m
	}

	for _, w := range raw {
		entry, err := s.poolEntry(w, byName, now)
		if err != nil {
			return nil, err
		}
		inserted, err := s.store.InsertPoolEntry(ctx, *entry)
		if err != nil {
			return nil, fmt.Errorf("seeding pool entry %q: %w", entry.Workout.Name, err)
		}
		if inserted {
			res.PoolEntries++
		}
	}

	s.log.Info("seed complete", "movements", res.Movements, "pool_entries", res.PoolEntries, "skipped_rows", res.SkippedRows)
	return res, nil
}

func (s *Seeder) poolEntry(w RawWorkout, byName map[string]models.Movement, now time.Time) (*models.PoolEntry, error) {
	reps := repsByIntensity[w.Intensity]
	duration := durationByIntensity[w.Intensity]

	var items []models.WorkoutMovement
	var equipment []models.Equipment
	seen := map[models.Equipment]bool{}

	addMovement := func(name string) error {
		m, ok := byName[name]
		if !ok {
			return fmt.Errorf("pool workout %q references unknown movement %q", w.MainMovement, name)
		}
		items = append(items, models.WorkoutMovement{
			MovementID: m.ID,
			Name:       m.Name,
			Reps:       reps,
		})
		for _, e := range m.Equipment {
			if e != models.EquipmentBodyweight && !seen[e] {
				seen[e] = true
				equipment = append(equipment, e)
			}
		}
		return nil
	}

	if err := addMovement(w.MainMovement); err != nil {
		return nil, err
	}
	for _, a := range w.Accessories {
		if err := addMovement(a); err != nil {
			return nil, err
		}
	}

	return &models.PoolEntry{
		ID: uuid.New(),
		Workout: models.Workout{
			ID:          uuid.New(),
			Name:        fmt.Sprintf("%s %s", w.MainMovement, w.Format.Label()),
			Description: fmt.Sprintf("%s day: %s around %s", w.Sheet, w.Format.Label(), w.MainMovement),
			Format:      w.Format,
			Intensity:   w.Intensity,
			Movements:   items,
			DurationMin: duration,
			CreatedAt:   now,
		},
		Enabled:     true,
		CadenceDays: models.DefaultCadenceDays(w.MainMovement),
		Equipment:   equipment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
