// Package lifecycle owns workout templates and the rotating workout pool:
// creating templates, generating workouts from them, tracking usage, and
// feeding completion events back into cadence state.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/wodforge/internal/engine"
	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
)

// Store is the persistence collaborator. Implementations must return
// engine.ErrNotFound (wrapped or bare) when a referenced id does not exist,
// and must propagate storage failures unchanged.
type Store interface {
	ListMovements(ctx context.Context) ([]models.Movement, error)
	ListMovementCadences(ctx context.Context) (map[uuid.UUID]models.MovementCadence, error)
	UpsertMovementCadence(ctx context.Context, c models.MovementCadence) error

	ListPoolEntries(ctx context.Context) ([]models.PoolEntry, error)
	GetPoolEntry(ctx context.Context, id uuid.UUID) (*models.PoolEntry, error)
	UpdatePoolEntry(ctx context.Context, id uuid.UUID, lastPerformed, updatedAt time.Time) error

	ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*models.WorkoutTemplate, error)
	InsertTemplate(ctx context.Context, t models.WorkoutTemplate) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
	UpdateTemplateUsage(ctx context.Context, id uuid.UUID, timesUsed int, lastUsed time.Time) error

	SaveWorkout(ctx context.Context, w models.Workout) error
	GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error)
	ListWorkouts(ctx context.Context, limit int) ([]models.Workout, error)
	CompleteWorkout(ctx context.Context, id uuid.UUID, at time.Time, notes string) error

	GetUserProgress(ctx context.Context, userID int) (*models.UserProgress, error)
	AppendWorkoutResult(ctx context.Context, userID int, r models.WorkoutResult) error
	UpsertMovementProgress(ctx context.Context, userID int, p models.MovementProgress) error
	SetOnboardingComplete(ctx context.Context, userID int) error
}

// Manager coordinates templates, the workout pool, generation, and progress
// recording. All state lives behind the Store; the manager holds none of its
// own, so concurrent callers only contend in the database.
type Manager struct {
	store Store
	gen   *engine.Generator
	log   *slog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// New creates a Manager.
func New(store Store, gen *engine.Generator, log *slog.Logger) *Manager {
	return &Manager{
		store: store,
		gen:   gen,
		log:   log,
		now:   time.Now,
		newID: uuid.New,
	}
}

// TemplateFields are the caller-supplied fields for template creation.
type TemplateFields struct {
	Name        string
	Description string
	Format      models.Format
	Intensity   models.Intensity
	DurationMin int
	Categories  []models.Category
	Equipment   []models.Equipment
	MainOnly    bool
	Metadata    map[string]string
}

// CreateTemplate validates the fields, stamps identity and timestamps, and
// persists the new template with a zero usage counter.
func (m *Manager) CreateTemplate(ctx context.Context, f TemplateFields) (*models.WorkoutTemplate, error) {
	const op = "create template"
	if f.Name == "" {
		return nil, engine.Validationf(op, "name", "must not be empty")
	}
	if f.Description == "" {
		return nil, engine.Validationf(op, "description", "must not be empty")
	}
	if !f.Format.Valid() {
		return nil, engine.Validationf(op, "format", "unknown format %q", string(f.Format))
	}
	if !f.Intensity.Valid() {
		return nil, engine.Validationf(op, "intensity", "unknown intensity %q", string(f.Intensity))
	}
	if f.DurationMin <= 0 {
		return nil, engine.Validationf(op, "duration_minutes", "must be positive, got %d", f.DurationMin)
	}

	now := m.now().UTC()
	t := models.WorkoutTemplate{
		ID:          m.newID(),
		Name:        f.Name,
		Description: f.Description,
		Format:      f.Format,
		Intensity:   f.Intensity,
		DurationMin: f.DurationMin,
		Categories:  f.Categories,
		Equipment:   f.Equipment,
		MainOnly:    f.MainOnly,
		Metadata:    f.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.store.InsertTemplate(ctx, t); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.log.Info("template created", "id", t.ID, "name", t.Name, "format", t.Format)
	return &t, nil
}

// Overrides replace single template fields for one generation call. The
// template itself is never modified.
type Overrides struct {
	Format      *models.Format
	Intensity   *models.Intensity
	DurationMin *int
	Equipment   []models.Equipment
	Categories  []models.Category
}

// GenerateFromTemplate produces a workout from the template's stored
// parameters, then records the use. Usage is only ever recorded after
// generation and the workout save both succeed, so a failed generation never
// bumps the counter.
func (m *Manager) GenerateFromTemplate(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	return m.GenerateFromTemplateWithOverrides(ctx, id, Overrides{})
}

// GenerateFromTemplateWithOverrides is GenerateFromTemplate with per-call
// field replacement.
func (m *Manager) GenerateFromTemplateWithOverrides(ctx context.Context, id uuid.UUID, ov Overrides) (*models.Workout, error) {
	const op = "generate from template"
	t, err := m.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, id, err)
	}

	params := engine.GenerateParams{
		Format:      t.Format,
		Intensity:   t.Intensity,
		DurationMin: t.DurationMin,
		Constraints: engine.Constraints{
			Equipment:  t.Equipment,
			Categories: t.Categories,
			MainOnly:   t.MainOnly,
			AsOf:       m.now().UTC(),
		},
	}
	if ov.Format != nil {
		params.Format = *ov.Format
	}
	if ov.Intensity != nil {
		params.Intensity = *ov.Intensity
	}
	if ov.DurationMin != nil {
		params.DurationMin = *ov.DurationMin
	}
	if ov.Equipment != nil {
		params.Constraints.Equipment = ov.Equipment
	}
	if ov.Categories != nil {
		params.Constraints.Categories = ov.Categories
	}

	w, err := m.generate(ctx, params)
	if err != nil {
		return nil, err
	}

	used := t.WithUsage(m.now().UTC())
	if err := m.store.UpdateTemplateUsage(ctx, t.ID, used.TimesUsed, *used.LastUsed); err != nil {
		return nil, fmt.Errorf("%s %s: recording usage: %w", op, id, err)
	}
	m.log.Info("workout generated from template", "template_id", t.ID, "workout_id", w.ID, "times_used", used.TimesUsed)
	return w, nil
}

// Generate produces and saves a workout from ad-hoc parameters.
func (m *Manager) Generate(ctx context.Context, params engine.GenerateParams) (*models.Workout, error) {
	w, err := m.generate(ctx, params)
	if err != nil {
		return nil, err
	}
	m.log.Info("workout generated", "workout_id", w.ID, "format", w.Format, "movements", len(w.Movements))
	return w, nil
}

func (m *Manager) generate(ctx context.Context, params engine.GenerateParams) (*models.Workout, error) {
	movements, err := m.store.ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading movements: %w", err)
	}
	cadences, err := m.store.ListMovementCadences(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading movement cadences: %w", err)
	}

	w, err := m.gen.Generate(movements, cadences, params)
	if err != nil {
		return nil, err
	}
	if err := m.store.SaveWorkout(ctx, *w); err != nil {
		return nil, fmt.Errorf("saving generated workout: %w", err)
	}
	return w, nil
}

// DeleteTemplate removes a template by id.
func (m *Manager) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if err := m.store.DeleteTemplate(ctx, id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	m.log.Info("template deleted", "id", id)
	return nil
}

// ListAvailablePool returns the enabled pool entries whose cadence interval
// has elapsed as of the given date, in stored order.
func (m *Manager) ListAvailablePool(ctx context.Context, asOf time.Time) ([]models.PoolEntry, error) {
	entries, err := m.store.ListPoolEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pool: %w", err)
	}
	return engine.FilterPoolEntries(entries, engine.Constraints{AsOf: asOf}), nil
}

// PoolForEquipment returns available pool entries whose entire required
// equipment set is covered by the caller's available equipment. An entry
// requiring nothing always qualifies.
func (m *Manager) PoolForEquipment(ctx context.Context, available []models.Equipment, asOf time.Time) ([]models.PoolEntry, error) {
	entries, err := m.store.ListPoolEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pool: %w", err)
	}
	return engine.FilterPoolEntries(entries, engine.Constraints{Equipment: available, AsOf: asOf}), nil
}

// MarkMovementPerformed stamps a movement's cadence clock without a workout
// completion, for training done outside the app. A movement with no cadence
// record gets one from the name heuristic first.
func (m *Manager) MarkMovementPerformed(ctx context.Context, id uuid.UUID, at time.Time) error {
	const op = "mark movement performed"
	cadences, err := m.store.ListMovementCadences(ctx)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	cad, ok := cadences[id]
	if !ok {
		movements, err := m.store.ListMovements(ctx)
		if err != nil {
			return fmt.Errorf("%s %s: %w", op, id, err)
		}
		var name string
		found := false
		for _, mv := range movements {
			if mv.ID == id {
				name = mv.Name
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s %s: %w", op, id, engine.ErrNotFound)
		}
		cad = models.MovementCadence{
			MovementID:   id,
			IntervalDays: models.DefaultCadenceDays(name),
			Enabled:      true,
		}
	}
	if err := m.store.UpsertMovementCadence(ctx, cad.MarkPerformed(at.UTC())); err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	m.log.Info("movement performed", "movement_id", id, "at", at)
	return nil
}

// MarkPoolPerformed records that a pool entry was performed at the given
// time. Last write wins; both writers originate from the same user.
func (m *Manager) MarkPoolPerformed(ctx context.Context, id uuid.UUID, at time.Time) error {
	e, err := m.store.GetPoolEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("mark pool performed %s: %w", id, err)
	}
	updated := e.MarkPerformed(at.UTC())
	if err := m.store.UpdatePoolEntry(ctx, updated.ID, *updated.LastPerformed, updated.UpdatedAt); err != nil {
		return fmt.Errorf("mark pool performed %s: %w", id, err)
	}
	m.log.Info("pool entry performed", "id", id, "at", at)
	return nil
}

// TakeFromPool projects a pool entry into a fresh workout, saves it, and
// stamps the entry's lastPerformed so the cadence clock restarts.
func (m *Manager) TakeFromPool(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	e, err := m.store.GetPoolEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("take from pool %s: %w", id, err)
	}
	now := m.now().UTC()
	w := e.ToWorkout(m.newID(), now)
	if err := m.store.SaveWorkout(ctx, w); err != nil {
		return nil, fmt.Errorf("take from pool %s: saving workout: %w", id, err)
	}
	if err := m.store.UpdatePoolEntry(ctx, e.ID, now, now); err != nil {
		return nil, fmt.Errorf("take from pool %s: updating entry: %w", id, err)
	}
	m.log.Info("pool entry taken", "pool_id", id, "workout_id", w.ID)
	return &w, nil
}

// CompleteOnboarding marks the user's first-run setup as done. Idempotent.
func (m *Manager) CompleteOnboarding(ctx context.Context, userID int) error {
	if err := m.store.SetOnboardingComplete(ctx, userID); err != nil {
		return fmt.Errorf("complete onboarding for user %d: %w", userID, err)
	}
	m.log.Info("onboarding complete", "user_id", userID)
	return nil
}

// RecordResult marks a workout completed and folds it into the user's
// progress: a history entry, per-movement bests, and a fresh cadence stamp
// for every movement performed.
func (m *Manager) RecordResult(ctx context.Context, userID int, workoutID uuid.UUID, score, notes string) error {
	const op = "record result"
	w, err := m.store.GetWorkout(ctx, workoutID)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, workoutID, err)
	}

	now := m.now().UTC()
	if err := m.store.CompleteWorkout(ctx, workoutID, now, notes); err != nil {
		return fmt.Errorf("%s %s: %w", op, workoutID, err)
	}

	result := models.WorkoutResult{
		WorkoutID:   w.ID,
		Name:        w.Name,
		Format:      w.Format,
		Intensity:   w.Intensity,
		DurationMin: w.DurationMin,
		CompletedAt: now,
		Score:       score,
		Notes:       notes,
	}
	if err := m.store.AppendWorkoutResult(ctx, userID, result); err != nil {
		return fmt.Errorf("%s %s: appending history: %w", op, workoutID, err)
	}

	progress, err := m.store.GetUserProgress(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s %s: loading progress: %w", op, workoutID, err)
	}
	cadences, err := m.store.ListMovementCadences(ctx)
	if err != nil {
		return fmt.Errorf("%s %s: loading cadences: %w", op, workoutID, err)
	}

	for _, wm := range w.Movements {
		prev, ok := progress.Movements[wm.MovementID.String()]
		if !ok {
			prev = models.MovementProgress{MovementID: wm.MovementID, Name: wm.Name}
		}
		if err := m.store.UpsertMovementProgress(ctx, userID, prev.Improve(wm, now)); err != nil {
			return fmt.Errorf("%s %s: updating movement progress: %w", op, workoutID, err)
		}

		cad, ok := cadences[wm.MovementID]
		if !ok {
			cad = models.MovementCadence{
				MovementID:   wm.MovementID,
				IntervalDays: models.DefaultCadenceDays(wm.Name),
				Enabled:      true,
			}
		}
		if err := m.store.UpsertMovementCadence(ctx, cad.MarkPerformed(now)); err != nil {
			return fmt.Errorf("%s %s: updating cadence: %w", op, workoutID, err)
		}
	}

	m.log.Info("workout result recorded", "workout_id", workoutID, "user_id", userID, "movements", len(w.Movements))
	return nil
}
