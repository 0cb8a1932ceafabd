package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/wodforge/internal/engine"
	"github.com/claude/wodforge/internal/lifecycle"
	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
)

const testAPIKey = "test-key"

// memStore is an in-memory lifecycle.Store for handler tests.
type memStore struct {
	movements []models.Movement
	cadences  map[uuid.UUID]models.MovementCadence
	pool      map[uuid.UUID]models.PoolEntry
	templates map[uuid.UUID]models.WorkoutTemplate
	workouts  map[uuid.UUID]models.Workout
	results   []models.WorkoutResult
	progress  map[uuid.UUID]models.MovementProgress
	onboarded bool
}

func newMemStore() *memStore {
	return &memStore{
		cadences:  map[uuid.UUID]models.MovementCadence{},
		pool:      map[uuid.UUID]models.PoolEntry{},
		templates: map[uuid.UUID]models.WorkoutTemplate{},
		workouts:  map[uuid.UUID]models.Workout{},
		progress:  map[uuid.UUID]models.MovementProgress{},
	}
}

func (m *memStore) ListMovements(ctx context.Context) ([]models.Movement, error) {
	return m.movements, nil
}

func (m *memStore) ListMovementCadences(ctx context.Context) (map[uuid.UUID]models.MovementCadence, error) {
	return m.cadences, nil
}

func (m *memStore) UpsertMovementCadence(ctx context.Context, c models.MovementCadence) error {
	m.cadences[c.MovementID] = c
	return nil
}

func (m *memStore) ListPoolEntries(ctx context.Context) ([]models.PoolEntry, error) {
	out := make([]models.PoolEntry, 0, len(m.pool))
	for _, e := range m.pool {
		out = append(out, e)
	}
	return out, nil
}

func (m *memStore) GetPoolEntry(ctx context.Context, id uuid.UUID) (*models.PoolEntry, error) {
	e, ok := m.pool[id]
	if !ok {
		return nil, fmt.Errorf("pool entry %s: %w", id, engine.ErrNotFound)
	}
	return &e, nil
}

func (m *memStore) UpdatePoolEntry(ctx context.Context, id uuid.UUID, lastPerformed, updatedAt time.Time) error {
	e, ok := m.pool[id]
	if !ok {
		return fmt.Errorf("pool entry %s: %w", id, engine.ErrNotFound)
	}
	e.LastPerformed = &lastPerformed
	e.UpdatedAt = updatedAt
	m.pool[id] = e
	return nil
}

func (m *memStore) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	out := make([]models.WorkoutTemplate, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) GetTemplate(ctx context.Context, id uuid.UUID) (*models.WorkoutTemplate, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %s: %w", id, engine.ErrNotFound)
	}
	return &t, nil
}

func (m *memStore) InsertTemplate(ctx context.Context, t models.WorkoutTemplate) error {
	m.templates[t.ID] = t
	return nil
}

func (m *memStore) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.templates[id]; !ok {
		return fmt.Errorf("template %s: %w", id, engine.ErrNotFound)
	}
	delete(m.templates, id)
	return nil
}

func (m *memStore) UpdateTemplateUsage(ctx context.Context, id uuid.UUID, timesUsed int, lastUsed time.Time) error {
	t, ok := m.templates[id]
	if !ok {
		return fmt.Errorf("template %s: %w", id, engine.ErrNotFound)
	}
	t.TimesUsed = timesUsed
	t.LastUsed = &lastUsed
	m.templates[id] = t
	return nil
}

func (m *memStore) SaveWorkout(ctx context.Context, w models.Workout) error {
	m.workouts[w.ID] = w
	return nil
}

func (m *memStore) GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	w, ok := m.workouts[id]
	if !ok {
		return nil, fmt.Errorf("workout %s: %w", id, engine.ErrNotFound)
	}
	return &w, nil
}

func (m *memStore) ListWorkouts(ctx context.Context, limit int) ([]models.Workout, error) {
	out := make([]models.Workout, 0, len(m.workouts))
	for _, w := range m.workouts {
		out = append(out, w)
	}
	return out, nil
}

func (m *memStore) CompleteWorkout(ctx context.Context, id uuid.UUID, at time.Time, notes string) error {
	w, ok := m.workouts[id]
	if !ok {
		return fmt.Errorf("workout %s: %w", id, engine.ErrNotFound)
	}
	m.workouts[id] = w.WithCompletion(at, notes)
	return nil
}

func (m *memStore) GetUserProgress(ctx context.Context, userID int) (*models.UserProgress, error) {
	p := &models.UserProgress{UserID: userID, Movements: map[string]models.MovementProgress{}}
	for id, mp := range m.progress {
		p.Movements[id.String()] = mp
	}
	p.History = m.results
	p.TotalWorkouts = len(m.results)
	p.OnboardingComplete = m.onboarded
	return p, nil
}

func (m *memStore) AppendWorkoutResult(ctx context.Context, userID int, r models.WorkoutResult) error {
	m.results = append(m.results, r)
	return nil
}

func (m *memStore) UpsertMovementProgress(ctx context.Context, userID int, p models.MovementProgress) error {
	m.progress[p.MovementID] = p
	return nil
}

func (m *memStore) SetOnboardingComplete(ctx context.Context, userID int) error {
	m.onboarded = true
	return nil
}

func seedMovements(store *memStore) {
	groups := []models.MuscleGroup{
		models.MuscleLegs, models.MuscleChest, models.MuscleBack,
		models.MuscleShoulders, models.MuscleCore, models.MuscleGlutes,
	}
	for i, g := range groups {
		store.movements = append(store.movements, models.Movement{
			ID:           uuid.New(),
			Name:         fmt.Sprintf("Movement %d", i+1),
			Categories:   []models.Category{models.CategoryCompoundLift},
			Equipment:    []models.Equipment{models.EquipmentBarbell},
			MuscleGroups: []models.MuscleGroup{g},
			Difficulty:   models.DifficultyIntermediate,
			IsMain:       true,
		})
	}
}

func newTestServer(store *memStore) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr := lifecycle.New(store, engine.NewGenerator(nil), log)
	return New(store, mgr, testAPIKey, log)
}

func doJSON(t *testing.T, s *Server, method, path string, body any, withKey bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withKey {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestGenerateEndpoint verifies the full generation path: valid parameters
// produce a 201 with a saved workout.
func TestGenerateEndpoint(t *testing.T) {
	store := newMemStore()
	seedMovements(store)
	s := newTestServer(store)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/generate", map[string]any{
		"format":           "amrap",
		"intensity":        "medium",
		"duration_minutes": 20,
	}, true)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var w models.Workout
	if err := json.NewDecoder(rec.Body).Decode(&w); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if w.Format != models.FormatAMRAP {
		t.Errorf("format = %q, want amrap", w.Format)
	}
	if len(w.Movements) == 0 {
		t.Error("workout has no movements")
	}
	if _, ok := store.workouts[w.ID]; !ok {
		t.Error("workout was not saved")
	}
}

// TestGenerateRequiresAPIKey verifies mutations are gated on the key while
// reads are not.
func TestGenerateRequiresAPIKey(t *testing.T) {
	store := newMemStore()
	seedMovements(store)
	s := newTestServer(store)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/generate", map[string]any{
		"format": "amrap", "intensity": "medium", "duration_minutes": 20,
	}, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated generate: status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/movements", nil, false)
	if rec.Code != http.StatusOK {
		t.Errorf("unauthenticated read: status = %d, want 200", rec.Code)
	}
}

// TestListMovementsFilter verifies the query-parameter narrowing on the
// movement list, including cadence availability.
func TestListMovementsFilter(t *testing.T) {
	store := newMemStore()
	seedMovements(store)
	pullUp := models.Movement{
		ID:           uuid.New(),
		Name:         "Strict Pull-Up",
		Categories:   []models.Category{models.CategoryBodyweight},
		Equipment:    []models.Equipment{models.EquipmentPullUpBar},
		MuscleGroups: []models.MuscleGroup{models.MuscleBack},
		Difficulty:   models.DifficultyIntermediate,
	}
	store.movements = append(store.movements, pullUp)
	s := newTestServer(store)

	decode := func(rec *httptest.ResponseRecorder) []models.Movement {
		t.Helper()
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var out []models.Movement
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		return out
	}

	all := decode(doJSON(t, s, http.MethodGet, "/api/v1/movements", nil, false))
	if len(all) != 7 {
		t.Fatalf("unfiltered = %d movements, want 7", len(all))
	}

	// Only the pull-up bar offered: barbell movements drop out.
	got := decode(doJSON(t, s, http.MethodGet, "/api/v1/movements?equipment=pull_up_bar", nil, false))
	if len(got) != 1 || got[0].Name != "Strict Pull-Up" {
		t.Errorf("equipment filter = %+v, want just Strict Pull-Up", got)
	}

	got = decode(doJSON(t, s, http.MethodGet, "/api/v1/movements?main_only=true", nil, false))
	if len(got) != 6 {
		t.Errorf("main_only = %d movements, want 6", len(got))
	}

	rec := doJSON(t, s, http.MethodGet, "/api/v1/movements?categories=yoga", nil, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category: status = %d, want 400", rec.Code)
	}

	// Performed yesterday on a weekly cadence: hidden from the available view,
	// still present in the plain list.
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	store.cadences[pullUp.ID] = models.MovementCadence{
		MovementID: pullUp.ID, IntervalDays: 7, LastPerformed: &yesterday, Enabled: true,
	}
	got = decode(doJSON(t, s, http.MethodGet, "/api/v1/movements?available=true", nil, false))
	if len(got) != 6 {
		t.Errorf("available = %d movements, want 6", len(got))
	}
	for _, m := range got {
		if m.ID == pullUp.ID {
			t.Error("recently performed movement should not be available")
		}
	}
}

// TestMovementPerformed verifies the manual cadence stamp endpoint.
func TestMovementPerformed(t *testing.T) {
	store := newMemStore()
	seedMovements(store)
	s := newTestServer(store)
	mv := store.movements[0]

	rec := doJSON(t, s, http.MethodPost, "/api/v1/movements/"+mv.ID.String()+"/performed", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	cad, ok := store.cadences[mv.ID]
	if !ok || cad.LastPerformed == nil {
		t.Fatal("cadence was not stamped")
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/movements/"+uuid.NewString()+"/performed", nil, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown movement: status = %d, want 404", rec.Code)
	}
}

// TestGenerateErrorMapping verifies the status mapping: bad input is 400 and
// an over-constrained request is 422.
func TestGenerateErrorMapping(t *testing.T) {
	store := newMemStore() // deliberately empty
	s := newTestServer(store)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/generate", map[string]any{
		"format": "freestyle", "intensity": "medium", "duration_minutes": 20,
	}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/generate", map[string]any{
		"format": "amrap", "intensity": "medium", "duration_minutes": 20,
	}, true)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("no candidates: status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

// TestTemplateLifecycle walks create, get, generate-from, and delete through
// the HTTP surface.
func TestTemplateLifecycle(t *testing.T) {
	store := newMemStore()
	seedMovements(store)
	s := newTestServer(store)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/templates", map[string]any{
		"name":             "Morning Burner",
		"description":      "Short high intensity start",
		"format":           "emom",
		"intensity":        "high",
		"duration_minutes": 12,
	}, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var tpl models.WorkoutTemplate
	if err := json.NewDecoder(rec.Body).Decode(&tpl); err != nil {
		t.Fatal(err)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/templates/"+tpl.ID.String(), nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/templates/"+tpl.ID.String()+"/generate", nil, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate: status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if store.templates[tpl.ID].TimesUsed != 1 {
		t.Errorf("times_used = %d, want 1", store.templates[tpl.ID].TimesUsed)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/v1/templates/"+tpl.ID.String(), nil, true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/templates/"+tpl.ID.String(), nil, false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", rec.Code)
	}
}

// TestTemplateGenerateUnknownID verifies a missing template maps to 404.
func TestTemplateGenerateUnknownID(t *testing.T) {
	s := newTestServer(newMemStore())
	rec := doJSON(t, s, http.MethodPost, "/api/v1/templates/"+uuid.NewString()+"/generate", nil, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestInvalidID verifies a malformed uuid is a 400, not a 404.
func TestInvalidID(t *testing.T) {
	s := newTestServer(newMemStore())
	rec := doJSON(t, s, http.MethodGet, "/api/v1/workouts/not-a-uuid", nil, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestPoolEndpoints verifies listing availability, equipment filtering, and
// the take flow.
func TestPoolEndpoints(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store)

	entry := models.PoolEntry{
		ID:      uuid.New(),
		Enabled: true, CadenceDays: 7,
		Equipment: []models.Equipment{models.EquipmentKettlebell},
		Workout: models.Workout{
			ID: uuid.New(), Name: "Swing Ladder",
			Format: models.FormatLadder, Intensity: models.IntensityMedium,
			Movements:   []models.WorkoutMovement{{MovementID: uuid.New(), Name: "Kettlebell Swing", Reps: 10}},
			DurationMin: 15,
		},
	}
	store.pool[entry.ID] = entry

	rec := doJSON(t, s, http.MethodGet, "/api/v1/pool/available", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("available: status = %d", rec.Code)
	}
	var entries []models.PoolEntry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("available entries = %d, want 1", len(entries))
	}

	// Kettlebell not in the offered set: entry is filtered out.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/pool/for-equipment?equipment=barbell,box", nil, false)
	entries = nil
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("for-equipment barbell,box = %d entries, want 0", len(entries))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/pool/for-equipment?equipment=treadmill", nil, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown equipment: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/v1/pool/"+entry.ID.String()+"/take", nil, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("take: status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var w models.Workout
	if err := json.NewDecoder(rec.Body).Decode(&w); err != nil {
		t.Fatal(err)
	}
	if w.ID == entry.Workout.ID {
		t.Error("taken workout should have a fresh id")
	}
	if store.pool[entry.ID].LastPerformed == nil {
		t.Error("take should restart the cadence clock")
	}

	// Just taken: no longer available.
	rec = doJSON(t, s, http.MethodGet, "/api/v1/pool/available", nil, false)
	entries = nil
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("available after take = %d entries, want 0", len(entries))
	}
}

// TestCompleteWorkoutAndProgress verifies completion feeds the progress view.
func TestCompleteWorkoutAndProgress(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store)

	w := models.Workout{
		ID: uuid.New(), Name: "For Time Builder",
		Format: models.FormatForTime, Intensity: models.IntensityLow,
		Movements:   []models.WorkoutMovement{{MovementID: uuid.New(), Name: "Air Squat", Reps: 40}},
		DurationMin: 15,
	}
	store.workouts[w.ID] = w

	rec := doJSON(t, s, http.MethodPost, "/api/v1/workouts/"+w.ID.String()+"/complete", map[string]any{
		"score": "8:45", "notes": "unbroken",
	}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/progress", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("progress: status = %d", rec.Code)
	}
	var p models.UserProgress
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.TotalWorkouts != 1 {
		t.Errorf("total workouts = %d, want 1", p.TotalWorkouts)
	}
	if len(p.History) != 1 || p.History[0].Score != "8:45" {
		t.Errorf("history = %+v", p.History)
	}
}

// TestCompleteOnboarding verifies the first-run flag flip shows up in the
// progress view.
func TestCompleteOnboarding(t *testing.T) {
	store := newMemStore()
	s := newTestServer(store)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/progress/onboarding-complete", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/v1/progress", nil, false)
	var p models.UserProgress
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if !p.OnboardingComplete {
		t.Error("onboarding flag not set")
	}
}
