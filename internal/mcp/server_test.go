package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/wodforge/internal/engine"
	"github.com/claude/wodforge/internal/lifecycle"
	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeDataSource returns canned data and records the last call arguments.
type fakeDataSource struct {
	movements []models.Movement
	workout   *models.Workout

	lastParams     engine.GenerateParams
	lastTemplateID uuid.UUID
	lastOverrides  lifecycle.Overrides
	lastPoolID     uuid.UUID
	lastPerformed  time.Time
	lastLimit      int
}

func (f *fakeDataSource) ListMovements(ctx context.Context) ([]models.Movement, error) {
	return f.movements, nil
}

func (f *fakeDataSource) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	return nil, nil
}

func (f *fakeDataSource) Generate(ctx context.Context, params engine.GenerateParams) (*models.Workout, error) {
	f.lastParams = params
	return f.workout, nil
}

func (f *fakeDataSource) GenerateFromTemplate(ctx context.Context, id uuid.UUID, ov lifecycle.Overrides) (*models.Workout, error) {
	f.lastTemplateID = id
	f.lastOverrides = ov
	return f.workout, nil
}

func (f *fakeDataSource) ListAvailablePool(ctx context.Context, asOf time.Time) ([]models.PoolEntry, error) {
	return nil, nil
}

func (f *fakeDataSource) MarkPoolPerformed(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.lastPoolID = id
	f.lastPerformed = at
	return nil
}

func (f *fakeDataSource) TakeFromPool(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	f.lastPoolID = id
	return f.workout, nil
}

func (f *fakeDataSource) ListWorkouts(ctx context.Context, limit int) ([]models.Workout, error) {
	f.lastLimit = limit
	return nil, nil
}

func (f *fakeDataSource) GetProgress(ctx context.Context) (*models.UserProgress, error) {
	return &models.UserProgress{UserID: 1}, nil
}

func testHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func toolRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// TestGenerateWorkoutTool verifies argument plumbing from the tool call into
// generation parameters.
func TestGenerateWorkoutTool(t *testing.T) {
	ds := &fakeDataSource{workout: &models.Workout{ID: uuid.New(), Name: "AMRAP Balanced"}}
	h := testHandlers(ds)

	res, err := h.generateWorkout(context.Background(), toolRequest(map[string]any{
		"format":           "amrap",
		"intensity":        "medium",
		"duration_minutes": float64(20),
		"equipment":        "barbell, pull_up_bar",
		"main_only":        true,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool returned error: %+v", res)
	}

	if ds.lastParams.Format != models.FormatAMRAP {
		t.Errorf("format = %q, want amrap", ds.lastParams.Format)
	}
	if ds.lastParams.DurationMin != 20 {
		t.Errorf("duration = %d, want 20", ds.lastParams.DurationMin)
	}
	if len(ds.lastParams.Constraints.Equipment) != 2 {
		t.Errorf("equipment = %v, want 2 entries", ds.lastParams.Constraints.Equipment)
	}
	if !ds.lastParams.Constraints.MainOnly {
		t.Error("main_only not passed through")
	}
	if ds.lastParams.Constraints.AsOf.IsZero() {
		t.Error("cadence reference date should be set")
	}
}

// TestGenerateWorkoutToolMissingArgs verifies missing required parameters
// produce a tool error result, not a transport error.
func TestGenerateWorkoutToolMissingArgs(t *testing.T) {
	h := testHandlers(&fakeDataSource{})

	res, err := h.generateWorkout(context.Background(), toolRequest(map[string]any{
		"intensity": "medium", "duration_minutes": float64(20),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for missing format")
	}
}

// TestGenerateWorkoutToolBadEquipment verifies unknown equipment labels are
// rejected before reaching the generator.
func TestGenerateWorkoutToolBadEquipment(t *testing.T) {
	h := testHandlers(&fakeDataSource{})

	res, err := h.generateWorkout(context.Background(), toolRequest(map[string]any{
		"format": "amrap", "intensity": "medium", "duration_minutes": float64(20),
		"equipment": "treadmill",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for unknown equipment")
	}
}

// TestGenerateFromTemplateTool verifies id parsing and override plumbing.
func TestGenerateFromTemplateTool(t *testing.T) {
	ds := &fakeDataSource{workout: &models.Workout{ID: uuid.New()}}
	h := testHandlers(ds)
	id := uuid.New()

	res, err := h.generateFromTemplate(context.Background(), toolRequest(map[string]any{
		"template_id":      id.String(),
		"intensity":        "low",
		"duration_minutes": float64(30),
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool returned error: %+v", res)
	}
	if ds.lastTemplateID != id {
		t.Errorf("template id = %s, want %s", ds.lastTemplateID, id)
	}
	if ds.lastOverrides.Intensity == nil || *ds.lastOverrides.Intensity != models.IntensityLow {
		t.Errorf("intensity override = %v, want low", ds.lastOverrides.Intensity)
	}
	if ds.lastOverrides.DurationMin == nil || *ds.lastOverrides.DurationMin != 30 {
		t.Errorf("duration override = %v, want 30", ds.lastOverrides.DurationMin)
	}
	if ds.lastOverrides.Format != nil {
		t.Error("format override should be unset")
	}

	res, err = h.generateFromTemplate(context.Background(), toolRequest(map[string]any{
		"template_id": "not-a-uuid",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for malformed template_id")
	}
}

// TestMarkPoolPerformedTool verifies timestamp parsing including the
// date-only form.
func TestMarkPoolPerformedTool(t *testing.T) {
	ds := &fakeDataSource{}
	h := testHandlers(ds)
	id := uuid.New()

	res, err := h.markPoolPerformed(context.Background(), toolRequest(map[string]any{
		"pool_id":      id.String(),
		"performed_at": "2025-06-10",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool returned error: %+v", res)
	}
	if ds.lastPoolID != id {
		t.Errorf("pool id = %s, want %s", ds.lastPoolID, id)
	}
	want := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	if !ds.lastPerformed.Equal(want) {
		t.Errorf("performed at = %v, want %v", ds.lastPerformed, want)
	}
}

// TestSplitList verifies CSV argument splitting tolerates spaces and empties.
func TestSplitList(t *testing.T) {
	got := splitList("barbell, box,,kettlebell ")
	if len(got) != 3 || got[0] != "barbell" || got[1] != "box" || got[2] != "kettlebell" {
		t.Errorf("splitList = %v", got)
	}
	if splitList("") != nil {
		t.Error("empty input should yield nil")
	}
}

// TestParseFlexTime verifies both accepted timestamp forms.
func TestParseFlexTime(t *testing.T) {
	if _, err := parseFlexTime("2025-06-10T08:00:00Z"); err != nil {
		t.Errorf("RFC3339 rejected: %v", err)
	}
	if _, err := parseFlexTime("2025-06-10"); err != nil {
		t.Errorf("date-only rejected: %v", err)
	}
	if _, err := parseFlexTime("yesterday"); err == nil {
		t.Error("expected error for unparseable time")
	}
}
