package mcp

import (
	"context"
	"time"

	"github.com/claude/wodforge/internal/engine"
	"github.com/claude/wodforge/internal/lifecycle"
	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. Local (direct database
// access) and HTTPClient (remote via REST API) both satisfy this interface.
type DataSource interface {
	ListMovements(ctx context.Context) ([]models.Movement, error)
	ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error)
	Generate(ctx context.Context, params engine.GenerateParams) (*models.Workout, error)
	GenerateFromTemplate(ctx context.Context, id uuid.UUID, ov lifecycle.Overrides) (*models.Workout, error)
	ListAvailablePool(ctx context.Context, asOf time.Time) ([]models.PoolEntry, error)
	MarkPoolPerformed(ctx context.Context, id uuid.UUID, at time.Time) error
	TakeFromPool(ctx context.Context, id uuid.UUID) (*models.Workout, error)
	ListWorkouts(ctx context.Context, limit int) ([]models.Workout, error)
	GetProgress(ctx context.Context) (*models.UserProgress, error)
}

// Local implements DataSource against the lifecycle manager and store
// directly, for running the MCP server in the same process as the database.
type Local struct {
	store lifecycle.Store
	mgr   *lifecycle.Manager
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal creates a Local data source.
func NewLocal(store lifecycle.Store, mgr *lifecycle.Manager) *Local {
	return &Local{store: store, mgr: mgr}
}

func (l *Local) ListMovements(ctx context.Context) ([]models.Movement, error) {
	return l.store.ListMovements(ctx)
}

func (l *Local) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	return l.store.ListTemplates(ctx)
}

func (l *Local) Generate(ctx context.Context, params engine.GenerateParams) (*models.Workout, error) {
	return l.mgr.Generate(ctx, params)
}

func (l *Local) GenerateFromTemplate(ctx context.Context, id uuid.UUID, ov lifecycle.Overrides) (*models.Workout, error) {
	return l.mgr.GenerateFromTemplateWithOverrides(ctx, id, ov)
}

func (l *Local) ListAvailablePool(ctx context.Context, asOf time.Time) ([]models.PoolEntry, error) {
	return l.mgr.ListAvailablePool(ctx, asOf)
}

func (l *Local) MarkPoolPerformed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return l.mgr.MarkPoolPerformed(ctx, id, at)
}

func (l *Local) TakeFromPool(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	return l.mgr.TakeFromPool(ctx, id)
}

func (l *Local) ListWorkouts(ctx context.Context, limit int) ([]models.Workout, error) {
	return l.store.ListWorkouts(ctx, limit)
}

func (l *Local) GetProgress(ctx context.Context) (*models.UserProgress, error) {
	return l.store.GetUserProgress(ctx, 1)
}
