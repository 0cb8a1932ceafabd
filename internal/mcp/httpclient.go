package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/wodforge/internal/engine"
	"github.com/claude/wodforge/internal/lifecycle"
	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the wodforge REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but data
// lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is sent on mutating calls.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, reqBody any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return respBody, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("httpclient: %s: %w", path, engine.ErrNotFound)
	case http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("httpclient: %s: %w", path, engine.ErrInsufficientCandidates)
	default:
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, respBody)
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) ListMovements(ctx context.Context) ([]models.Movement, error) {
	var movements []models.Movement
	if err := c.get(ctx, "/api/v1/movements", nil, &movements); err != nil {
		return nil, err
	}
	return movements, nil
}

func (c *HTTPClient) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	var templates []models.WorkoutTemplate
	if err := c.get(ctx, "/api/v1/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (c *HTTPClient) Generate(ctx context.Context, params engine.GenerateParams) (*models.Workout, error) {
	req := map[string]any{
		"format":           params.Format,
		"intensity":        params.Intensity,
		"duration_minutes": params.DurationMin,
		"main_only":        params.Constraints.MainOnly,
	}
	if len(params.Constraints.Equipment) > 0 {
		req["equipment"] = models.EquipmentStrings(params.Constraints.Equipment)
	}
	if len(params.Constraints.Categories) > 0 {
		req["categories"] = models.CategoryStrings(params.Constraints.Categories)
	}
	if len(params.Constraints.MuscleGroups) > 0 {
		req["muscle_groups"] = models.MuscleGroupStrings(params.Constraints.MuscleGroups)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/generate", nil, req)
	if err != nil {
		return nil, err
	}
	var w models.Workout
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return &w, nil
}

func (c *HTTPClient) GenerateFromTemplate(ctx context.Context, id uuid.UUID, ov lifecycle.Overrides) (*models.Workout, error) {
	req := map[string]any{}
	if ov.Format != nil {
		req["format"] = *ov.Format
	}
	if ov.Intensity != nil {
		req["intensity"] = *ov.Intensity
	}
	if ov.DurationMin != nil {
		req["duration_minutes"] = *ov.DurationMin
	}
	if len(ov.Equipment) > 0 {
		req["equipment"] = models.EquipmentStrings(ov.Equipment)
	}
	if len(ov.Categories) > 0 {
		req["categories"] = models.CategoryStrings(ov.Categories)
	}
	var reqBody any
	if len(req) > 0 {
		reqBody = req
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/templates/"+id.String()+"/generate", nil, reqBody)
	if err != nil {
		return nil, err
	}
	var w models.Workout
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return &w, nil
}

// ListAvailablePool queries the server's availability view. The server
// evaluates availability at its own clock, so asOf is not sent.
func (c *HTTPClient) ListAvailablePool(ctx context.Context, _ time.Time) ([]models.PoolEntry, error) {
	var entries []models.PoolEntry
	if err := c.get(ctx, "/api/v1/pool/available", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) MarkPoolPerformed(ctx context.Context, id uuid.UUID, at time.Time) error {
	req := map[string]any{"performed_at": at.Format(time.RFC3339)}
	_, err := c.do(ctx, http.MethodPost, "/api/v1/pool/"+id.String()+"/performed", nil, req)
	return err
}

func (c *HTTPClient) TakeFromPool(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/pool/"+id.String()+"/take", nil, nil)
	if err != nil {
		return nil, err
	}
	var w models.Workout
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return &w, nil
}

func (c *HTTPClient) ListWorkouts(ctx context.Context, limit int) ([]models.Workout, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var workouts []models.Workout
	if err := c.get(ctx, "/api/v1/workouts", params, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *HTTPClient) GetProgress(ctx context.Context) (*models.UserProgress, error) {
	var p models.UserProgress
	if err := c.get(ctx, "/api/v1/progress", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
