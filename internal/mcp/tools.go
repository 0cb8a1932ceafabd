package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/claude/wodforge/internal/engine"
	"github.com/claude/wodforge/internal/lifecycle"
	"github.com/claude/wodforge/internal/models"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// --- Tool definitions ---

var toolGenerateWorkout = mcp.NewTool("generate_workout",
	mcp.WithDescription("Generate a workout from format, intensity, and duration. Optional constraints narrow the movement pool: equipment available, categories, muscle groups."),
	mcp.WithString("format", mcp.Required(), mcp.Description("Workout format"), mcp.Enum("emom", "amrap", "tabata", "for_time", "rounds_for_time", "death_by", "chipper", "ladder", "partner", "for_reps")),
	mcp.WithString("intensity", mcp.Required(), mcp.Description("Intensity level"), mcp.Enum("high", "medium", "low")),
	mcp.WithNumber("duration_minutes", mcp.Required(), mcp.Description("Target duration in minutes")),
	mcp.WithString("equipment", mcp.Description("Comma-separated equipment available (e.g. 'barbell,pull_up_bar'). Empty means everything is available.")),
	mcp.WithString("categories", mcp.Description("Comma-separated movement categories to draw from (e.g. 'compound_lift,cardio')")),
	mcp.WithString("muscle_groups", mcp.Description("Comma-separated muscle groups to target (e.g. 'legs,core')")),
	mcp.WithBoolean("main_only", mcp.Description("Only use main movements")),
)

var toolGenerateFromTemplate = mcp.NewTool("generate_from_template",
	mcp.WithDescription("Generate a workout from a saved template. Optional overrides replace single template fields for this call only."),
	mcp.WithString("template_id", mcp.Required(), mcp.Description("Template UUID")),
	mcp.WithString("format", mcp.Description("Override the template's format")),
	mcp.WithString("intensity", mcp.Description("Override the template's intensity")),
	mcp.WithNumber("duration_minutes", mcp.Description("Override the template's duration")),
)

var toolListMovements = mcp.NewTool("list_movements",
	mcp.WithDescription("List all movements in the catalog with categories, equipment, muscle groups, and difficulty."),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List saved workout templates with usage counts."),
)

var toolListAvailablePool = mcp.NewTool("list_available_pool",
	mcp.WithDescription("List pool workouts whose cadence interval has elapsed and are ready to perform today."),
)

var toolTakeFromPool = mcp.NewTool("take_from_pool",
	mcp.WithDescription("Take a pool workout: creates a fresh workout from the entry and restarts its cadence clock."),
	mcp.WithString("pool_id", mcp.Required(), mcp.Description("Pool entry UUID")),
)

var toolMarkPoolPerformed = mcp.NewTool("mark_pool_performed",
	mcp.WithDescription("Record that a pool workout was performed, restarting its cadence clock."),
	mcp.WithString("pool_id", mcp.Required(), mcp.Description("Pool entry UUID")),
	mcp.WithString("performed_at", mcp.Description("When it was performed (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List generated workouts, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return. Defaults to 50.")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Get workout history, per-movement personal bests, and training totals."),
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// --- Tool handlers ---

func (h *handlers) generateWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := req.RequireString("format")
	if err != nil {
		return mcp.NewToolResultError("format parameter is required"), nil
	}
	intensity, err := req.RequireString("intensity")
	if err != nil {
		return mcp.NewToolResultError("intensity parameter is required"), nil
	}
	duration, err := req.RequireInt("duration_minutes")
	if err != nil {
		return mcp.NewToolResultError("duration_minutes parameter is required"), nil
	}

	equipment, err := models.ParseEquipmentList(splitList(req.GetString("equipment", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	categories, err := models.ParseCategories(splitList(req.GetString("categories", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	muscleGroups, err := models.ParseMuscleGroups(splitList(req.GetString("muscle_groups", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	workout, err := h.ds.Generate(ctx, engine.GenerateParams{
		Format:      models.Format(format),
		Intensity:   models.Intensity(intensity),
		DurationMin: duration,
		Constraints: engine.Constraints{
			Equipment:    equipment,
			Categories:   categories,
			MuscleGroups: muscleGroups,
			MainOnly:     req.GetBool("main_only", false),
			AsOf:         time.Now().UTC(),
		},
	})
	if err != nil {
		h.log.Error("mcp generate_workout", "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}
	return toolJSON(workout)
}

func (h *handlers) generateFromTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError("template_id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid template_id: " + err.Error()), nil
	}

	var ov lifecycle.Overrides
	if v := req.GetString("format", ""); v != "" {
		f := models.Format(v)
		ov.Format = &f
	}
	if v := req.GetString("intensity", ""); v != "" {
		i := models.Intensity(v)
		ov.Intensity = &i
	}
	if v := req.GetInt("duration_minutes", 0); v > 0 {
		ov.DurationMin = &v
	}

	workout, err := h.ds.GenerateFromTemplate(ctx, id, ov)
	if err != nil {
		h.log.Error("mcp generate_from_template", "error", err)
		return mcp.NewToolResultError("generation failed: " + err.Error()), nil
	}
	return toolJSON(workout)
}

func (h *handlers) listMovements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	movements, err := h.ds.ListMovements(ctx)
	if err != nil {
		h.log.Error("mcp list_movements", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(movements)
}

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := h.ds.ListTemplates(ctx)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(templates)
}

func (h *handlers) listAvailablePool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.ds.ListAvailablePool(ctx, time.Now().UTC())
	if err != nil {
		h.log.Error("mcp list_available_pool", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(entries)
}

func (h *handlers) takeFromPool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("pool_id")
	if err != nil {
		return mcp.NewToolResultError("pool_id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid pool_id: " + err.Error()), nil
	}

	workout, err := h.ds.TakeFromPool(ctx, id)
	if err != nil {
		h.log.Error("mcp take_from_pool", "error", err)
		return mcp.NewToolResultError("take failed: " + err.Error()), nil
	}
	return toolJSON(workout)
}

func (h *handlers) markPoolPerformed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("pool_id")
	if err != nil {
		return mcp.NewToolResultError("pool_id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid pool_id: " + err.Error()), nil
	}

	at := time.Now().UTC()
	if v := req.GetString("performed_at", ""); v != "" {
		at, err = parseFlexTime(v)
		if err != nil {
			return mcp.NewToolResultError("invalid performed_at: " + err.Error()), nil
		}
	}

	if err := h.ds.MarkPoolPerformed(ctx, id, at); err != nil {
		h.log.Error("mcp mark_pool_performed", "error", err)
		return mcp.NewToolResultError("update failed: " + err.Error()), nil
	}
	return toolJSON(map[string]string{"status": "recorded"})
}

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.ListWorkouts(ctx, req.GetInt("limit", 0))
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(workouts)
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	progress, err := h.ds.GetProgress(ctx)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(progress)
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
