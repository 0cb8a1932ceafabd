package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/claude/wodforge/internal/engine"
	"github.com/claude/wodforge/internal/lifecycle"
	"github.com/claude/wodforge/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// defaultUserID covers the single-user deployment model.
const defaultUserID = 1

type generateRequest struct {
	Format       models.Format    `json:"format"`
	Intensity    models.Intensity `json:"intensity"`
	DurationMin  int              `json:"duration_minutes"`
	Equipment    []string         `json:"equipment,omitempty"`
	Categories   []string         `json:"categories,omitempty"`
	MuscleGroups []string         `json:"muscle_groups,omitempty"`
	MainOnly     bool             `json:"main_only,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	constraints, err := parseConstraints(req.Equipment, req.Categories, req.MuscleGroups)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	constraints.MainOnly = req.MainOnly
	constraints.AsOf = time.Now().UTC()

	workout, err := s.mgr.Generate(r.Context(), engine.GenerateParams{
		Format:      req.Format,
		Intensity:   req.Intensity,
		DurationMin: req.DurationMin,
		Constraints: constraints,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

// handleListMovements lists the movement library. Optional query parameters
// narrow the result: equipment, categories, muscle_groups (comma-separated),
// main_only=true, and available=true to keep only movements whose cadence
// interval has elapsed.
func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	constraints, err := parseConstraints(
		splitCSV(q.Get("equipment")),
		splitCSV(q.Get("categories")),
		splitCSV(q.Get("muscle_groups")))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	constraints.MainOnly = q.Get("main_only") == "true"

	movements, err := s.store.ListMovements(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	var cadences map[uuid.UUID]models.MovementCadence
	if q.Get("available") == "true" {
		constraints.AsOf = time.Now().UTC()
		if cadences, err = s.store.ListMovementCadences(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, engine.FilterMovements(movements, cadences, constraints))
}

func (s *Server) handleMovementPerformed(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	at := time.Now().UTC()
	if r.ContentLength > 0 {
		var req performedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
		if req.PerformedAt != nil {
			at = req.PerformedAt.UTC()
		}
	}

	if err := s.mgr.MarkMovementPerformed(r.Context(), id, at); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

type templateRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Format      models.Format     `json:"format"`
	Intensity   models.Intensity  `json:"intensity"`
	DurationMin int               `json:"duration_minutes"`
	Categories  []string          `json:"categories,omitempty"`
	Equipment   []string          `json:"equipment,omitempty"`
	MainOnly    bool              `json:"main_only,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	categories, err := models.ParseCategories(req.Categories)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	equipment, err := models.ParseEquipmentList(req.Equipment)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	tpl, err := s.mgr.CreateTemplate(r.Context(), lifecycle.TemplateFields{
		Name:        req.Name,
		Description: req.Description,
		Format:      req.Format,
		Intensity:   req.Intensity,
		DurationMin: req.DurationMin,
		Categories:  categories,
		Equipment:   equipment,
		MainOnly:    req.MainOnly,
		Metadata:    req.Metadata,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.ListTemplates(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	tpl, err := s.store.GetTemplate(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := s.mgr.DeleteTemplate(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type overridesRequest struct {
	Format      *models.Format    `json:"format,omitempty"`
	Intensity   *models.Intensity `json:"intensity,omitempty"`
	DurationMin *int              `json:"duration_minutes,omitempty"`
	Equipment   []string          `json:"equipment,omitempty"`
	Categories  []string          `json:"categories,omitempty"`
}

func (s *Server) handleGenerateFromTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var ov lifecycle.Overrides
	if r.ContentLength > 0 {
		var req overridesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
		ov.Format = req.Format
		ov.Intensity = req.Intensity
		ov.DurationMin = req.DurationMin
		if req.Equipment != nil {
			equipment, err := models.ParseEquipmentList(req.Equipment)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			ov.Equipment = equipment
		}
		if req.Categories != nil {
			categories, err := models.ParseCategories(req.Categories)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			ov.Categories = categories
		}
	}

	workout, err := s.mgr.GenerateFromTemplateWithOverrides(r.Context(), id, ov)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handlePoolAvailable(w http.ResponseWriter, r *http.Request) {
	entries, err := s.mgr.ListAvailablePool(r.Context(), time.Now().UTC())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handlePoolForEquipment(w http.ResponseWriter, r *http.Request) {
	available, err := models.ParseEquipmentList(splitCSV(r.URL.Query().Get("equipment")))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	entries, err := s.mgr.PoolForEquipment(r.Context(), available, time.Now().UTC())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type performedRequest struct {
	PerformedAt *time.Time `json:"performed_at,omitempty"`
}

func (s *Server) handlePoolPerformed(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	at := time.Now().UTC()
	if r.ContentLength > 0 {
		var req performedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
		if req.PerformedAt != nil {
			at = req.PerformedAt.UTC()
		}
	}

	if err := s.mgr.MarkPoolPerformed(r.Context(), id, at); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) handlePoolTake(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	workout, err := s.mgr.TakeFromPool(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}
	workouts, err := s.store.ListWorkouts(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	workout, err := s.store.GetWorkout(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

type completeRequest struct {
	Score string `json:"score,omitempty"`
	Notes string `json:"notes,omitempty"`
}

func (s *Server) handleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req completeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	if err := s.mgr.RecordResult(r.Context(), defaultUserID, id, req.Score, req.Notes); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (s *Server) handleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.CompleteOnboarding(r.Context(), defaultUserID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "onboarding complete"})
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.store.GetUserProgress(r.Context(), defaultUserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// writeError maps domain errors to HTTP statuses: malformed input is 400, a
// missing id is 404, an over-constrained generation is 422, everything else
// is a logged 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *engine.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
	case errors.Is(err, engine.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, engine.ErrInsufficientCandidates):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func parseConstraints(equipment, categories, muscleGroups []string) (engine.Constraints, error) {
	var c engine.Constraints
	var err error
	if c.Equipment, err = models.ParseEquipmentList(equipment); err != nil {
		return c, err
	}
	if c.Categories, err = models.ParseCategories(categories); err != nil {
		return c, err
	}
	if c.MuscleGroups, err = models.ParseMuscleGroups(muscleGroups); err != nil {
		return c, err
	}
	return c, nil
}

func splitCSV(s string) []string {
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
