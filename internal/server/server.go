package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/wodforge/internal/lifecycle"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers. Reads go straight to the
// store; anything that mutates state goes through the lifecycle manager.
type Server struct {
	store  lifecycle.Store
	mgr    *lifecycle.Manager
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store lifecycle.Store, mgr *lifecycle.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		mgr:    mgr,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Read endpoints (no auth — tsnet handles access)
		r.Get("/movements", s.handleListMovements)
		r.Get("/templates", s.handleListTemplates)
		r.Get("/templates/{id}", s.handleGetTemplate)
		r.Get("/pool/available", s.handlePoolAvailable)
		r.Get("/pool/for-equipment", s.handlePoolForEquipment)
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/progress", s.handleGetProgress)

		// Mutation endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/generate", s.handleGenerate)
			r.Post("/templates", s.handleCreateTemplate)
			r.Delete("/templates/{id}", s.handleDeleteTemplate)
			r.Post("/templates/{id}/generate", s.handleGenerateFromTemplate)
			r.Post("/movements/{id}/performed", s.handleMovementPerformed)
			r.Post("/pool/{id}/performed", s.handlePoolPerformed)
			r.Post("/pool/{id}/take", s.handlePoolTake)
			r.Post("/workouts/{id}/complete", s.handleCompleteWorkout)
			r.Post("/progress/onboarding-complete", s.handleCompleteOnboarding)
		})
	})
}
