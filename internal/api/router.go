package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
//
// The route shapes are a fixed external contract: sensor collection routes
// use a trailing slash (POST /sensors/), item routes use the numeric id,
// and lookup by device-assigned identifier lives under /sensors/external/.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Service metadata (no auth required)
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	// Auth endpoints (no auth required)
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	// Current account (bearer token required)
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/auth/me", s.handleMe)
	})

	// Sensor endpoints (bearer token required)
	r.Route("/sensors", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Post("/", s.handleCreateSensor)
		r.Get("/", s.handleListSensors)
		r.Get("/external/{external_id}", s.handleGetSensorByExternalID)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSensor)
			r.Put("/", s.handleUpdateSensor)
			r.Delete("/", s.handleDeleteSensor)
		})
	})

	return r
}

// handleRoot returns basic service identification.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "tanksense",
		"version": s.version,
	})
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
