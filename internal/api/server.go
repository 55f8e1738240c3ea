// Package api provides the localhost HTTP control surface for Spiral.
// The platform shim feeds telemetry through it and the UI reads stats,
// streaks, achievements, and the live intervention from it.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spiral-app/spiral/internal/app/achieve"
	"github.com/spiral-app/spiral/internal/app/monitor"
	"github.com/spiral-app/spiral/internal/domain"
	"github.com/spiral-app/spiral/internal/infra/sqlite"
)

// Server is the Spiral HTTP API server.
type Server struct {
	monitor        *monitor.Monitor
	achievements   *achieve.Service
	db             *sqlite.DB
	version        string
	metricsEnabled bool
}

// NewServer creates a new API server over the engine facade.
func NewServer(m *monitor.Monitor, ach *achieve.Service, db *sqlite.DB, version string) *Server {
	return &Server{monitor: m, achievements: ach, db: db, version: version}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/version", s.handleVersion)

		// Telemetry from the platform shim
		r.Post("/session/start", s.handleSessionStart)
		r.Post("/session/end", s.handleSessionEnd)
		r.Get("/session", s.handleSessionLive)
		r.Post("/events/scroll", s.handleScroll)
		r.Post("/events/interaction", s.handleInteraction)
		r.Post("/events/appswitch", s.handleAppSwitch)

		// Stats and streaks
		r.Get("/stats/today", s.handleStatsToday)
		r.Get("/stats/history", s.handleStatsHistory)
		r.Get("/streak", s.handleStreak)

		// Achievements
		r.Get("/achievements", s.handleAchievements)
		r.Post("/achievements/{id}/shared", s.handleAchievementShared)

		// Live intervention
		r.Get("/intervention", s.handleInterventionGet)
		r.Post("/intervention/check", s.handleInterventionCheck)
		r.Post("/intervention/dismiss", s.handleInterventionDismiss)
		r.Post("/intervention/answer", s.handleInterventionAnswer)
		r.Post("/intervention/wait", s.handleInterventionWait)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps the engine's sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionActive),
		errors.Is(err, domain.ErrNotDismissible):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNoActiveSession),
		errors.Is(err, domain.ErrUnknownAchievement):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrResolved):
		status = http.StatusGone
	case errors.Is(err, domain.ErrInvalidAppID),
		errors.Is(err, domain.ErrNegativeVelocity),
		errors.Is(err, domain.ErrUnknownMode),
		errors.Is(err, domain.ErrUnknownStyle):
		status = http.StatusBadRequest
	}
	writeError(w, status, err.Error())
}
