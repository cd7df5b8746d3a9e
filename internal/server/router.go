// Package server assembles the HTTP router for the leaderboard API.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bohemia111/RUNSTR-sub012/internal/handlers"
	"github.com/bohemia111/RUNSTR-sub012/internal/middleware"
)

// NewRouter constructs a ServeMux with leaderboard API routes registered.
// jwtSecret guards the moderation endpoints; an empty secret disables
// authentication and is only acceptable in development.
func NewRouter(h *handlers.Handler, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	// Public read endpoints
	mux.HandleFunc("/api/v1/leaderboard/", h.Leaderboard)

	// Moderation endpoints
	mux.Handle("/api/v1/flagged", middleware.RequireAuth(jwtSecret, http.HandlerFunc(h.Flagged)))
	mux.Handle("/api/v1/refresh/", middleware.RequireAuth(jwtSecret, http.HandlerFunc(h.Refresh)))
	mux.Handle("/api/v1/participants", middleware.RequireAuth(jwtSecret, http.HandlerFunc(h.Participants)))

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
