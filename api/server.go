/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     request logging
  2. Recoverer:  panic recovery (500 instead of crash)
  3. RequestID:  unique ID per request for tracing
  4. CORS:       cross-origin requests for the admin frontend

ROUTE GROUPS:
  /api/employees      employee directory
  /api/time-events    absence days (create range / delete one)
  /api/comp-events    compensation lines (append / delete one)
  /api/ledger         window queries with summaries
  /api/statements     packets for the external document renderer
  /api/health         store reachability

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured. allowedOrigins
// feeds the CORS middleware; empty means same-origin only.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Actor"},
			AllowCredentials: true,
		}))
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)
		r.Get("/employees", h.ListEmployees)

		r.Route("/time-events", func(r chi.Router) {
			r.Post("/", h.CreateTimeOff)
			r.Delete("/{id}", h.DeleteTimeEvent)
		})

		r.Route("/comp-events", func(r chi.Router) {
			r.Post("/", h.CreateCompEvent)
			r.Delete("/{id}", h.DeleteCompEvent)
		})

		r.Get("/ledger", h.QueryWindow)
		r.Get("/statements/{year}", h.BuildStatement)
	})

	return r
}
