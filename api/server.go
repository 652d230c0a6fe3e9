/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestLogger: Structured request logging (zerolog)
  4. CORS:       Cross-origin requests for the roster frontend

ROUTE GROUPS:
  /api/officers/*    Directory management
  /api/rosters/*     Roster reads, slot mutations, reports
  /api/calendars/*   Ordinary rotation tables
  /api/health        Liveness probe

SECURITY NOTE:
  No authentication middleware. The service is intranet-only.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Officer directory routes
		r.Route("/officers", func(r chi.Router) {
			r.Get("/", h.ListOfficers)
			r.Post("/", h.CreateOfficer)
			r.Post("/import", h.ImportOfficers)
			r.Delete("/{name}", h.DeleteOfficer)
		})

		// Roster routes
		r.Route("/rosters/{month}", func(r chi.Router) {
			r.Get("/", h.GetRosterSet)
			r.Get("/conflicts", h.GetConflicts)
			r.Get("/tally", h.GetTally)
			r.Get("/most-scheduled", h.GetMostScheduled)
			r.Get("/search", h.SearchRoster)

			r.Route("/{operation}", func(r chi.Router) {
				r.Get("/", h.GetMonthRoster)
				r.Put("/slots", h.AssignSlot)
				r.Get("/changes", h.ListChanges)
			})
		})

		// Calendar routes
		r.Route("/calendars/{month}", func(r chi.Router) {
			r.Get("/", h.GetCalendar)
			r.Put("/", h.PutCalendar)
		})
	})

	return r
}
