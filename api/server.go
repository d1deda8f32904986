/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the payroll frontend

ROUTE GROUPS:
  /api/cases/*       Case lifecycle and period edits
  /api/dashboard     Bucketed overview
  /api/calendar/*    Payroll calendar queries
  /api/admin/*       Calendar upload, directory seeding, self-check

SECURITY NOTE:
  No authentication middleware; the X-Actor header is trusted for audit
  attribution. Deploy behind the internal payroll gateway only.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
// allowedOrigins configures CORS; empty means same-origin only.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Actor"},
			AllowCredentials: true,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/cases", func(r chi.Router) {
			r.Get("/", h.ListCases)
			r.Post("/", h.CreateCase)
			r.Get("/{id}", h.GetCase)
			r.Put("/{id}", h.UpdateCase)
			r.Post("/{id}/return", h.SetReturnDate)
			r.Post("/{id}/archive", h.ArchiveCase)
			r.Post("/{id}/recalculate", h.RecalculateCase)
			r.Put("/{id}/periods/{periodID}", h.UpdatePeriod)
			r.Put("/{id}/periods/{periodID}/status", h.SetPeriodStatus)
		})

		r.Get("/dashboard", h.GetDashboard)

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/validate-start", h.ValidateStartDate)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/calendar", h.ReplaceCalendar)
			r.Post("/employees", h.UpsertEmployee)
			r.Get("/selfcheck", h.SelfCheck)
		})
	})

	return r
}
