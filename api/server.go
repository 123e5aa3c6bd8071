/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a frontend

ROUTE GROUPS:
  /api/uploads/*   Schedule photo submissions
  /api/days/*      Single-day records
  /api/weeks/*     Seven-day windows
  /api/months/*    Month records and totals
  /api/calendar/*  Month cursor and hourly wage
  /api/scenarios/* Demo weeks
  /api/events      Server-sent events
  /healthz         Liveness

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/shiftcal/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/uploads", func(r chi.Router) {
			r.Get("/", h.ListUploads)
			r.Post("/", h.CreateUpload)
			r.Get("/{id}", h.GetUpload)
			r.Post("/{id}/resolve", h.ResolveUpload)
		})

		r.Route("/days", func(r chi.Router) {
			r.Get("/{date}", h.GetDay)
			r.Put("/{date}", h.PutDay)
			r.Delete("/{date}", h.DeleteDay)
		})

		r.Route("/weeks", func(r chi.Router) {
			r.Get("/{date}", h.GetWeek)
			r.Get("/{date}/days/{weekday}", h.GetWeekDay)
			r.Delete("/{date}", h.DeleteWeek)
		})

		r.Get("/months/{month}", h.GetMonth)

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", h.GetCalendar)
			r.Post("/month", h.ChangeMonth)
			r.Put("/wage", h.SetWage)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})

		r.Get("/events", h.Events)
	})

	return r
}
