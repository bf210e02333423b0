/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/events           Calendar feed
  /api/notifications    Review-outcome delivery
  /api/requests/*       Submission, review, removal
  /api/employees/*      Employee directory (admin)
  /api/report           Summary rows (admin)
  /api/reconciliation   Ledger drift audit (admin)

SECURITY NOTE:
  Identity comes from the X-User-Email header as a stand-in for the
  excluded OAuth stack; admin rights are enforced per handler from the
  employee's entitlement.

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
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-Email"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", h.GetEvents)
		r.Get("/notifications", h.GetNotifications)

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", h.SubmitRequest)
			r.Post("/{id}/process", h.ProcessRequest)
			r.Delete("/{id}", h.RemoveRequest)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployeeNames)
			r.Get("/details", h.GetEmployeeDetails)
			r.Post("/", h.CreateEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Post("/remove", h.RemoveEmployee)
		})

		r.Get("/report", h.GetReport)
		r.Get("/reconciliation", h.GetReconciliation)
	})

	return r
}
