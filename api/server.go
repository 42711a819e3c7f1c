/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/charters/*   Charter parties, port calls, calculations, reports
  /api/calendars/*  Named port calendars
  /api/clauses/*    Standard clause library
  /api/scenarios/*  Demo scenario loaders

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.
  Run behind a gateway that terminates auth before exposing this.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Charter party routes
		r.Route("/charters", func(r chi.Router) {
			r.Get("/", h.ListCharters)
			r.Post("/", h.CreateCharter)
			r.Get("/{id}", h.GetCharter)
			r.Get("/{id}/portcalls", h.ListPortCalls)
			r.Post("/{id}/portcalls", h.CreatePortCall)
			r.Post("/{id}/portcalls/{callID}/sof", h.AppendSofEntry)
			r.Post("/{id}/calculate", h.Calculate)
			r.Get("/{id}/calculations", h.ListCalculations)
			r.Post("/{id}/sweep", h.Sweep)
			r.Post("/{id}/report.pdf", h.ReportPDF)
			r.Post("/{id}/report.xlsx", h.ReportXLSX)
		})

		// Calendar routes
		r.Route("/calendars", func(r chi.Router) {
			r.Get("/{name}", h.GetCalendar)
			r.Put("/{name}", h.SaveCalendar)
		})

		// Clause library routes
		r.Route("/clauses", func(r chi.Router) {
			r.Get("/", h.ListClauses)
			r.Get("/{id}", h.GetClause)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Laytime Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Laytime Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/charters">/api/charters</a> - List charter parties</li>
<li><a href="/api/clauses">/api/clauses</a> - Standard clause library</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
