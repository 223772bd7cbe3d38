// Package router sets up the HTTP routes and middleware chain for the
// pbcsv API server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pbcsv/internal/handlers"
	"pbcsv/internal/middleware"
)

// New creates the chi router. limiter guards POST /api/load and may be nil.
func New(api *handlers.API, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", api.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", api.Summary)
		r.Get("/history", api.History)

		r.Get("/categories", api.Categories)
		r.Get("/categories/*", api.Category)

		r.Get("/years", api.Years)
		r.Get("/years/{slug}", api.Year)

		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Post("/load", api.Load)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found."}` + "\n"))
	})

	return r
}
