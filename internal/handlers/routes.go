package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the public API router
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(h.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Get("/getTeamPredictions", h.GetTeamPredictions)
		r.Get("/getPlayerPredictions", h.GetPlayerPredictions)
	})

	return r
}

// MetricsRouter serves Prometheus metrics and probes on the internal port
func (h *Handler) MetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.Health)
	r.Get("/ready", h.Ready)
	return r
}
