// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/shoprec/internal/middleware"
)

// NewRouter mounts the handlers:
//
//	GET    /health, /health/live, /metrics
//	GET    /api/v1/recommendations/{userID}
//	POST   /api/v1/recommendations/{userID}/generate
//	DELETE /api/v1/recommendations/{userID}/cache
//	POST   /api/v1/recommendations/retrain
//	GET    /api/v1/model/stats
//	POST   /api/v1/orders
//	POST   /api/v1/tasks
func NewRouter(h *Handler, cfg MiddlewareConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer, accessLog)
	// global so OPTIONS preflights reach it
	r.Use(corsHandler(cfg))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Route("/health", func(r chi.Router) {
		r.Use(limiter(cfg, healthLimit))
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
	})
	r.Handle("/metrics", promhttp.Handler())

	train := limiter(cfg, trainLimit)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter(cfg, rateLimit{requests: cfg.RateLimitRequests, window: cfg.RateLimitWindow}))
		r.Use(securityHeaders, middleware.PrometheusMetrics)

		r.Route("/recommendations", func(r chi.Router) {
			r.With(train).Post("/retrain", h.RetrainModel)
			r.Get("/{userID}", h.GetRecommendations)
			r.With(train).Post("/{userID}/generate", h.GenerateRecommendations)
			r.Delete("/{userID}/cache", h.InvalidateCache)
		})
		r.Get("/model/stats", h.ModelStats)
		r.Post("/orders", h.CreateOrder)
		r.Post("/tasks", h.EnqueueTask)
	})
	return r
}
