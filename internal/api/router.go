// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package api exposes the discovery service over HTTP using the Chi
// router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/planit-app/discovery/internal/config"
)

// NewRouter builds the full route tree.
func NewRouter(cfg config.ServerConfig, handler *Handler) http.Handler {
	r := chi.NewRouter()

	// Global middleware, in order.
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(cfg))
	r.Use(requestLogger)

	// Health endpoints stay outside the rate limit so orchestrators can
	// probe freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", handler.HealthLive)
		r.Get("/ready", handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/users/{userID}", func(r chi.Router) {
		r.Use(rateLimit(cfg))
		r.Use(requestMetrics)

		r.Get("/recommendations", handler.GetRecommendations)
		r.Post("/interactions", handler.PostInteraction)
		r.Get("/preferences/radius", handler.GetRadius)
		r.Put("/preferences/radius", handler.PutRadius)
	})

	return r
}
