// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/planit-app/discovery/internal/events"
	"github.com/planit-app/discovery/internal/models"
	"github.com/planit-app/discovery/internal/prefs"
	"github.com/planit-app/discovery/internal/recommend"
)

// Recommender runs recommendation cycles. Implemented by recommend.Engine.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// RadiusStore reads and writes per-user search radii. Implemented by
// prefs.Store.
type RadiusStore interface {
	RadiusMiles(ctx context.Context, userID string) (float64, error)
	SetRadiusMiles(ctx context.Context, userID string, miles float64) error
}

// InteractionPublisher enqueues interaction events. Implemented by
// events.Bus.
type InteractionPublisher interface {
	PublishInteraction(ctx context.Context, event events.InteractionEvent) error
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	engine    Recommender
	radii     RadiusStore
	publisher InteractionPublisher
	readiness map[string]ReadinessCheck
	logger    zerolog.Logger
}

// NewHandler creates the handler set.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(engine Recommender, radii RadiusStore, publisher InteractionPublisher, readiness map[string]ReadinessCheck, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		radii:     radii,
		publisher: publisher,
		readiness: readiness,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

type recommendationsRequest struct {
	UserID string  `validate:"required,max=128"`
	Lat    float64 `validate:"latitude"`
	Lon    float64 `validate:"longitude"`
}

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations.
//
// Query parameters: lat, lon (required), refresh (optional bool).
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	lat, latOK := getFloatParam(r, "lat")
	lon, lonOK := getFloatParam(r, "lon")
	if !latOK || !lonOK {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lon query parameters are required", nil)
		return
	}

	req := recommendationsRequest{UserID: userID, Lat: lat, Lon: lon}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	radius, err := h.radii.RadiusMiles(r.Context(), userID)
	if err != nil {
		// Preference store trouble falls back to the engine default.
		h.logger.Warn().Err(err).Str("user_id", sanitizeLogValue(userID)).Msg("radius read failed, using default")
		radius = 0
	}

	start := time.Now()
	result, err := h.engine.Recommend(r.Context(), recommend.Request{
		UserID:      userID,
		Lat:         lat,
		Lon:         lon,
		RadiusMiles: radius,
		Refresh:     getBoolParam(r, "refresh"),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "recommendation cycle failed", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      result.GeneratedAt.Before(start),
		},
	})
}

type interactionRequest struct {
	Place models.Place           `json:"place"`
	Kind  models.InteractionKind `json:"kind"`
}

// PostInteraction handles POST /api/v1/users/{userID}/interactions.
//
// The interaction is published to the event bus and applied to the
// fingerprint out of band; the response is 202 regardless of how the
// eventual store write goes.
func (h *Handler) PostInteraction(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}

	if !models.ValidInteractionKind(req.Kind) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown interaction kind", nil)
		return
	}
	if req.Place.ID == "" || req.Place.Name == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "place id and name are required", nil)
		return
	}

	event := events.InteractionEvent{
		UserID:     userID,
		Place:      req.Place,
		Kind:       req.Kind,
		OccurredAt: time.Now().UTC(),
	}
	if err := h.publisher.PublishInteraction(r.Context(), event); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to enqueue interaction", err)
		return
	}

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"state": "accepted"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

type radiusResponse struct {
	RadiusMiles float64 `json:"radius_miles"`
}

type radiusUpdateRequest struct {
	RadiusMiles float64 `json:"radius_miles" validate:"gt=0"`
}

// GetRadius handles GET /api/v1/users/{userID}/preferences/radius.
func (h *Handler) GetRadius(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	radius, err := h.radii.RadiusMiles(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to read radius preference", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     radiusResponse{RadiusMiles: radius},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// PutRadius handles PUT /api/v1/users/{userID}/preferences/radius.
func (h *Handler) PutRadius(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req radiusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if err := h.radii.SetRadiusMiles(r.Context(), userID, req.RadiusMiles); err != nil {
		if errors.Is(err, prefs.ErrInvalidRadius) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to store radius preference", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     radiusResponse{RadiusMiles: req.RadiusMiles},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive handles GET /api/v1/health/live. Process-up check only.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"state": "alive"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles GET /api/v1/health/ready. Checks each registered
// dependency with a short deadline.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.readiness))
	healthy := true
	for name, check := range h.readiness {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "success",
		Data:     map[string]interface{}{"state": state, "checks": checks},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
