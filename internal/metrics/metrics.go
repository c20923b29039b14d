// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package metrics provides Prometheus instrumentation for the discovery
// service:
//   - Generation cycle latency and outcomes
//   - Places search throughput, errors and distance-filter drops
//   - Generative API parse results
//   - Circuit breaker state for external APIs
//   - Interaction event processing
//   - HTTP endpoint latency
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation cycle metrics

	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_cycle_duration_seconds",
			Help:    "Duration of full recommendation generation cycles in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	CategoriesProduced = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_categories_produced",
			Help:    "Number of non-empty categories delivered per cycle",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 12},
		},
	)

	// CycleOutcomes counts cycles by source of the delivered content:
	// "generated", "fallback", "demo", "superseded".
	CycleOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_cycle_outcomes_total",
			Help: "Total generation cycles by outcome",
		},
		[]string{"outcome"},
	)

	ResultCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_result_cache_hits_total",
			Help: "Total recommendation requests served from the result cache",
		},
	)

	ResultCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_result_cache_misses_total",
			Help: "Total recommendation requests that triggered a fresh cycle",
		},
	)

	// Generative API metrics

	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_generation_requests_total",
			Help: "Total generative API calls by result (success, error, unparseable)",
		},
		[]string{"result"},
	)

	GenerationDescriptorsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_generation_descriptors_dropped_total",
			Help: "Total generated category descriptors dropped for missing required fields",
		},
	)

	// Places search metrics

	PlacesSearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_places_search_requests_total",
			Help: "Total places text-search calls by result (success, error, rejected)",
		},
		[]string{"result"},
	)

	PlacesSearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_places_search_duration_seconds",
			Help:    "Duration of places text-search calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	PlacesDistanceFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_places_distance_filtered_total",
			Help: "Total places excluded by the client-side radius recheck",
		},
	)

	// Circuit breaker metrics (shared by external API clients)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "discovery_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Interaction recorder metrics

	InteractionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_interaction_events_total",
			Help: "Total interaction events by kind and result (recorded, failed, invalid)",
		},
		[]string{"kind", "result"},
	)

	// HTTP metrics

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
