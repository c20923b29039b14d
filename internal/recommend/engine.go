// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/planit-app/discovery/internal/config"
	"github.com/planit-app/discovery/internal/genai"
	"github.com/planit-app/discovery/internal/geo"
	"github.com/planit-app/discovery/internal/metrics"
	"github.com/planit-app/discovery/internal/models"
)

// Generator produces category descriptors from a prompt. Returns an empty
// slice on any generation or parse failure; the engine handles scarcity
// through the fallback chain, never through errors.
type Generator interface {
	Generate(ctx context.Context, prompt string) []models.CategoryDescriptor
}

// Searcher finds places for a free-text query near a location. Returns an
// empty slice on failure.
type Searcher interface {
	Search(ctx context.Context, query string, lat, lon, radiusMeters float64) []models.Place
}

// WeatherProvider supplies prompt context; "" when unavailable.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) string
}

// FingerprintSource reads the user's preference fingerprint. A not-found
// user yields (nil, nil): new users score with neutral defaults.
type FingerprintSource interface {
	Fingerprint(ctx context.Context, userID string) (*models.UserFingerprint, error)
}

// Request describes one recommendation cycle.
type Request struct {
	UserID      string
	Lat         float64
	Lon         float64
	RadiusMiles float64
	// Refresh bypasses the result cache and forces a fresh cycle.
	Refresh bool
}

// Result is the output of a cycle: a non-empty, confidence-ordered
// category list with shuffled place lists.
type Result struct {
	Categories  []models.CategoryDescriptor `json:"categories"`
	Source      string                      `json:"source"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

// Content sources, in degradation order.
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
	SourceDemo      = "demo"
)

// Engine runs recommendation cycles. Safe for concurrent use.
//
// Cycles are numbered by an atomic counter. Two concurrent cycles for the
// same cache key resolve last-writer-wins: a cycle that finishes after a
// newer one has already cached discards its own result instead of
// clobbering the fresher content. No cancellation plumbing is needed; a
// superseded cycle simply completes and its output is dropped.
type Engine struct {
	cfg      config.RecommendConfig
	fps      FingerprintSource
	gen      Generator
	searcher Searcher
	weather  WeatherProvider
	logger   zerolog.Logger

	cycleCounter atomic.Uint64

	cache   map[string]cacheEntry
	cacheMu sync.RWMutex

	// Presentation shuffle source. Seeded from config for reproducible
	// runs; guarded because cycles run concurrently.
	rng   *rand.Rand
	rngMu sync.Mutex

	now func() time.Time
}

type cacheEntry struct {
	result    *Result
	cycleID   uint64
	expiresAt time.Time
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg config.RecommendConfig, fps FingerprintSource, gen Generator, searcher Searcher, weather WeatherProvider, logger zerolog.Logger) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Engine{
		cfg:      cfg,
		fps:      fps,
		gen:      gen,
		searcher: searcher,
		weather:  weather,
		logger:   logger.With().Str("component", "recommend").Logger(),
		cache:    make(map[string]cacheEntry),
		rng:      rand.New(rand.NewSource(seed)),
		now:      time.Now,
	}
}

// Recommend runs (or serves from cache) a recommendation cycle. The
// returned category list is never empty and never contains a category
// with an empty place list.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Result, error) {
	if req.RadiusMiles <= 0 {
		req.RadiusMiles = e.cfg.DefaultRadiusMiles
	}

	key := cacheKey(req)
	if !req.Refresh {
		if cached := e.fromCache(key); cached != nil {
			metrics.ResultCacheHits.Inc()
			return cached, nil
		}
	}
	metrics.ResultCacheMisses.Inc()

	cycleID := e.cycleCounter.Add(1)
	start := e.now()

	result := e.runCycle(ctx, cycleID, req)

	metrics.CycleDuration.Observe(e.now().Sub(start).Seconds())
	metrics.CategoriesProduced.Observe(float64(len(result.Categories)))

	if e.store(key, cycleID, result) {
		metrics.CycleOutcomes.WithLabelValues(result.Source).Inc()
	} else {
		// A newer cycle for this key finished first; its content stays.
		metrics.CycleOutcomes.WithLabelValues("superseded").Inc()
		e.logger.Debug().Uint64("cycle", cycleID).Str("key", key).Msg("cycle superseded, result discarded")
		if fresh := e.fromCache(key); fresh != nil {
			return fresh, nil
		}
	}

	return result, nil
}

// runCycle executes the full pipeline for one cycle.
func (e *Engine) runCycle(ctx context.Context, cycleID uint64, req Request) *Result {
	log := e.logger.With().Uint64("cycle", cycleID).Str("user_id", req.UserID).Logger()

	fp, err := e.fps.Fingerprint(ctx, req.UserID)
	if err != nil {
		// Stale or missing fingerprint degrades personalization, not
		// availability.
		log.Warn().Err(err).Msg("fingerprint read failed, scoring with neutral defaults")
		fp = nil
	}

	conditions := e.weather.Current(ctx, req.Lat, req.Lon)

	prompt := genai.BuildPrompt(fp, req.Lat, req.Lon, e.now(), conditions, e.cfg.CategoryCount)
	descriptors := e.gen.Generate(ctx, prompt)
	log.Debug().Int("descriptors", len(descriptors)).Msg("generation complete")

	radiusMeters := geo.MilesToMeters(req.RadiusMiles)
	categories := e.searchAndScore(ctx, descriptors, fp, req.Lat, req.Lon, radiusMeters)
	source := SourceGenerated

	if len(categories) < e.cfg.MinCategories {
		log.Info().Int("surviving", len(categories)).Int("min", e.cfg.MinCategories).Msg("below minimum category count, invoking fallback templates")
		fallbacks := e.searchAndScore(ctx, FallbackDescriptors(), fp, req.Lat, req.Lon, radiusMeters)
		if len(fallbacks) > 0 {
			categories = append(categories, fallbacks...)
			source = SourceFallback
		}
	}

	if len(categories) == 0 {
		log.Warn().Msg("all search paths empty, substituting demo content")
		categories = DemoCategories()
		source = SourceDemo
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Confidence > categories[j].Confidence
	})

	e.shufflePlaces(categories)

	log.Info().Int("categories", len(categories)).Str("source", source).Msg("cycle complete")

	return &Result{
		Categories:  categories,
		Source:      source,
		GeneratedAt: e.now(),
	}
}

// searchAndScore searches every descriptor's query concurrently, attaches
// score-ranked places, and drops descriptors whose place list came back
// empty. The searches share no mutable state; each goroutine writes only
// its own slot.
func (e *Engine) searchAndScore(ctx context.Context, descriptors []models.CategoryDescriptor, fp *models.UserFingerprint, lat, lon, radiusMeters float64) []models.CategoryDescriptor {
	if len(descriptors) == 0 {
		return nil
	}

	results := make([][]models.Place, len(descriptors))

	var wg sync.WaitGroup
	for i := range descriptors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			places := e.searcher.Search(ctx, descriptors[i].SearchQuery, lat, lon, radiusMeters)
			results[i] = RankByScore(places, fp, lat, lon)
		}(i)
	}
	wg.Wait()

	out := make([]models.CategoryDescriptor, 0, len(descriptors))
	for i, d := range descriptors {
		if len(results[i]) == 0 {
			continue
		}
		for j := range results[i] {
			results[i][j].Category = d.Category
		}
		d.Places = results[i]
		out = append(out, d)
	}
	return out
}

// shufflePlaces randomizes each category's place order. Score order
// decides inclusion; display order is randomized so repeat sessions do
// not present identical lists.
func (e *Engine) shufflePlaces(categories []models.CategoryDescriptor) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	for i := range categories {
		places := categories[i].Places
		e.rng.Shuffle(len(places), func(a, b int) {
			places[a], places[b] = places[b], places[a]
		})
	}
}

// fromCache returns a live cached result or nil.
func (e *Engine) fromCache(key string) *Result {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()
	entry, ok := e.cache[key]
	if !ok || e.now().After(entry.expiresAt) {
		return nil
	}
	return entry.result
}

// store caches the result unless a newer cycle already holds the key.
// Reports whether the result was kept.
func (e *Engine) store(key string, cycleID uint64, result *Result) bool {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if existing, ok := e.cache[key]; ok && existing.cycleID > cycleID {
		return false
	}

	e.cache[key] = cacheEntry{
		result:    result,
		cycleID:   cycleID,
		expiresAt: e.now().Add(e.cfg.ResultTTL),
	}
	return true
}

// cacheKey quantizes coordinates to ~100m so small GPS jitter does not
// defeat the cache.
func cacheKey(req Request) string {
	return fmt.Sprintf("%s|%.3f|%.3f|%.1f", req.UserID, req.Lat, req.Lon, req.RadiusMiles)
}
