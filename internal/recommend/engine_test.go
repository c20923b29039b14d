// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package recommend

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/planit-app/discovery/internal/config"
	"github.com/planit-app/discovery/internal/logging"
	"github.com/planit-app/discovery/internal/models"
)

type fakeGenerator struct {
	descriptors []models.CategoryDescriptor
	calls       atomic.Int64
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) []models.CategoryDescriptor {
	g.calls.Add(1)
	return g.descriptors
}

// fakeSearcher returns canned places per query; queries with no entry get
// an empty list, mirroring a failed or empty search. Searches run
// concurrently, so the call log is guarded.
type fakeSearcher struct {
	byQuery map[string][]models.Place
	mu      sync.Mutex
	queries []string
}

func (s *fakeSearcher) Search(ctx context.Context, query string, lat, lon, radiusMeters float64) []models.Place {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.byQuery[query]
}

type noWeather struct{}

func (noWeather) Current(ctx context.Context, lat, lon float64) string { return "" }

type fakeFingerprints struct {
	fp  *models.UserFingerprint
	err error
}

func (f *fakeFingerprints) Fingerprint(ctx context.Context, userID string) (*models.UserFingerprint, error) {
	return f.fp, f.err
}

func testEngineConfig() config.RecommendConfig {
	return config.RecommendConfig{
		CategoryCount:      12,
		MinCategories:      3,
		DefaultRadiusMiles: 2.0,
		ResultTTL:          time.Minute,
		Seed:               42,
	}
}

func descriptor(id, query string, category models.PlaceCategory, confidence float64) models.CategoryDescriptor {
	return models.CategoryDescriptor{
		ID:          id,
		Title:       id,
		Subtitle:    "sub",
		Reasoning:   "because",
		SearchQuery: query,
		Category:    category,
		Confidence:  confidence,
	}
}

func somePlaces(ids ...string) []models.Place {
	out := make([]models.Place, 0, len(ids))
	for _, id := range ids {
		p := models.NewPlace(id, id, models.CategoryRestaurants, 4.0)
		p.GooglePlaceID = id
		p.Location = &models.Coordinates{Latitude: userLat + 0.001, Longitude: userLon}
		out = append(out, p)
	}
	return out
}

func newTestEngine(gen Generator, searcher Searcher, fps FingerprintSource) *Engine {
	return NewEngine(testEngineConfig(), fps, gen, searcher, noWeather{}, logging.NewTestLogger(io.Discard))
}

func TestRecommendGeneratedPath(t *testing.T) {
	gen := &fakeGenerator{descriptors: []models.CategoryDescriptor{
		descriptor("late-night", "late night eats", models.CategoryRestaurants, 0.7),
		descriptor("cozy-cafes", "cozy cafes", models.CategoryCafes, 0.9),
		descriptor("dive-bars", "dive bars", models.CategoryBars, 0.8),
	}}
	searcher := &fakeSearcher{byQuery: map[string][]models.Place{
		"late night eats": somePlaces("a", "b"),
		"cozy cafes":      somePlaces("c"),
		"dive bars":       somePlaces("d", "e", "f"),
	}}

	e := newTestEngine(gen, searcher, &fakeFingerprints{})
	res, err := e.Recommend(context.Background(), Request{UserID: "u1", Lat: userLat, Lon: userLon})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if res.Source != SourceGenerated {
		t.Errorf("source = %q, want %q", res.Source, SourceGenerated)
	}
	if len(res.Categories) != 3 {
		t.Fatalf("got %d categories, want 3", len(res.Categories))
	}

	// Confidence descending.
	wantOrder := []string{"cozy-cafes", "dive-bars", "late-night"}
	for i, want := range wantOrder {
		if res.Categories[i].ID != want {
			t.Errorf("categories[%d] = %q, want %q", i, res.Categories[i].ID, want)
		}
	}

	// Non-emptiness and category propagation onto places.
	for _, c := range res.Categories {
		if len(c.Places) == 0 {
			t.Errorf("category %q has empty place list", c.ID)
		}
		for _, p := range c.Places {
			if p.Category != c.Category {
				t.Errorf("place %q category = %q, want %q", p.ID, p.Category, c.Category)
			}
		}
	}
}

func TestRecommendDropsEmptyCategories(t *testing.T) {
	gen := &fakeGenerator{descriptors: []models.CategoryDescriptor{
		descriptor("good-1", "q1", models.CategoryRestaurants, 0.8),
		descriptor("empty", "q-empty", models.CategoryBars, 0.9),
		descriptor("good-2", "q2", models.CategoryCafes, 0.8),
		descriptor("good-3", "q3", models.CategoryVenues, 0.8),
	}}
	searcher := &fakeSearcher{byQuery: map[string][]models.Place{
		"q1": somePlaces("a"),
		"q2": somePlaces("b"),
		"q3": somePlaces("c"),
	}}

	e := newTestEngine(gen, searcher, &fakeFingerprints{})
	res, _ := e.Recommend(context.Background(), Request{UserID: "u1", Lat: userLat, Lon: userLon})

	if len(res.Categories) != 3 {
		t.Fatalf("got %d categories, want 3 (empty one dropped)", len(res.Categories))
	}
	for _, c := range res.Categories {
		if c.ID == "empty" {
			t.Error("category with no places was delivered")
		}
	}
}

func TestRecommendFallbackOnEmptyGeneration(t *testing.T) {
	// Generation produced nothing parseable; the five fixed templates are
	// searched instead.
	byQuery := make(map[string][]models.Place)
	i := 0
	for _, d := range FallbackDescriptors() {
		byQuery[d.SearchQuery] = somePlaces("fb" + string(rune('a'+i)))
		i++
	}

	gen := &fakeGenerator{}
	searcher := &fakeSearcher{byQuery: byQuery}

	e := newTestEngine(gen, searcher, &fakeFingerprints{})
	res, _ := e.Recommend(context.Background(), Request{UserID: "u1", Lat: userLat, Lon: userLon})

	if res.Source != SourceFallback {
		t.Errorf("source = %q, want %q", res.Source, SourceFallback)
	}
	if len(res.Categories) != 5 {
		t.Fatalf("got %d categories, want the 5 fixed templates", len(res.Categories))
	}
	for _, c := range res.Categories {
		if c.Confidence != FallbackConfidence {
			t.Errorf("fallback category %q confidence = %v, want %v", c.ID, c.Confidence, FallbackConfidence)
		}
		if len(c.Places) == 0 {
			t.Errorf("fallback category %q has empty place list", c.ID)
		}
	}
}

func TestRecommendFallbackRaisesBelowMinimumCount(t *testing.T) {
	// Two surviving generated categories is below the minimum of three;
	// templates are appended and generated categories still sort first.
	gen := &fakeGenerator{descriptors: []models.CategoryDescriptor{
		descriptor("gen-1", "q1", models.CategoryRestaurants, 0.9),
		descriptor("gen-2", "q2", models.CategoryCafes, 0.8),
	}}
	byQuery := map[string][]models.Place{
		"q1": somePlaces("a"),
		"q2": somePlaces("b"),
	}
	for _, d := range FallbackDescriptors() {
		byQuery[d.SearchQuery] = somePlaces("fb-" + d.ID)
	}
	searcher := &fakeSearcher{byQuery: byQuery}

	e := newTestEngine(gen, searcher, &fakeFingerprints{})
	res, _ := e.Recommend(context.Background(), Request{UserID: "u1", Lat: userLat, Lon: userLon})

	if res.Source != SourceFallback {
		t.Errorf("source = %q, want %q", res.Source, SourceFallback)
	}
	if len(res.Categories) != 7 {
		t.Fatalf("got %d categories, want 2 generated + 5 templates", len(res.Categories))
	}
	if res.Categories[0].ID != "gen-1" || res.Categories[1].ID != "gen-2" {
		t.Errorf("generated categories must sort ahead of templates, got [%s %s]",
			res.Categories[0].ID, res.Categories[1].ID)
	}
}

func TestRecommendDemoWhenEverythingEmpty(t *testing.T) {
	e := newTestEngine(&fakeGenerator{}, &fakeSearcher{byQuery: map[string][]models.Place{}}, &fakeFingerprints{})
	res, err := e.Recommend(context.Background(), Request{UserID: "u1", Lat: userLat, Lon: userLon})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if res.Source != SourceDemo {
		t.Errorf("source = %q, want %q", res.Source, SourceDemo)
	}
	if len(res.Categories) == 0 {
		t.Fatal("demo result is empty; output must never be empty")
	}
	for _, c := range res.Categories {
		if len(c.Places) == 0 {
			t.Errorf("demo category %q has empty place list", c.ID)
		}
		for _, p := range c.Places {
			if !p.IsDemo() {
				t.Errorf("demo place %q carries an external place identity", p.ID)
			}
		}
	}
}

func TestRecommendFingerprintFailureDegradesGracefully(t *testing.T) {
	gen := &fakeGenerator{descriptors: []models.CategoryDescriptor{
		descriptor("gen-1", "q1", models.CategoryRestaurants, 0.9),
		descriptor("gen-2", "q2", models.CategoryCafes, 0.8),
		descriptor("gen-3", "q3", models.CategoryBars, 0.7),
	}}
	searcher := &fakeSearcher{byQuery: map[string][]models.Place{
		"q1": somePlaces("a"), "q2": somePlaces("b"), "q3": somePlaces("c"),
	}}
	fps := &fakeFingerprints{err: context.DeadlineExceeded}

	e := newTestEngine(gen, searcher, fps)
	res, err := e.Recommend(context.Background(), Request{UserID: "u1", Lat: userLat, Lon: userLon})
	if err != nil {
		t.Fatalf("fingerprint failure must not fail the cycle: %v", err)
	}
	if len(res.Categories) != 3 {
		t.Errorf("got %d categories, want 3", len(res.Categories))
	}
}

func TestRecommendCachesResults(t *testing.T) {
	gen := &fakeGenerator{descriptors: []models.CategoryDescriptor{
		descriptor("gen-1", "q1", models.CategoryRestaurants, 0.9),
		descriptor("gen-2", "q2", models.CategoryCafes, 0.8),
		descriptor("gen-3", "q3", models.CategoryBars, 0.7),
	}}
	searcher := &fakeSearcher{byQuery: map[string][]models.Place{
		"q1": somePlaces("a"), "q2": somePlaces("b"), "q3": somePlaces("c"),
	}}

	e := newTestEngine(gen, searcher, &fakeFingerprints{})
	req := Request{UserID: "u1", Lat: userLat, Lon: userLon}

	first, _ := e.Recommend(context.Background(), req)
	second, _ := e.Recommend(context.Background(), req)

	if gen.calls.Load() != 1 {
		t.Errorf("generator called %d times, want 1 (second request cached)", gen.calls.Load())
	}
	if first != second {
		t.Error("cached request returned a different result")
	}

	// Refresh forces a fresh cycle.
	req.Refresh = true
	e.Recommend(context.Background(), req)
	if gen.calls.Load() != 2 {
		t.Errorf("generator called %d times after refresh, want 2", gen.calls.Load())
	}
}

func TestRecommendShufflePreservesPlaceSet(t *testing.T) {
	places := somePlaces("a", "b", "c", "d", "e", "f", "g", "h")
	gen := &fakeGenerator{descriptors: []models.CategoryDescriptor{
		descriptor("gen-1", "q1", models.CategoryRestaurants, 0.9),
		descriptor("gen-2", "q2", models.CategoryCafes, 0.8),
		descriptor("gen-3", "q3", models.CategoryBars, 0.7),
	}}
	searcher := &fakeSearcher{byQuery: map[string][]models.Place{
		"q1": places, "q2": somePlaces("x"), "q3": somePlaces("y"),
	}}

	e := newTestEngine(gen, searcher, &fakeFingerprints{})
	res, _ := e.Recommend(context.Background(), Request{UserID: "u1", Lat: userLat, Lon: userLon})

	var got []models.Place
	for _, c := range res.Categories {
		if c.ID == "gen-1" {
			got = c.Places
		}
	}
	if len(got) != len(places) {
		t.Fatalf("shuffle changed place count: %d != %d", len(got), len(places))
	}
	seen := make(map[string]bool, len(got))
	for _, p := range got {
		seen[p.ID] = true
	}
	for _, p := range places {
		if !seen[p.ID] {
			t.Errorf("place %q lost in shuffle", p.ID)
		}
	}
}

func TestRecommendDefaultRadiusApplied(t *testing.T) {
	gen := &fakeGenerator{descriptors: []models.CategoryDescriptor{
		descriptor("gen-1", "q1", models.CategoryRestaurants, 0.9),
	}}
	searcher := &fakeSearcher{byQuery: map[string][]models.Place{"q1": somePlaces("a")}}

	e := newTestEngine(gen, searcher, &fakeFingerprints{})
	// RadiusMiles zero: the configured default must be used, so the cache
	// key for an explicit 2.0 request is identical.
	e.Recommend(context.Background(), Request{UserID: "u1", Lat: userLat, Lon: userLon})
	e.Recommend(context.Background(), Request{UserID: "u1", Lat: userLat, Lon: userLon, RadiusMiles: 2.0})

	if gen.calls.Load() != 1 {
		t.Errorf("generator called %d times, want 1 (default radius should share cache key with explicit 2.0)", gen.calls.Load())
	}
}
