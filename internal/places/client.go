// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package places implements the Google Places text-search adapter.
//
// The adapter converts raw search results into models.Place values and
// applies a mandatory client-side distance recheck: the upstream text
// search biases by location but does not strictly honor the radius
// parameter, so every result is re-measured against the requested radius
// before it can enter a category.
//
// Error policy: transport failures, non-2xx responses, and an open circuit
// breaker all yield an empty place list for that category. Rate-limited
// (429) responses are retried a bounded number of times, waiting out the
// upstream Retry-After, before counting as a failure. Empty categories are
// dropped by the assembler; nothing here crosses the pipeline boundary as
// an error.
package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/planit-app/discovery/internal/config"
	"github.com/planit-app/discovery/internal/geo"
	"github.com/planit-app/discovery/internal/metrics"
	"github.com/planit-app/discovery/internal/models"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024

const (
	// retry429Attempts bounds how many additional attempts a rate-limited
	// (429) request gets before the call is reported as failed.
	retry429Attempts = 2

	// defaultRetryAfter is used when the 429 carries no usable
	// Retry-After header; maxRetryAfter caps whatever the header asks
	// for so a hostile value cannot stall a search cycle.
	defaultRetryAfter = 1 * time.Second
	maxRetryAfter     = 10 * time.Second
)

// errRateLimited marks a 429 from the upstream; textSearch retries these.
var errRateLimited = errors.New("places request rate limited")

// Searcher is the narrow search contract the recommendation engine
// depends on. Implemented by Client in production and by fakes in tests.
type Searcher interface {
	// Search returns places matching the free-text query within
	// radiusMeters of (lat, lon). The returned list is already
	// distance-filtered; it is empty on any failure.
	Search(ctx context.Context, query string, lat, lon, radiusMeters float64) []models.Place
}

// Client is the production Google Places text-search client.
//
// Thread safety: safe for concurrent use; each request creates its own
// HTTP request, and the limiter and breaker are concurrency-safe.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *breaker
	maxResults int
	logger     zerolog.Logger
}

// NewClient creates a places client from configuration.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg config.PlacesConfig, logger zerolog.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		breaker:    newBreaker("places-api"),
		maxResults: cfg.MaxResults,
		logger:     logger.With().Str("component", "places").Logger(),
	}
}

// textSearchResponse mirrors the fields of the Places text-search payload
// the adapter consumes.
type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID          string   `json:"place_id"`
		Name             string   `json:"name"`
		Rating           float64  `json:"rating"`
		UserRatingsTotal int      `json:"user_ratings_total"`
		PriceLevel       *int     `json:"price_level"`
		Types            []string `json:"types"`
		Geometry         *struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
}

// Search implements Searcher.
func (c *Client) Search(ctx context.Context, query string, lat, lon, radiusMeters float64) []models.Place {
	start := time.Now()

	resp, err := c.breaker.execute(func() (*textSearchResponse, error) {
		return c.textSearch(ctx, query, lat, lon, radiusMeters)
	})
	metrics.PlacesSearchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if c.breaker.rejected(err) {
			metrics.PlacesSearchRequests.WithLabelValues("rejected").Inc()
		} else {
			metrics.PlacesSearchRequests.WithLabelValues("error").Inc()
		}
		c.logger.Warn().Err(err).Str("query", query).Msg("places search failed")
		return nil
	}

	metrics.PlacesSearchRequests.WithLabelValues("success").Inc()
	return c.convertAndFilter(resp, lat, lon, radiusMeters)
}

// textSearch performs the text-search call, retrying rate-limited (429)
// responses a bounded number of times and honoring the upstream
// Retry-After header between attempts.
func (c *Client) textSearch(ctx context.Context, query string, lat, lon, radiusMeters float64) (*textSearchResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= retry429Attempts; attempt++ {
		parsed, retryAfter, err := c.textSearchOnce(ctx, query, lat, lon, radiusMeters)
		if err == nil {
			return parsed, nil
		}
		lastErr = err

		// Only a 429 is worth retrying; everything else fails the
		// call immediately.
		if !errors.Is(err, errRateLimited) {
			return nil, err
		}
		if attempt == retry429Attempts {
			break
		}

		c.logger.Debug().
			Dur("retry_after", retryAfter).
			Int("attempt", attempt+1).
			Str("query", query).
			Msg("places search rate limited, backing off")

		if retryAfter > 0 {
			timer := time.NewTimer(retryAfter)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, fmt.Errorf("rate limit backoff: %w", ctx.Err())
			case <-timer.C:
			}
		}
	}
	return nil, lastErr
}

// textSearchOnce performs one HTTP call against the text-search endpoint.
// On a 429 it returns errRateLimited alongside the wait the upstream asked
// for; retryAfter is meaningless for any other error.
func (c *Client) textSearchOnce(ctx context.Context, query string, lat, lon, radiusMeters float64) (_ *textSearchResponse, retryAfter time.Duration, _ error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("location", fmt.Sprintf("%f,%f", lat, lon))
	params.Set("radius", strconv.Itoa(int(radiusMeters)))
	params.Set("key", c.apiKey)

	reqURL := fmt.Sprintf("%s/textsearch/json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), errRateLimited
	}

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, 0, fmt.Errorf("places request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("decode places response: %w", err)
	}

	// ZERO_RESULTS is a valid empty result, not a failure.
	if parsed.Status != "OK" && parsed.Status != "ZERO_RESULTS" {
		return nil, 0, fmt.Errorf("places API status %s", parsed.Status)
	}

	return &parsed, 0, nil
}

// parseRetryAfter interprets a Retry-After header as whole seconds, clamped
// to maxRetryAfter. Missing, unparseable, or negative values fall back to
// defaultRetryAfter.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}

// convertAndFilter converts raw results to Places, discarding results that
// fail required-field conversion and any result outside the radius.
func (c *Client) convertAndFilter(resp *textSearchResponse, lat, lon, radiusMeters float64) []models.Place {
	radiusMiles := geo.MetersToMiles(radiusMeters)

	out := make([]models.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		// Geometry is a required field; a place we cannot locate
		// cannot be distance-checked.
		if r.Geometry == nil || r.PlaceID == "" || r.Name == "" {
			continue
		}

		dist := geo.DistanceMiles(lat, lon, r.Geometry.Location.Lat, r.Geometry.Location.Lng)
		if dist > radiusMiles {
			metrics.PlacesDistanceFiltered.Inc()
			continue
		}

		priceLevel := 2
		if r.PriceLevel != nil {
			priceLevel = *r.PriceLevel
		}

		place := models.Place{
			ID:              r.PlaceID,
			GooglePlaceID:   r.PlaceID,
			Name:            r.Name,
			Rating:          models.ClampRating(r.Rating),
			ReviewCount:     r.UserRatingsTotal,
			PriceRange:      models.PriceRangeFromLevel(priceLevel),
			DescriptiveTags: descriptiveTagsFromTypes(r.Types),
			Location: &models.Coordinates{
				Latitude:  r.Geometry.Location.Lat,
				Longitude: r.Geometry.Location.Lng,
			},
			ImageURLs: photoURLs(c.baseURL, c.apiKey, r.Photos),
		}

		out = append(out, place)
		if c.maxResults > 0 && len(out) >= c.maxResults {
			break
		}
	}

	return out
}

// descriptiveTagsFromTypes keeps the place types that read as descriptive
// tags, dropping the API's bookkeeping types.
func descriptiveTagsFromTypes(types []string) []string {
	tags := make([]string, 0, len(types))
	for _, t := range types {
		switch t {
		case "point_of_interest", "establishment", "geocode", "plus_code":
			continue
		default:
			tags = append(tags, t)
		}
	}
	return tags
}

// photoURLs builds photo fetch URLs from photo references.
func photoURLs(baseURL, apiKey string, photos []struct {
	PhotoReference string `json:"photo_reference"`
}) []string {
	urls := make([]string, 0, len(photos))
	for _, p := range photos {
		if p.PhotoReference == "" {
			continue
		}
		urls = append(urls, fmt.Sprintf("%s/photo?maxwidth=800&photo_reference=%s&key=%s",
			baseURL, url.QueryEscape(p.PhotoReference), apiKey))
	}
	return urls
}

// readBodyForError reads a bounded amount of the response body for error
// reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}
