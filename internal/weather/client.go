// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package weather fetches current conditions from Open-Meteo to enrich
// generation prompts. Weather is strictly decorative context: every failure
// mode yields an empty string and the pipeline proceeds without it.
package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/planit-app/discovery/internal/config"
)

// Provider supplies a one-line weather summary for a location.
type Provider interface {
	// Current returns a short human-readable summary like
	// "clear sky, 64°F" or "" if conditions are unavailable.
	Current(ctx context.Context, lat, lon float64) string
}

// Client is the Open-Meteo implementation of Provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Disabled is a Provider that always returns no conditions. Used when
// weather enrichment is turned off in configuration.
type Disabled struct{}

// Current implements Provider.
func (Disabled) Current(ctx context.Context, lat, lon float64) string { return "" }

// NewClient creates an Open-Meteo client from configuration.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg config.WeatherConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "weather").Logger(),
	}
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Current implements Provider.
func (c *Client) Current(ctx context.Context, lat, lon float64) string {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	params.Set("current_weather", "true")
	params.Set("temperature_unit", "fahrenheit")

	reqURL := fmt.Sprintf("%s/forecast?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return ""
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("weather fetch failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("weather fetch failed")
		return ""
	}

	var parsed forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Debug().Err(err).Msg("weather response decode failed")
		return ""
	}

	summary := fmt.Sprintf("%s, %.0f°F",
		describeWeatherCode(parsed.CurrentWeather.WeatherCode),
		parsed.CurrentWeather.Temperature)

	c.logger.Debug().Str("summary", summary).Dur("duration", time.Since(start)).Msg("weather fetched")
	return summary
}

// describeWeatherCode maps WMO weather interpretation codes to short
// descriptions. Unknown codes fall back to a generic phrase rather than
// leaking the numeric code into a prompt.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 2:
		return "partly cloudy"
	case code == 3:
		return "overcast"
	case code == 45 || code == 48:
		return "foggy"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rain showers"
	case code == 85 || code == 86:
		return "snow showers"
	case code >= 95:
		return "thunderstorms"
	default:
		return "mixed conditions"
	}
}
