// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package config loads and validates service configuration from layered
// sources using Koanf v2: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the discovery service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Mongo     MongoConfig     `koanf:"mongo"`
	GenAI     GenAIConfig     `koanf:"genai"`
	Places    PlacesConfig    `koanf:"places"`
	Weather   WeatherConfig   `koanf:"weather"`
	Prefs     PrefsConfig     `koanf:"prefs"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// MongoConfig holds the profile document store settings.
type MongoConfig struct {
	URI        string        `koanf:"uri"`
	Database   string        `koanf:"database"`
	Collection string        `koanf:"collection"`
	Timeout    time.Duration `koanf:"timeout"`
}

// GenAIConfig holds the generative text API settings.
type GenAIConfig struct {
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Temperature float64       `koanf:"temperature"`
	Timeout     time.Duration `koanf:"timeout"`
}

// PlacesConfig holds the places search API settings.
//
// BaseURL is overridable so tests can point the client at a local server;
// production deployments leave it at the default.
type PlacesConfig struct {
	APIKey     string        `koanf:"api_key"`
	BaseURL    string        `koanf:"base_url"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxResults int           `koanf:"max_results"`
	// RequestsPerSecond paces outbound search calls across all
	// concurrent category searches.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// WeatherConfig holds the weather context provider settings.
type WeatherConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// PrefsConfig holds the local key-value preference store settings.
type PrefsConfig struct {
	Path string `koanf:"path"`
	// InMemory runs Badger without disk persistence; used by tests.
	InMemory bool `koanf:"in_memory"`
}

// RecommendConfig holds the recommendation pipeline settings.
type RecommendConfig struct {
	// CategoryCount is the number of descriptors requested from the
	// generation API per cycle.
	CategoryCount int `koanf:"category_count"`
	// MinCategories is the threshold below which the fallback template
	// path is invoked.
	MinCategories int `koanf:"min_categories"`
	// DefaultRadiusMiles is used when the user has no stored preference.
	DefaultRadiusMiles float64       `koanf:"default_radius_miles"`
	ResultTTL          time.Duration `koanf:"result_ttl"`
	// Seed fixes the presentation shuffle for reproducible runs; 0 seeds
	// from the current time.
	Seed int64 `koanf:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if c.Recommend.MinCategories < 1 {
		return fmt.Errorf("recommend.min_categories must be at least 1, got %d", c.Recommend.MinCategories)
	}
	if c.Recommend.CategoryCount < c.Recommend.MinCategories {
		return fmt.Errorf("recommend.category_count (%d) must be >= recommend.min_categories (%d)",
			c.Recommend.CategoryCount, c.Recommend.MinCategories)
	}
	if c.Recommend.DefaultRadiusMiles <= 0 {
		return fmt.Errorf("recommend.default_radius_miles must be positive, got %f", c.Recommend.DefaultRadiusMiles)
	}
	if c.Places.Timeout <= 0 {
		return fmt.Errorf("places.timeout must be positive")
	}
	if c.GenAI.Timeout <= 0 {
		return fmt.Errorf("genai.timeout must be positive")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
