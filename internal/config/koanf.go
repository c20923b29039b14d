// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/planit-discovery/config.yaml",
	"/etc/planit-discovery/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces all configuration environment variables.
const envPrefix = "DISCOVERY_"

// Default constructs a Config with all built-in defaults. These are applied
// first, then overridden by the config file and environment variables.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Mongo: MongoConfig{
			URI:        "mongodb://127.0.0.1:27017",
			Database:   "planit",
			Collection: "fingerprints",
			Timeout:    10 * time.Second,
		},
		GenAI: GenAIConfig{
			APIKey:      "",
			Model:       "gemini-2.0-flash",
			Temperature: 0.7,
			Timeout:     30 * time.Second,
		},
		Places: PlacesConfig{
			APIKey:            "",
			BaseURL:           "https://maps.googleapis.com/maps/api/place",
			Timeout:           15 * time.Second,
			MaxResults:        20,
			RequestsPerSecond: 10,
		},
		Weather: WeatherConfig{
			Enabled: true,
			BaseURL: "https://api.open-meteo.com/v1",
			Timeout: 5 * time.Second,
		},
		Prefs: PrefsConfig{
			Path:     "/data/prefs",
			InMemory: false,
		},
		Recommend: RecommendConfig{
			CategoryCount:      12,
			MinCategories:      3,
			DefaultRadiusMiles: 2.0,
			ResultTTL:          10 * time.Minute,
			Seed:               0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads configuration using Koanf v2 with layered sources:
//
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: DISCOVERY_* overrides any setting
//
// Precedence is ENV > file > defaults. The returned config is validated.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// DISCOVERY_MONGO_URI -> mongo.uri, DISCOVERY_PLACES_API_KEY -> places.api_key
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envKeyMappings resolves environment variable names whose koanf paths
// cannot be derived mechanically because the field name itself contains an
// underscore.
var envKeyMappings = map[string]string{
	"server_cors_origins":            "server.cors_origins",
	"server_rate_limit_reqs":         "server.rate_limit_reqs",
	"server_rate_limit_window":       "server.rate_limit_window",
	"genai_api_key":                  "genai.api_key",
	"places_api_key":                 "places.api_key",
	"places_base_url":                "places.base_url",
	"places_max_results":             "places.max_results",
	"places_requests_per_second":     "places.requests_per_second",
	"weather_base_url":               "weather.base_url",
	"prefs_in_memory":                "prefs.in_memory",
	"recommend_category_count":       "recommend.category_count",
	"recommend_min_categories":       "recommend.min_categories",
	"recommend_default_radius_miles": "recommend.default_radius_miles",
	"recommend_result_ttl":           "recommend.result_ttl",
}

// envTransform maps DISCOVERY_SECTION_KEY to section.key. Keys with
// underscores inside the field name are resolved through envKeyMappings.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	if mapped, ok := envKeyMappings[key]; ok {
		return mapped
	}

	// Generic case: first underscore separates section from field.
	return strings.Replace(key, "_", ".", 1)
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when supplied via environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as strings but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults).
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}
