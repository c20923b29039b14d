// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	if cfg.Server.Port != 8480 {
		t.Errorf("default port = %d, want 8480", cfg.Server.Port)
	}
	if cfg.Recommend.CategoryCount != 12 {
		t.Errorf("default category count = %d, want 12", cfg.Recommend.CategoryCount)
	}
	if cfg.Recommend.DefaultRadiusMiles != 2.0 {
		t.Errorf("default radius = %f, want 2.0", cfg.Recommend.DefaultRadiusMiles)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Mongo.URI != "mongodb://127.0.0.1:27017" {
		t.Errorf("mongo URI = %q", cfg.Mongo.URI)
	}
	if cfg.Weather.Enabled != true {
		t.Error("weather should default to enabled")
	}
	if cfg.Recommend.ResultTTL != 10*time.Minute {
		t.Errorf("result TTL = %v, want 10m", cfg.Recommend.ResultTTL)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("DISCOVERY_SERVER_PORT", "9090")
	t.Setenv("DISCOVERY_MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("DISCOVERY_PLACES_API_KEY", "test-key")
	t.Setenv("DISCOVERY_RECOMMEND_RESULT_TTL", "5m")
	t.Setenv("DISCOVERY_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Mongo.URI != "mongodb://mongo:27017" {
		t.Errorf("mongo URI = %q", cfg.Mongo.URI)
	}
	if cfg.Places.APIKey != "test-key" {
		t.Errorf("places api key = %q", cfg.Places.APIKey)
	}
	if cfg.Recommend.ResultTTL != 5*time.Minute {
		t.Errorf("result TTL = %v, want 5m", cfg.Recommend.ResultTTL)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != "https://a.example" {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoadConfigFileAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "server:\n  port: 7000\nmongo:\n  database: filedb\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("DISCOVERY_SERVER_PORT", "7100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Env beats file, file beats defaults.
	if cfg.Server.Port != 7100 {
		t.Errorf("port = %d, want env override 7100", cfg.Server.Port)
	}
	if cfg.Mongo.Database != "filedb" {
		t.Errorf("mongo database = %q, want filedb", cfg.Mongo.Database)
	}
	if cfg.Mongo.Collection != "fingerprints" {
		t.Errorf("mongo collection = %q, want default", cfg.Mongo.Collection)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DISCOVERY_SERVER_PORT", "server.port"},
		{"DISCOVERY_MONGO_URI", "mongo.uri"},
		{"DISCOVERY_PLACES_API_KEY", "places.api_key"},
		{"DISCOVERY_RECOMMEND_DEFAULT_RADIUS_MILES", "recommend.default_radius_miles"},
		{"DISCOVERY_LOGGING_LEVEL", "logging.level"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"empty mongo uri", func(c *Config) { c.Mongo.URI = "" }},
		{"zero min categories", func(c *Config) { c.Recommend.MinCategories = 0 }},
		{"count below minimum", func(c *Config) { c.Recommend.CategoryCount = 2 }},
		{"non-positive radius", func(c *Config) { c.Recommend.DefaultRadiusMiles = 0 }},
		{"zero places timeout", func(c *Config) { c.Places.Timeout = 0 }},
		{"zero genai timeout", func(c *Config) { c.GenAI.Timeout = 0 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
