// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package genai

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/planit-app/discovery/internal/metrics"
	"github.com/planit-app/discovery/internal/models"
)

// Required descriptor fields; an object missing any of these is dropped.
var requiredDescriptorFields = []string{"id", "title", "subtitle", "reasoning", "searchQuery", "category"}

// Adapter turns raw generation responses into category descriptors.
//
// Parsing is deliberately forgiving at the item level and strict at the
// array level: individual malformed objects are dropped with a log line,
// while an unparseable top-level array yields an empty result set, a
// normal "no categories produced" outcome the assembler handles via its
// fallback path, never an error.
type Adapter struct {
	gen     TextGenerator
	timeout time.Duration
	logger  zerolog.Logger
}

// NewAdapter creates a generation adapter with a bounded per-call timeout.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAdapter(gen TextGenerator, timeout time.Duration, logger zerolog.Logger) *Adapter {
	return &Adapter{
		gen:     gen,
		timeout: timeout,
		logger:  logger.With().Str("component", "genai").Logger(),
	}
}

// Generate sends the prompt and parses the response into descriptors.
// Transport failures and unparseable responses both return an empty slice
// and nil error; the caller distinguishes neither.
func (a *Adapter) Generate(ctx context.Context, prompt string) []models.CategoryDescriptor {
	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.gen.GenerateText(genCtx, prompt)
	if err != nil {
		metrics.GenerationRequests.WithLabelValues("error").Inc()
		a.logger.Warn().Err(err).Msg("generation call failed")
		return nil
	}

	descriptors := a.parseDescriptors(raw)
	if descriptors == nil {
		metrics.GenerationRequests.WithLabelValues("unparseable").Inc()
		return nil
	}

	metrics.GenerationRequests.WithLabelValues("success").Inc()
	return descriptors
}

// parseDescriptors performs the best-effort parse of a raw response.
// Returns nil when the top-level array cannot be recovered at all.
func (a *Adapter) parseDescriptors(raw string) []models.CategoryDescriptor {
	cleaned := extractJSONArray(raw)
	if cleaned == "" {
		a.logger.Warn().Int("response_len", len(raw)).Msg("no JSON array found in generation response")
		return nil
	}

	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		a.logger.Warn().Err(err).Msg("generation response is not a JSON array of objects")
		return nil
	}

	descriptors := make([]models.CategoryDescriptor, 0, len(items))
	for i, item := range items {
		desc, ok := a.descriptorFromObject(item)
		if !ok {
			metrics.GenerationDescriptorsDropped.Inc()
			a.logger.Debug().Int("index", i).Msg("dropped descriptor missing required field")
			continue
		}
		descriptors = append(descriptors, desc)
	}

	return descriptors
}

// descriptorFromObject converts one parsed object, applying the documented
// per-field defaults for absent or wrong-typed optional fields. Objects
// missing any required field are rejected.
func (a *Adapter) descriptorFromObject(obj map[string]interface{}) (models.CategoryDescriptor, bool) {
	for _, field := range requiredDescriptorFields {
		if s, ok := stringField(obj, field); !ok || strings.TrimSpace(s) == "" {
			return models.CategoryDescriptor{}, false
		}
	}

	id, _ := stringField(obj, "id")
	title, _ := stringField(obj, "title")
	subtitle, _ := stringField(obj, "subtitle")
	reasoning, _ := stringField(obj, "reasoning")
	searchQuery, _ := stringField(obj, "searchQuery")
	rawCategory, _ := stringField(obj, "category")

	category, known := models.ParsePlaceCategory(rawCategory)
	if !known {
		// Policy: unrecognized categories fold into restaurants.
		a.logger.Debug().Str("category", rawCategory).Msg("unknown category, defaulting to restaurants")
	}

	return models.CategoryDescriptor{
		ID:                id,
		Title:             title,
		Subtitle:          subtitle,
		Reasoning:         reasoning,
		SearchQuery:       searchQuery,
		Category:          category,
		Confidence:        floatFieldOr(obj, "confidence", models.DefaultConfidence),
		PersonalizedEmoji: stringFieldOr(obj, "personalizedEmoji", models.DefaultEmoji),
		VibeDescription:   stringFieldOr(obj, "vibeDescription", models.DefaultVibeDescription),
		SocialProofText:   stringFieldOr(obj, "socialProofText", ""),
		PsychologyHook:    stringFieldOr(obj, "psychologyHook", ""),
	}, true
}

// extractJSONArray strips markdown fencing and surrounding prose, returning
// the substring from the first '[' through the last ']'. Empty string when
// no array-shaped region exists.
func extractJSONArray(raw string) string {
	s := strings.TrimSpace(raw)

	// Models occasionally fence output despite instructions.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// stringField reads a string-typed field; ok is false when absent or not a
// string.
func stringField(obj map[string]interface{}, key string) (string, bool) {
	v, present := obj[key]
	if !present {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// stringFieldOr reads an optional string field, falling back to def when
// absent, empty after trimming, or wrong-typed.
func stringFieldOr(obj map[string]interface{}, key, def string) string {
	if s, ok := stringField(obj, key); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return def
}

// floatFieldOr reads an optional numeric field, falling back to def when
// absent, wrong-typed, or outside [0,1].
func floatFieldOr(obj map[string]interface{}, key string, def float64) float64 {
	v, present := obj[key]
	if !present {
		return def
	}
	f, ok := v.(float64)
	if !ok || f < 0 || f > 1 {
		return def
	}
	return f
}
