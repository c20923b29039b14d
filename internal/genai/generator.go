// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package genai builds generation prompts and adapts raw generative-API
// responses into typed category descriptors.
//
// The package depends only on the narrow TextGenerator interface for the
// actual model call; production wires the Gemini implementation and tests
// supply canned responses.
package genai

import (
	"context"
	"fmt"

	gemini "google.golang.org/genai"

	"github.com/planit-app/discovery/internal/config"
)

// TextGenerator produces raw text for a prompt. Implementations own their
// transport concerns; callers only see a string or an error.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator implements TextGenerator against the Google Gen AI API.
type GeminiGenerator struct {
	client      *gemini.Client
	model       string
	temperature float32
}

// NewGeminiGenerator creates a Gemini-backed text generator.
func NewGeminiGenerator(ctx context.Context, cfg config.GenAIConfig) (*GeminiGenerator, error) {
	client, err := gemini.NewClient(ctx, &gemini.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: gemini.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiGenerator{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}, nil
}

// GenerateText sends the prompt and returns the concatenated text parts of
// the first candidate.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, gemini.Text(prompt), &gemini.GenerateContentConfig{
		Temperature: gemini.Ptr(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("generation returned no text")
	}
	return text, nil
}
