// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package models

// Defaults applied when the generation API omits an optional descriptor
// field or returns it with the wrong type. These values are part of the
// response contract and must not drift.
const (
	DefaultConfidence      = 0.8
	DefaultEmoji           = "📍"
	DefaultVibeDescription = "Great local spot"
)

// CategoryDescriptor is an AI-proposed thematic grouping of places, e.g.
// "Cozy Italian hideaways". Descriptors are ephemeral: generated fresh each
// recommendation cycle, never persisted, replaced wholesale on regeneration.
type CategoryDescriptor struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Subtitle    string        `json:"subtitle"`
	Reasoning   string        `json:"reasoning"`
	SearchQuery string        `json:"search_query"`
	Category    PlaceCategory `json:"category"`

	// Confidence in [0,1]; categories are presented in descending
	// confidence order.
	Confidence float64 `json:"confidence"`

	PersonalizedEmoji string `json:"personalized_emoji"`
	VibeDescription   string `json:"vibe_description"`
	SocialProofText   string `json:"social_proof_text,omitempty"`
	PsychologyHook    string `json:"psychology_hook,omitempty"`

	// Places is populated after search and scoring. Every descriptor
	// delivered to the presentation layer has a non-empty Places list.
	Places []Place `json:"places"`
}
