// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package models

import "time"

// InteractionLogCap bounds the fingerprint's rolling interaction log. The
// store keeps the most recent entries and drops the oldest on append.
const InteractionLogCap = 100

// InteractionKind enumerates the user actions the recorder understands.
type InteractionKind string

// Known interaction kinds. Only a subset mutates like/dislike state; see
// the fingerprint.Recorder documentation for the per-kind update table.
const (
	InteractionLiked        InteractionKind = "liked"
	InteractionDisliked     InteractionKind = "disliked"
	InteractionBookmarked   InteractionKind = "bookmarked"
	InteractionShared       InteractionKind = "shared"
	InteractionVisited      InteractionKind = "visited"
	InteractionCalled       InteractionKind = "called"
	InteractionNavigated    InteractionKind = "navigated"
	InteractionReviewed     InteractionKind = "reviewed"
	InteractionPhotographed InteractionKind = "photographed"
	InteractionRecommended  InteractionKind = "recommended"
	InteractionViewed       InteractionKind = "viewed"
)

// ValidInteractionKind reports whether k is one of the known kinds.
func ValidInteractionKind(k InteractionKind) bool {
	switch k {
	case InteractionLiked, InteractionDisliked, InteractionBookmarked,
		InteractionShared, InteractionVisited, InteractionCalled,
		InteractionNavigated, InteractionReviewed, InteractionPhotographed,
		InteractionRecommended, InteractionViewed:
		return true
	default:
		return false
	}
}

// InteractionLog is one entry in the fingerprint's bounded interaction log.
type InteractionLog struct {
	PlaceID    string          `json:"place_id" bson:"placeId"`
	PlaceName  string          `json:"place_name" bson:"placeName"`
	Category   PlaceCategory   `json:"category" bson:"category"`
	Kind       InteractionKind `json:"kind" bson:"kind"`
	Timestamp  time.Time       `json:"timestamp" bson:"timestamp"`
	Location   *Coordinates    `json:"location,omitempty" bson:"location,omitempty"`
	Rating     float64         `json:"rating,omitempty" bson:"rating,omitempty"`
	PriceRange PriceRange      `json:"price_range,omitempty" bson:"priceRange,omitempty"`
}

// OnboardingResponse is one question/answer pair captured at signup.
type OnboardingResponse struct {
	Question string   `json:"question" bson:"question"`
	Selected []string `json:"selected" bson:"selected"`
}

// UserFingerprint is a user's accumulated preference profile. It is created
// at account creation, mutated incrementally by the interaction recorder,
// and read once at the start of each recommendation cycle.
//
// Likes and Dislikes are place-name sets; the store deduplicates membership
// ($addToSet) while the counters are incremented unconditionally, so liking
// the same place twice leaves one set entry but bumps LikeCount twice.
type UserFingerprint struct {
	UserID        string         `json:"user_id" bson:"_id"`
	Likes         []string       `json:"likes" bson:"likes"`
	Dislikes      []string       `json:"dislikes" bson:"dislikes"`
	LikeCount     int            `json:"like_count" bson:"likeCount"`
	DislikeCount  int            `json:"dislike_count" bson:"dislikeCount"`
	ViewCount     int            `json:"view_count" bson:"viewCount"`
	TagAffinities map[string]int `json:"tag_affinities" bson:"tagAffinities"`

	InteractionLogs     []InteractionLog     `json:"interaction_logs" bson:"interactionLogs"`
	OnboardingResponses []OnboardingResponse `json:"onboarding_responses" bson:"onboardingResponses"`

	LastInteractionAt time.Time `json:"last_interaction_at" bson:"lastInteractionAt"`
}

// LikeRatio returns likes/max(1, likes+dislikes). Only a nil receiver (no
// fingerprint at all) yields the neutral 0.5; an existing fingerprint with
// zero recorded reactions yields 0.
func (f *UserFingerprint) LikeRatio() float64 {
	if f == nil {
		return 0.5
	}
	total := f.LikeCount + f.DislikeCount
	if total < 1 {
		total = 1
	}
	return float64(f.LikeCount) / float64(total)
}

// TagAffinity returns the affinity weight for a tag, zero when absent or
// when the receiver is nil.
func (f *UserFingerprint) TagAffinity(tag string) int {
	if f == nil || f.TagAffinities == nil {
		return 0
	}
	return f.TagAffinities[tag]
}
