// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package fingerprint

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/rs/zerolog"

	"github.com/planit-app/discovery/internal/metrics"
	"github.com/planit-app/discovery/internal/models"
)

// Recorder translates user interactions into fingerprint updates.
//
// Per-kind mutation table:
//
//	liked         add to likes, pull from dislikes, inc likeCount,
//	              inc each descriptive tag's affinity
//	disliked      add to dislikes, pull from likes, inc dislikeCount
//	bookmarked    same as liked minus the tag-affinity increments
//	shared        tag-affinity increments only
//	visited       tag-affinity increments only
//	reviewed      tag-affinity increments only
//	called        aggregate view counter only
//	navigated     aggregate view counter only
//	photographed  aggregate view counter only
//	recommended   aggregate view counter only
//	viewed        aggregate view counter only
//
// Every kind also appends to the bounded interaction log and touches the
// last-interaction marker.
//
// Failure policy: store-write errors are logged and swallowed. The next
// cycle reads a slightly stale fingerprint; nothing surfaces to the user.
type Recorder struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder over the given store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRecorder(store Store, logger zerolog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger.With().Str("component", "recorder").Logger(),
		now:    time.Now,
	}
}

// Record applies one interaction to the user's fingerprint.
func (r *Recorder) Record(ctx context.Context, userID string, place models.Place, kind models.InteractionKind) {
	if !models.ValidInteractionKind(kind) {
		metrics.InteractionEvents.WithLabelValues(string(kind), "invalid").Inc()
		r.logger.Warn().Str("user_id", userID).Str("kind", string(kind)).Msg("unknown interaction kind ignored")
		return
	}

	update := r.buildUpdate(place, kind)
	if err := r.store.Update(ctx, userID, update); err != nil {
		metrics.InteractionEvents.WithLabelValues(string(kind), "failed").Inc()
		r.logger.Error().Err(err).Str("user_id", userID).Str("kind", string(kind)).Str("place_id", place.ID).Msg("fingerprint update failed, interaction dropped")
		return
	}

	metrics.InteractionEvents.WithLabelValues(string(kind), "recorded").Inc()
	r.logger.Debug().Str("user_id", userID).Str("kind", string(kind)).Str("place_id", place.ID).Msg("interaction recorded")
}

// buildUpdate assembles the operator-form update for one interaction.
func (r *Recorder) buildUpdate(place models.Place, kind models.InteractionKind) bson.M {
	inc := bson.M{}
	addToSet := bson.M{}
	pull := bson.M{}

	switch kind {
	case models.InteractionLiked:
		addToSet["likes"] = place.Name
		pull["dislikes"] = place.Name
		inc["likeCount"] = 1
		addTagIncrements(inc, place.DescriptiveTags)

	case models.InteractionDisliked:
		addToSet["dislikes"] = place.Name
		pull["likes"] = place.Name
		inc["dislikeCount"] = 1

	case models.InteractionBookmarked:
		addToSet["likes"] = place.Name
		pull["dislikes"] = place.Name
		inc["likeCount"] = 1

	case models.InteractionShared, models.InteractionVisited, models.InteractionReviewed:
		addTagIncrements(inc, place.DescriptiveTags)

	case models.InteractionCalled, models.InteractionNavigated,
		models.InteractionPhotographed, models.InteractionRecommended,
		models.InteractionViewed:
		inc["viewCount"] = 1
	}

	entry := models.InteractionLog{
		PlaceID:    place.ID,
		PlaceName:  place.Name,
		Category:   place.Category,
		Kind:       kind,
		Timestamp:  r.now().UTC(),
		Location:   place.Location,
		Rating:     place.Rating,
		PriceRange: place.PriceRange,
	}

	update := bson.M{
		// Negative $slice keeps the newest entries once the cap is hit.
		"$push": bson.M{
			"interactionLogs": bson.M{
				"$each":  []models.InteractionLog{entry},
				"$slice": -models.InteractionLogCap,
			},
		},
		"$currentDate": bson.M{"lastInteractionAt": true},
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	if len(addToSet) > 0 {
		update["$addToSet"] = addToSet
	}
	if len(pull) > 0 {
		update["$pull"] = pull
	}
	return update
}

func addTagIncrements(inc bson.M, tags []string) {
	for _, tag := range tags {
		inc["tagAffinities."+tag] = 1
	}
}
