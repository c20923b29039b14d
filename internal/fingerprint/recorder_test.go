// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package fingerprint

import (
	"context"
	"errors"
	"io"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/planit-app/discovery/internal/logging"
	"github.com/planit-app/discovery/internal/models"
)

type captureStore struct {
	userID  string
	updates []bson.M
	err     error
}

func (s *captureStore) Fingerprint(ctx context.Context, userID string) (*models.UserFingerprint, error) {
	return nil, nil
}

func (s *captureStore) Update(ctx context.Context, userID string, update bson.M) error {
	s.userID = userID
	s.updates = append(s.updates, update)
	return s.err
}

func testPlace() models.Place {
	p := models.NewPlace("p1", "The Corner Trattoria", models.CategoryRestaurants, 4.5)
	p.GooglePlaceID = "p1"
	p.DescriptiveTags = []string{"italian", "cozy"}
	return p
}

func record(t *testing.T, kind models.InteractionKind) bson.M {
	t.Helper()
	store := &captureStore{}
	r := NewRecorder(store, logging.NewTestLogger(io.Discard))
	r.Record(context.Background(), "u1", testPlace(), kind)

	if len(store.updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(store.updates))
	}
	if store.userID != "u1" {
		t.Fatalf("update addressed to %q, want u1", store.userID)
	}
	return store.updates[0]
}

func opDoc(t *testing.T, update bson.M, op string) bson.M {
	t.Helper()
	doc, ok := update[op].(bson.M)
	if !ok {
		t.Fatalf("update missing %s operator: %v", op, update)
	}
	return doc
}

func TestRecordLiked(t *testing.T) {
	update := record(t, models.InteractionLiked)

	addToSet := opDoc(t, update, "$addToSet")
	if addToSet["likes"] != "The Corner Trattoria" {
		t.Errorf("$addToSet.likes = %v, want place name", addToSet["likes"])
	}
	pull := opDoc(t, update, "$pull")
	if pull["dislikes"] != "The Corner Trattoria" {
		t.Errorf("$pull.dislikes = %v, want place name", pull["dislikes"])
	}

	inc := opDoc(t, update, "$inc")
	if inc["likeCount"] != 1 {
		t.Errorf("$inc.likeCount = %v, want 1", inc["likeCount"])
	}
	if inc["tagAffinities.italian"] != 1 || inc["tagAffinities.cozy"] != 1 {
		t.Errorf("tag affinity increments missing: %v", inc)
	}
	if _, ok := inc["viewCount"]; ok {
		t.Error("liked must not touch the aggregate view counter")
	}
}

func TestRecordDisliked(t *testing.T) {
	update := record(t, models.InteractionDisliked)

	addToSet := opDoc(t, update, "$addToSet")
	if addToSet["dislikes"] != "The Corner Trattoria" {
		t.Errorf("$addToSet.dislikes = %v, want place name", addToSet["dislikes"])
	}
	pull := opDoc(t, update, "$pull")
	if pull["likes"] != "The Corner Trattoria" {
		t.Errorf("$pull.likes = %v, want place name", pull["likes"])
	}

	inc := opDoc(t, update, "$inc")
	if inc["dislikeCount"] != 1 {
		t.Errorf("$inc.dislikeCount = %v, want 1", inc["dislikeCount"])
	}
	// Dislike carries no tag-affinity penalty.
	if _, ok := inc["tagAffinities.italian"]; ok {
		t.Error("disliked must not mutate tag affinities")
	}
}

func TestRecordBookmarkedIsLikedWithoutTagAffinities(t *testing.T) {
	update := record(t, models.InteractionBookmarked)

	addToSet := opDoc(t, update, "$addToSet")
	if addToSet["likes"] != "The Corner Trattoria" {
		t.Errorf("$addToSet.likes = %v, want place name", addToSet["likes"])
	}

	inc := opDoc(t, update, "$inc")
	if inc["likeCount"] != 1 {
		t.Errorf("$inc.likeCount = %v, want 1", inc["likeCount"])
	}
	if _, ok := inc["tagAffinities.italian"]; ok {
		t.Error("bookmarked must not mutate tag affinities")
	}
}

func TestRecordTagOnlyKinds(t *testing.T) {
	for _, kind := range []models.InteractionKind{
		models.InteractionShared, models.InteractionVisited, models.InteractionReviewed,
	} {
		t.Run(string(kind), func(t *testing.T) {
			update := record(t, kind)

			inc := opDoc(t, update, "$inc")
			if inc["tagAffinities.italian"] != 1 || inc["tagAffinities.cozy"] != 1 {
				t.Errorf("tag affinity increments missing: %v", inc)
			}
			if _, ok := inc["likeCount"]; ok {
				t.Error("tag-only kind must not touch likeCount")
			}
			if _, ok := update["$addToSet"]; ok {
				t.Error("tag-only kind must not mutate like/dislike sets")
			}
		})
	}
}

func TestRecordPassiveKinds(t *testing.T) {
	for _, kind := range []models.InteractionKind{
		models.InteractionCalled, models.InteractionNavigated,
		models.InteractionPhotographed, models.InteractionRecommended,
		models.InteractionViewed,
	} {
		t.Run(string(kind), func(t *testing.T) {
			update := record(t, kind)

			inc := opDoc(t, update, "$inc")
			if inc["viewCount"] != 1 {
				t.Errorf("$inc.viewCount = %v, want 1", inc["viewCount"])
			}
			if len(inc) != 1 {
				t.Errorf("passive kind must only touch viewCount, got %v", inc)
			}
			if _, ok := update["$addToSet"]; ok {
				t.Error("passive kind must not mutate like/dislike sets")
			}
		})
	}
}

func TestRecordAlwaysAppendsBoundedLog(t *testing.T) {
	for _, kind := range []models.InteractionKind{
		models.InteractionLiked, models.InteractionViewed, models.InteractionShared,
	} {
		update := record(t, kind)

		push := opDoc(t, update, "$push")
		logPush, ok := push["interactionLogs"].(bson.M)
		if !ok {
			t.Fatalf("%s: missing interactionLogs push: %v", kind, push)
		}
		if logPush["$slice"] != -models.InteractionLogCap {
			t.Errorf("%s: $slice = %v, want %d", kind, logPush["$slice"], -models.InteractionLogCap)
		}
		entries, ok := logPush["$each"].([]models.InteractionLog)
		if !ok || len(entries) != 1 {
			t.Fatalf("%s: $each = %v, want one log entry", kind, logPush["$each"])
		}
		if entries[0].Kind != kind || entries[0].PlaceID != "p1" {
			t.Errorf("%s: log entry = %+v", kind, entries[0])
		}

		current := opDoc(t, update, "$currentDate")
		if current["lastInteractionAt"] != true {
			t.Errorf("%s: $currentDate.lastInteractionAt = %v, want true", kind, current["lastInteractionAt"])
		}
	}
}

func TestRecordUnknownKindIgnored(t *testing.T) {
	store := &captureStore{}
	r := NewRecorder(store, logging.NewTestLogger(io.Discard))
	r.Record(context.Background(), "u1", testPlace(), models.InteractionKind("teleported"))

	if len(store.updates) != 0 {
		t.Errorf("unknown kind produced %d updates, want 0", len(store.updates))
	}
}

func TestRecordSwallowsStoreFailures(t *testing.T) {
	store := &captureStore{err: errors.New("connection reset")}
	r := NewRecorder(store, logging.NewTestLogger(io.Discard))

	// Must not panic or propagate; the interaction is simply dropped.
	r.Record(context.Background(), "u1", testPlace(), models.InteractionLiked)
}
