// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package events

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/planit-app/discovery/internal/logging"
	"github.com/planit-app/discovery/internal/models"
)

type recordedCall struct {
	userID string
	place  models.Place
	kind   models.InteractionKind
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
	done  chan struct{}
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{done: make(chan struct{}, 16)}
}

func (r *fakeRecorder) Record(ctx context.Context, userID string, place models.Place, kind models.InteractionKind) {
	r.mu.Lock()
	r.calls = append(r.calls, recordedCall{userID: userID, place: place, kind: kind})
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *fakeRecorder) snapshot() []recordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedCall, len(r.calls))
	copy(out, r.calls)
	return out
}

func TestPublishedInteractionReachesRecorder(t *testing.T) {
	bus := NewBus(logging.NewTestLogger(io.Discard))
	defer bus.Close()

	recorder := newFakeRecorder()
	consumer := NewConsumer(bus, recorder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go consumer.Serve(ctx)

	place := models.NewPlace("p1", "Ritual Coffee", models.CategoryCafes, 4.6)
	event := InteractionEvent{
		UserID:     "u1",
		Place:      place,
		Kind:       models.InteractionLiked,
		OccurredAt: time.Now().UTC(),
	}

	if err := bus.PublishInteraction(context.Background(), event); err != nil {
		t.Fatalf("PublishInteraction: %v", err)
	}

	select {
	case <-recorder.done:
	case <-time.After(2 * time.Second):
		t.Fatal("recorder was not invoked")
	}

	calls := recorder.snapshot()
	if len(calls) != 1 {
		t.Fatalf("got %d recorder calls, want 1", len(calls))
	}
	got := calls[0]
	if got.userID != "u1" || got.kind != models.InteractionLiked || got.place.ID != "p1" {
		t.Errorf("recorded call = %+v", got)
	}
}

func TestConsumerDropsUndecodableEvents(t *testing.T) {
	bus := NewBus(logging.NewTestLogger(io.Discard))
	defer bus.Close()

	recorder := newFakeRecorder()
	consumer := NewConsumer(bus, recorder)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go consumer.Serve(ctx)

	// Raw garbage on the topic must be acked and dropped, not wedge the
	// consumer.
	if err := bus.pubsub.Publish(TopicInteractions, message.NewMessage(uuid.New().String(), []byte("not json"))); err != nil {
		t.Fatalf("publish: %v", err)
	}

	event := InteractionEvent{
		UserID: "u2",
		Place:  models.NewPlace("p2", "Willow Tea House", models.CategoryCafes, 4.2),
		Kind:   models.InteractionViewed,
	}
	if err := bus.PublishInteraction(context.Background(), event); err != nil {
		t.Fatalf("PublishInteraction: %v", err)
	}

	select {
	case <-recorder.done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer wedged after undecodable event")
	}

	calls := recorder.snapshot()
	if len(calls) != 1 || calls[0].userID != "u2" {
		t.Errorf("recorded calls = %+v, want only the valid event", calls)
	}
}

func TestEventRoundTrip(t *testing.T) {
	place := models.NewPlace("p1", "Harbor Grill", models.CategoryRestaurants, 4.4)
	place.DescriptiveTags = []string{"seafood"}
	event := InteractionEvent{
		UserID:     "u1",
		Place:      place,
		Kind:       models.InteractionBookmarked,
		OccurredAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := event.NewMessage()
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}

	decoded, err := DecodeInteractionEvent(msg)
	if err != nil {
		t.Fatalf("DecodeInteractionEvent: %v", err)
	}
	if decoded.UserID != event.UserID || decoded.Kind != event.Kind ||
		decoded.Place.ID != event.Place.ID || !decoded.OccurredAt.Equal(event.OccurredAt) {
		t.Errorf("decoded = %+v, want %+v", decoded, event)
	}
}
