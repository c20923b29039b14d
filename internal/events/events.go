// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package events decouples interaction ingestion from fingerprint writes.
// The API handler publishes an event and returns immediately; a consumer
// applies the fingerprint update out of band. The transport is Watermill's
// in-process GoChannel pub/sub.
package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/planit-app/discovery/internal/models"
)

// TopicInteractions carries user interaction events.
const TopicInteractions = "discovery.interactions"

// InteractionEvent is one user action against a place.
type InteractionEvent struct {
	UserID     string                 `json:"user_id"`
	Place      models.Place           `json:"place"`
	Kind       models.InteractionKind `json:"kind"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// NewMessage marshals the event into a Watermill message.
func (e InteractionEvent) NewMessage() (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal interaction event: %w", err)
	}
	return message.NewMessage(uuid.New().String(), payload), nil
}

// DecodeInteractionEvent unmarshals a message payload.
func DecodeInteractionEvent(msg *message.Message) (InteractionEvent, error) {
	var e InteractionEvent
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return InteractionEvent{}, fmt.Errorf("decode interaction event: %w", err)
	}
	return e, nil
}
