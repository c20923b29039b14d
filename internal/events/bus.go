// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/planit-app/discovery/internal/models"
)

// InteractionRecorder applies one interaction to the fingerprint store.
// Implemented by fingerprint.Recorder.
type InteractionRecorder interface {
	Record(ctx context.Context, userID string, place models.Place, kind models.InteractionKind)
}

// Bus is the in-process interaction event pipeline.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger
}

// NewBus creates the pub/sub channel. The buffer absorbs short bursts of
// interactions without blocking HTTP handlers.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(logger zerolog.Logger) *Bus {
	log := logger.With().Str("component", "events").Logger()
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, newWatermillLogger(log)),
		logger: log,
	}
}

// Close shuts down the channel; in-flight subscribers drain and exit.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// PublishInteraction enqueues one interaction event.
func (b *Bus) PublishInteraction(ctx context.Context, event InteractionEvent) error {
	msg, err := event.NewMessage()
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	if err := b.pubsub.Publish(TopicInteractions, msg); err != nil {
		return fmt.Errorf("publish interaction: %w", err)
	}
	return nil
}

// Consumer drains interaction events into the fingerprint recorder. It
// implements suture.Service.
type Consumer struct {
	bus      *Bus
	recorder InteractionRecorder
	logger   zerolog.Logger
}

// NewConsumer creates a consumer for the bus.
func NewConsumer(bus *Bus, recorder InteractionRecorder) *Consumer {
	return &Consumer{
		bus:      bus,
		recorder: recorder,
		logger:   bus.logger.With().Str("component", "events-consumer").Logger(),
	}
}

// Serve subscribes and processes events until ctx is canceled or the bus
// closes. Malformed payloads are acked and dropped; there is no redelivery
// that could make them succeed.
func (c *Consumer) Serve(ctx context.Context) error {
	msgs, err := c.bus.pubsub.Subscribe(ctx, TopicInteractions)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicInteractions, err)
	}

	c.logger.Info().Str("topic", TopicInteractions).Msg("interaction consumer started")

	for msg := range msgs {
		c.handle(ctx, msg)
	}

	c.logger.Info().Msg("interaction consumer stopped")
	return nil
}

func (c *Consumer) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := DecodeInteractionEvent(msg)
	if err != nil {
		c.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping undecodable interaction event")
		return
	}

	// Recorder handles its own failure policy (log and swallow).
	c.recorder.Record(ctx, event.UserID, event.Place, event.Kind)
}
