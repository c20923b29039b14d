// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package fingerprint persists user preference profiles in MongoDB and
// applies the per-interaction incremental updates that keep them current.
package fingerprint

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/planit-app/discovery/internal/models"
)

// Store reads fingerprints and applies incremental updates. The update
// document uses MongoDB update-operator form; the Recorder builds these
// and tests substitute a capturing fake.
type Store interface {
	// Fingerprint returns the user's profile, or (nil, nil) when the user
	// has none yet.
	Fingerprint(ctx context.Context, userID string) (*models.UserFingerprint, error)

	// Update applies an operator-form update to the user's profile,
	// creating the document if absent.
	Update(ctx context.Context, userID string, update bson.M) error
}

// MongoStore is the production Store backed by a MongoDB collection keyed
// by user ID.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore creates a store over the given collection.
func NewMongoStore(db *mongo.Database, collectionName string) *MongoStore {
	return &MongoStore{collection: db.Collection(collectionName)}
}

// Fingerprint implements Store.
func (s *MongoStore) Fingerprint(ctx context.Context, userID string) (*models.UserFingerprint, error) {
	var fp models.UserFingerprint
	err := s.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&fp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fingerprint read for %s: %w", userID, err)
	}
	return &fp, nil
}

// Update implements Store. Upserts so a first interaction creates the
// profile document.
func (s *MongoStore) Update(ctx context.Context, userID string, update bson.M) error {
	opts := options.Update().SetUpsert(true)
	if _, err := s.collection.UpdateOne(ctx, bson.M{"_id": userID}, update, opts); err != nil {
		return fmt.Errorf("fingerprint update for %s: %w", userID, err)
	}
	return nil
}
