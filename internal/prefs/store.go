// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package prefs stores per-user local preferences in BadgerDB. Today that
// is a single value, the search radius, but the store is keyed for growth.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/planit-app/discovery/internal/config"
)

// Key prefixes for BadgerDB storage.
const radiusKeyPrefix = "radius:"

// Limits for user-supplied radius values, in miles.
const (
	MinRadiusMiles = 0.5
	MaxRadiusMiles = 25.0
)

// ErrInvalidRadius is returned for radius values outside the allowed range.
var ErrInvalidRadius = errors.New("radius outside allowed range")

type radiusRecord struct {
	Miles float64 `json:"miles"`
}

// Store persists per-user preferences.
type Store struct {
	db            *badger.DB
	defaultRadius float64
}

// Open opens the preference database. The caller owns Close.
func Open(cfg config.PrefsConfig, defaultRadiusMiles float64) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	} else {
		opts = badger.DefaultOptions(cfg.Path).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}

	return &Store{db: db, defaultRadius: defaultRadiusMiles}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RadiusMiles returns the user's stored search radius, or the configured
// default when none has been set.
func (s *Store) RadiusMiles(ctx context.Context, userID string) (float64, error) {
	var rec radiusRecord
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(radiusKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return 0, fmt.Errorf("read radius for %s: %w", userID, err)
	}

	if !found || rec.Miles <= 0 {
		return s.defaultRadius, nil
	}
	return rec.Miles, nil
}

// SetRadiusMiles stores the user's search radius.
func (s *Store) SetRadiusMiles(ctx context.Context, userID string, miles float64) error {
	if miles < MinRadiusMiles || miles > MaxRadiusMiles {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidRadius, miles, MinRadiusMiles, MaxRadiusMiles)
	}

	data, err := json.Marshal(radiusRecord{Miles: miles})
	if err != nil {
		return fmt.Errorf("marshal radius: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(radiusKeyPrefix+userID), data)
	})
	if err != nil {
		return fmt.Errorf("store radius for %s: %w", userID, err)
	}
	return nil
}
