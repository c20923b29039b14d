// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package models defines the domain types shared across the discovery service:
// places, AI-proposed category descriptors, user preference fingerprints,
// interaction records, and the common API response envelope.
//
// Types in this package are plain data carriers with no I/O. Construction
// helpers enforce the invariants the pipeline relies on (rating clamped to
// [0,5], exactly four price tiers, case-insensitive category parsing with the
// documented restaurants default).
package models
