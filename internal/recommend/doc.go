// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

// Package recommend implements the recommendation pipeline: fingerprint
// read, generative category descriptors, concurrent place search, scoring,
// and assembly with a three-stage degradation chain (generated categories,
// fixed fallback templates, synthetic demo content). The output category
// list is never empty regardless of upstream failures.
package recommend
