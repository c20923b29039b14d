// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package models

import (
	"math"
	"testing"
)

func TestLikeRatio(t *testing.T) {
	tests := []struct {
		name string
		fp   *UserFingerprint
		want float64
	}{
		{"nil fingerprint", nil, 0.5},
		{"zero reactions", &UserFingerprint{UserID: "u1"}, 0},
		{"likes only", &UserFingerprint{UserID: "u1", LikeCount: 4}, 1},
		{"dislikes only", &UserFingerprint{UserID: "u1", DislikeCount: 3}, 0},
		{"mixed", &UserFingerprint{UserID: "u1", LikeCount: 7, DislikeCount: 3}, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fp.LikeRatio(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LikeRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}
