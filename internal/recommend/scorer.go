// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package recommend

import (
	"math"
	"sort"

	"github.com/planit-app/discovery/internal/geo"
	"github.com/planit-app/discovery/internal/models"
)

// SentinelDistanceMiles is the distance assigned to places with no
// coordinates. It ranks them last without dropping them.
const SentinelDistanceMiles = 10000.0

// Score computes the personalization score for one place against a
// fingerprint snapshot. Pure function: no I/O, no mutation.
//
// The three factors:
//
//	distanceScore  = 1 / (distanceMiles + 0.2)^1.3
//	tagBoost       = 1 + sum(affinity of each descriptive tag) / 10
//	likeRatioBoost = 0.8 + likeRatio * 0.4   (range [0.8, 1.2])
//
// A nil fingerprint scores with neutral affinities and a 0.5 like ratio.
func Score(place models.Place, fp *models.UserFingerprint, lat, lon float64) float64 {
	dist := SentinelDistanceMiles
	if place.Location != nil {
		dist = geo.DistanceMiles(lat, lon, place.Location.Latitude, place.Location.Longitude)
	}
	distanceScore := 1 / math.Pow(dist+0.2, 1.3)

	affinitySum := 0.0
	for _, tag := range place.DescriptiveTags {
		affinitySum += float64(fp.TagAffinity(tag))
	}
	tagBoost := 1 + affinitySum/10.0

	likeRatioBoost := 0.8 + fp.LikeRatio()*0.4

	return distanceScore * tagBoost * likeRatioBoost
}

// RankByScore returns places ordered by descending score. The sort is
// stable so equal scores retain encounter order, which keeps ranking
// reproducible for a fixed input. The input slice is not modified.
func RankByScore(places []models.Place, fp *models.UserFingerprint, lat, lon float64) []models.Place {
	type scored struct {
		place models.Place
		score float64
	}

	entries := make([]scored, len(places))
	for i, p := range places {
		entries[i] = scored{place: p, score: Score(p, fp, lat, lon)}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	ranked := make([]models.Place, len(entries))
	for i, e := range entries {
		ranked[i] = e.place
	}
	return ranked
}
