// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package geo

import (
	"math"
	"testing"
)

func TestDistanceMilesKnownPairs(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", 37.7749, -122.4194, 37.7749, -122.4194, 0, 0.001},
		{"SF to LA", 37.7749, -122.4194, 34.0522, -118.2437, 347.4, 1.0},
		{"SF to Oakland", 37.7749, -122.4194, 37.8044, -122.2712, 8.3, 0.2},
		{"NYC to London", 40.7128, -74.0060, 51.5074, -0.1278, 3461, 10},
		{"across the equator", 1.0, 0.0, -1.0, 0.0, 138.2, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMiles(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("got %.2f miles, want %.2f ± %.2f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceMilesSymmetric(t *testing.T) {
	a := DistanceMiles(37.7749, -122.4194, 34.0522, -118.2437)
	b := DistanceMiles(34.0522, -118.2437, 37.7749, -122.4194)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestMileMeterConversions(t *testing.T) {
	if got := MilesToMeters(1); math.Abs(got-1609.344) > 1e-9 {
		t.Errorf("MilesToMeters(1) = %f", got)
	}
	if got := MetersToMiles(1609.344); math.Abs(got-1) > 1e-9 {
		t.Errorf("MetersToMiles(1609.344) = %f", got)
	}

	for _, miles := range []float64{0, 0.5, 2.0, 25.0} {
		if got := MetersToMiles(MilesToMeters(miles)); math.Abs(got-miles) > 1e-9 {
			t.Errorf("round trip %f miles = %f", miles, got)
		}
	}
}
