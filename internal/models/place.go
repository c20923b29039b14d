// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package models

import "strings"

// PlaceCategory classifies a venue into one of the five categories the
// mobile app renders. The set is closed; anything the generation API
// invents outside it is folded into CategoryRestaurants.
type PlaceCategory string

// The five known place categories.
const (
	CategoryRestaurants PlaceCategory = "restaurants"
	CategoryCafes       PlaceCategory = "cafes"
	CategoryBars        PlaceCategory = "bars"
	CategoryVenues      PlaceCategory = "venues"
	CategoryShopping    PlaceCategory = "shopping"
)

// AllPlaceCategories lists every category in presentation order.
// The fallback template set produces one category per entry.
var AllPlaceCategories = []PlaceCategory{
	CategoryRestaurants,
	CategoryCafes,
	CategoryBars,
	CategoryVenues,
	CategoryShopping,
}

// ParsePlaceCategory matches s case-insensitively against the known
// categories. Unrecognized values default to CategoryRestaurants; this is a
// deliberate policy for tolerating free-form generation output, not an error
// path. Callers that need to distinguish "unknown" should check ok.
func ParsePlaceCategory(s string) (PlaceCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(CategoryRestaurants):
		return CategoryRestaurants, true
	case string(CategoryCafes):
		return CategoryCafes, true
	case string(CategoryBars):
		return CategoryBars, true
	case string(CategoryVenues):
		return CategoryVenues, true
	case string(CategoryShopping):
		return CategoryShopping, true
	default:
		return CategoryRestaurants, false
	}
}

// PriceRange is one of exactly four symbolic price tiers.
type PriceRange string

// The four price tiers, cheapest first.
const (
	PriceBudget   PriceRange = "$"
	PriceModerate PriceRange = "$$"
	PriceUpscale  PriceRange = "$$$"
	PriceLuxury   PriceRange = "$$$$"
)

// PriceRangeFromLevel converts a Google Places price_level (0-4, where 0 is
// free) into a symbolic tier. Levels outside the range map to PriceModerate.
func PriceRangeFromLevel(level int) PriceRange {
	switch level {
	case 0, 1:
		return PriceBudget
	case 2:
		return PriceModerate
	case 3:
		return PriceUpscale
	case 4:
		return PriceLuxury
	default:
		return PriceModerate
	}
}

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place represents one venue surfaced in a category.
//
// A Place without a GooglePlaceID is a locally synthesized demo entity used
// only when both the generation and fallback search paths produce nothing; the
// presentation layer must render it distinguishably from a real result.
type Place struct {
	ID            string        `json:"id"`
	GooglePlaceID string        `json:"google_place_id,omitempty"`
	Name          string        `json:"name"`
	Category      PlaceCategory `json:"category"`

	// Rating is always within [0,5]; NewPlace clamps out-of-range input.
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"review_count"`
	PriceRange  PriceRange `json:"price_range"`

	// DescriptiveTags feed the scorer's tag-affinity boost.
	DescriptiveTags []string `json:"descriptive_tags,omitempty"`

	// Location is nil when the source record carried no geometry. Such
	// places score with a sentinel distance and are ranked last, never
	// dropped.
	Location *Coordinates `json:"location,omitempty"`

	ImageURLs []string `json:"image_urls,omitempty"`
}

// NewPlace constructs a Place with the rating invariant enforced.
func NewPlace(id, name string, category PlaceCategory, rating float64) Place {
	return Place{
		ID:       id,
		Name:     name,
		Category: category,
		Rating:   ClampRating(rating),
	}
}

// ClampRating forces a rating into the [0,5] invariant range.
func ClampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

// IsDemo reports whether the place is a synthesized fallback entity with no
// external identity.
func (p Place) IsDemo() bool {
	return p.GooglePlaceID == ""
}
