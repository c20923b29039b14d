// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package recommend

import "github.com/planit-app/discovery/internal/models"

// FallbackConfidence is assigned to the generic template categories. It
// is deliberately below the generated default (0.8) so generated
// categories always sort ahead of templates.
const FallbackConfidence = 0.5

// FallbackDescriptors returns the fixed template set used when the
// generation path yields too few usable categories: one generic template
// per category, searched and scored the same way as generated ones.
// Callers receive a fresh copy; descriptors are mutated downstream when
// places are attached.
func FallbackDescriptors() []models.CategoryDescriptor {
	return []models.CategoryDescriptor{
		{
			ID:                "fallback-restaurants",
			Title:             "Popular Restaurants",
			Subtitle:          "Well-loved spots nearby",
			Reasoning:         "Highly rated restaurants close to you",
			SearchQuery:       "best restaurants",
			Category:          models.CategoryRestaurants,
			Confidence:        FallbackConfidence,
			PersonalizedEmoji: "🍽️",
			VibeDescription:   "Crowd favorites",
		},
		{
			ID:                "fallback-cafes",
			Title:             "Local Cafes",
			Subtitle:          "Coffee and conversation",
			Reasoning:         "Well-reviewed cafes in the area",
			SearchQuery:       "best coffee shops",
			Category:          models.CategoryCafes,
			Confidence:        FallbackConfidence,
			PersonalizedEmoji: "☕",
			VibeDescription:   "Relaxed and welcoming",
		},
		{
			ID:                "fallback-bars",
			Title:             "Bars & Nightlife",
			Subtitle:          "Drinks after dark",
			Reasoning:         "Popular bars within reach",
			SearchQuery:       "best bars",
			Category:          models.CategoryBars,
			Confidence:        FallbackConfidence,
			PersonalizedEmoji: "🍸",
			VibeDescription:   "Lively evenings",
		},
		{
			ID:                "fallback-venues",
			Title:             "Things To Do",
			Subtitle:          "Entertainment and culture",
			Reasoning:         "Venues and attractions nearby",
			SearchQuery:       "things to do attractions",
			Category:          models.CategoryVenues,
			Confidence:        FallbackConfidence,
			PersonalizedEmoji: "🎭",
			VibeDescription:   "Something different",
		},
		{
			ID:                "fallback-shopping",
			Title:             "Shopping Nearby",
			Subtitle:          "Browse local stores",
			Reasoning:         "Shopping spots in the area",
			SearchQuery:       "best shopping",
			Category:          models.CategoryShopping,
			Confidence:        FallbackConfidence,
			PersonalizedEmoji: "🛍️",
			VibeDescription:   "Retail therapy",
		},
	}
}

// DemoCategories is the terminal fallback: synthetic content substituted
// when both the generated and template search paths produce nothing, so
// the client is never handed an empty list. Demo places carry no external
// place identity, which is how the presentation layer distinguishes them
// from real results.
func DemoCategories() []models.CategoryDescriptor {
	return []models.CategoryDescriptor{
		{
			ID:                "demo-restaurants",
			Title:             "Neighborhood Eats",
			Subtitle:          "A taste of what's around",
			Reasoning:         "Sample restaurants while we find real ones",
			SearchQuery:       "best restaurants",
			Category:          models.CategoryRestaurants,
			Confidence:        FallbackConfidence,
			PersonalizedEmoji: "🍽️",
			VibeDescription:   "Crowd favorites",
			Places: []models.Place{
				demoPlace("demo-trattoria", "The Corner Trattoria", models.CategoryRestaurants, 4.5,
					[]string{"italian", "cozy"}),
				demoPlace("demo-noodle", "Lucky Noodle House", models.CategoryRestaurants, 4.3,
					[]string{"noodles", "casual"}),
				demoPlace("demo-grill", "Harbor Grill", models.CategoryRestaurants, 4.4,
					[]string{"seafood", "waterfront"}),
			},
		},
		{
			ID:                "demo-cafes",
			Title:             "Coffee Stops",
			Subtitle:          "Places to settle in",
			Reasoning:         "Sample cafes while we find real ones",
			SearchQuery:       "best coffee shops",
			Category:          models.CategoryCafes,
			Confidence:        FallbackConfidence,
			PersonalizedEmoji: "☕",
			VibeDescription:   "Relaxed and welcoming",
			Places: []models.Place{
				demoPlace("demo-roastery", "Morning Light Roastery", models.CategoryCafes, 4.6,
					[]string{"coffee", "pastries"}),
				demoPlace("demo-teahouse", "Willow Tea House", models.CategoryCafes, 4.2,
					[]string{"tea", "quiet"}),
			},
		},
		{
			ID:                "demo-venues",
			Title:             "Out & About",
			Subtitle:          "Entertainment ideas",
			Reasoning:         "Sample venues while we find real ones",
			SearchQuery:       "things to do attractions",
			Category:          models.CategoryVenues,
			Confidence:        FallbackConfidence,
			PersonalizedEmoji: "🎭",
			VibeDescription:   "Something different",
			Places: []models.Place{
				demoPlace("demo-gallery", "Riverside Gallery", models.CategoryVenues, 4.4,
					[]string{"art", "gallery"}),
				demoPlace("demo-cinema", "The Grand Cinema", models.CategoryVenues, 4.5,
					[]string{"movies", "historic"}),
			},
		},
	}
}

// demoPlace builds a synthetic place. No GooglePlaceID and no location:
// demo entities are placeholders, not destinations.
func demoPlace(id, name string, category models.PlaceCategory, rating float64, tags []string) models.Place {
	p := models.NewPlace(id, name, category, rating)
	p.ReviewCount = 0
	p.PriceRange = models.PriceModerate
	p.DescriptiveTags = tags
	return p
}
