// PlanIt Discovery - Personalized Place Recommendation Service
// Copyright 2026 PlanIt Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/planit-app/discovery

package genai

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/planit-app/discovery/internal/models"
)

// Caps on how much fingerprint detail is embedded in a prompt. Long
// histories add tokens without improving category quality.
const (
	maxPromptLikes    = 15
	maxPromptDislikes = 10
	maxPromptTags     = 12
)

// BuildPrompt formats the complete generation request for one
// recommendation cycle. It is a pure function of its inputs.
//
// The request demands exactly count category descriptor objects as a bare
// JSON array with no markdown fencing and no prose, because the adapter
// performs a best-effort JSON parse of the raw response and treats a
// non-conforming reply as a total generation failure.
//
// fingerprint may be nil (new or anonymous user); the prompt then asks for
// broadly appealing categories instead of personalized ones.
func BuildPrompt(fingerprint *models.UserFingerprint, lat, lon float64, now time.Time, weather string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are the recommendation engine for a local discovery app. ")
	fmt.Fprintf(&b, "Propose exactly %d themed place categories for a user located at latitude %.5f, longitude %.5f.\n\n", count, lat, lon)

	fmt.Fprintf(&b, "Context:\n")
	fmt.Fprintf(&b, "- Local time: %s (%s)\n", now.Format("Monday 15:04"), timeOfDayBucket(now))
	if weather != "" {
		fmt.Fprintf(&b, "- Current weather: %s\n", weather)
	}

	writeFingerprintContext(&b, fingerprint)

	b.WriteString("\nEach category object must have these fields:\n")
	b.WriteString(`- "id": short kebab-case slug unique within the array` + "\n")
	b.WriteString(`- "title": catchy category name (max 40 chars)` + "\n")
	b.WriteString(`- "subtitle": one-line elaboration` + "\n")
	b.WriteString(`- "reasoning": one sentence explaining why this user would care` + "\n")
	b.WriteString(`- "searchQuery": free-text query suitable for a places search engine` + "\n")
	b.WriteString(`- "category": one of "restaurants", "cafes", "bars", "venues", "shopping"` + "\n")
	b.WriteString(`- "confidence": float 0-1, how well this matches the user` + "\n")
	b.WriteString(`- "personalizedEmoji": single emoji for the category card` + "\n")
	b.WriteString(`- "vibeDescription": short phrase describing the atmosphere` + "\n")
	b.WriteString(`- "socialProofText": optional short social-proof line` + "\n")
	b.WriteString(`- "psychologyHook": optional short curiosity hook` + "\n")

	b.WriteString("\nRespond with ONLY the raw JSON array. ")
	b.WriteString("No markdown code fences, no explanation, no text before or after the array.")

	return b.String()
}

// writeFingerprintContext renders the personalization section of the prompt.
func writeFingerprintContext(b *strings.Builder, f *models.UserFingerprint) {
	if f == nil {
		fmt.Fprintf(b, "- No preference history is available; propose broadly appealing local categories.\n")
		return
	}

	if likes := truncate(f.Likes, maxPromptLikes); len(likes) > 0 {
		fmt.Fprintf(b, "- Places the user liked: %s\n", strings.Join(likes, ", "))
	}
	if dislikes := truncate(f.Dislikes, maxPromptDislikes); len(dislikes) > 0 {
		fmt.Fprintf(b, "- Places the user disliked (avoid similar): %s\n", strings.Join(dislikes, ", "))
	}
	if tags := topTagAffinities(f.TagAffinities, maxPromptTags); len(tags) > 0 {
		fmt.Fprintf(b, "- Vibes the user gravitates toward: %s\n", strings.Join(tags, ", "))
	}
	for _, resp := range f.OnboardingResponses {
		if len(resp.Selected) > 0 {
			fmt.Fprintf(b, "- %s: %s\n", resp.Question, strings.Join(resp.Selected, ", "))
		}
	}
}

// topTagAffinities returns up to n tag names ordered by descending weight,
// ties broken alphabetically for determinism.
func topTagAffinities(affinities map[string]int, n int) []string {
	type tagWeight struct {
		tag    string
		weight int
	}

	weighted := make([]tagWeight, 0, len(affinities))
	for tag, w := range affinities {
		if w > 0 {
			weighted = append(weighted, tagWeight{tag, w})
		}
	}

	sort.Slice(weighted, func(i, j int) bool {
		if weighted[i].weight != weighted[j].weight {
			return weighted[i].weight > weighted[j].weight
		}
		return weighted[i].tag < weighted[j].tag
	})

	if len(weighted) > n {
		weighted = weighted[:n]
	}

	tags := make([]string, len(weighted))
	for i, tw := range weighted {
		tags[i] = tw.tag
	}
	return tags
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// timeOfDayBucket maps a timestamp to a coarse meal/activity window.
func timeOfDayBucket(t time.Time) string {
	switch h := t.Hour(); {
	case h < 6:
		return "late night"
	case h < 11:
		return "morning"
	case h < 14:
		return "lunchtime"
	case h < 17:
		return "afternoon"
	case h < 21:
		return "evening"
	default:
		return "night"
	}
}
