// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"sort"
	"strings"

	"github.com/tomtom215/edufeed/internal/models"
)

const fallbackCategory = "other"

// ComputePreferences derives the category profile from recent events.
// Each observed category gets its mean engagement score, normalized so the
// weights sum to 1. Without events the default profile is returned. When
// every observed mean is zero the observed categories share equally.
func ComputePreferences(events []models.EngagementEvent) Preferences {
	if len(events) == 0 {
		return DefaultPreferences()
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range events {
		category := normalizeCategory(events[i].Category)
		sums[category] += events[i].EngagementScore
		counts[category]++
	}

	means := make(map[string]float64, len(sums))
	var total float64
	for category, sum := range sums {
		mean := sum / float64(counts[category])
		means[category] = mean
		total += mean
	}

	prefs := make(Preferences, len(means))
	for category, mean := range means {
		if total > 0 {
			prefs[category] = mean / total
		} else {
			prefs[category] = 1 / float64(len(means))
		}
	}
	return prefs
}

// Weight returns the weight of category, 0 when unobserved.
func (p Preferences) Weight(category string) float64 {
	return p[normalizeCategory(category)]
}

// Ranked returns the categories by descending weight, ties by name.
func (p Preferences) Ranked() []string {
	categories := make([]string, 0, len(p))
	for c := range p {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if p[categories[i]] != p[categories[j]] {
			return p[categories[i]] > p[categories[j]]
		}
		return categories[i] < categories[j]
	})
	return categories
}

func normalizeCategory(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return fallbackCategory
	}
	return c
}
