// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

// Package cache provides a generic, bounded TTL cache.
//
// It fronts read-mostly sources such as the external video catalog, where
// a few seconds of staleness is acceptable and the same query repeats for
// every feed request:
//
//	c := cache.New[[]models.ExternalVideo](30*time.Second, 256)
//	key := cache.GenerateKey("external", query)
//	if videos, ok := c.Get(key); ok {
//	    return videos, nil
//	}
//
// Only successful results should be stored, so a failing source is retried
// on the next request rather than masked.
package cache
