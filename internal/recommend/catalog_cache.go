// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/edufeed/internal/cache"
	"github.com/tomtom215/edufeed/internal/models"
)

const externalCacheEntries = 256

// CachedExternalCatalog memoizes external catalog reads for ttl. The
// external index is only written by ingestion, so short-lived staleness
// is harmless. Errors are never cached.
type CachedExternalCatalog struct {
	source ExternalCatalog
	cache  *cache.Cache[[]models.ExternalVideo]
}

// NewCachedExternalCatalog wraps source with a TTL cache.
func NewCachedExternalCatalog(source ExternalCatalog, ttl time.Duration) *CachedExternalCatalog {
	return &CachedExternalCatalog{
		source: source,
		cache:  cache.New[[]models.ExternalVideo](ttl, externalCacheEntries),
	}
}

// QueryExternalVideos returns a copy of the cached result so callers may
// reorder it freely.
func (c *CachedExternalCatalog) QueryExternalVideos(ctx context.Context, q models.ExternalQuery) ([]models.ExternalVideo, error) {
	key := cache.GenerateKey("external", q)
	if videos, ok := c.cache.Get(key); ok {
		return append([]models.ExternalVideo(nil), videos...), nil
	}

	videos, err := c.source.QueryExternalVideos(ctx, q)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, append([]models.ExternalVideo(nil), videos...))
	return videos, nil
}

// Stats exposes the cache counters.
func (c *CachedExternalCatalog) Stats() cache.Stats {
	return c.cache.GetStats()
}
