// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"context"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/metrics"
	"github.com/tomtom215/edufeed/internal/models"
)

// guardedCatalog routes catalog reads through one circuit breaker per
// source. Every failure, including an open breaker, is reported as
// models.ErrDegradedDependency.
type guardedCatalog struct {
	videos   VideoCatalog
	external ExternalCatalog

	videoBreaker    *gobreaker.CircuitBreaker[[]models.Video]
	externalBreaker *gobreaker.CircuitBreaker[[]models.ExternalVideo]
}

func newGuardedCatalog(videos VideoCatalog, external ExternalCatalog, maxFailures uint32, timeout time.Duration) *guardedCatalog {
	if maxFailures == 0 {
		maxFailures = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				metrics.RecordBreakerTransition(name, from.String(), to.String(), float64(to))
				logging.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("Circuit breaker state changed")
			},
		}
	}
	return &guardedCatalog{
		videos:          videos,
		external:        external,
		videoBreaker:    gobreaker.NewCircuitBreaker[[]models.Video](settings("catalog-uploaded")),
		externalBreaker: gobreaker.NewCircuitBreaker[[]models.ExternalVideo](settings("catalog-external")),
	}
}

func (g *guardedCatalog) QueryVideos(ctx context.Context, q models.CatalogQuery) ([]models.Video, error) {
	if g.videos == nil {
		return nil, nil
	}
	videos, err := g.videoBreaker.Execute(func() ([]models.Video, error) {
		return g.videos.QueryVideos(ctx, q)
	})
	if err != nil {
		metrics.CatalogErrors.WithLabelValues(string(models.SourceUploaded)).Inc()
		return nil, fmt.Errorf("uploaded catalog: %v: %w", err, models.ErrDegradedDependency)
	}
	return videos, nil
}

func (g *guardedCatalog) QueryExternalVideos(ctx context.Context, q models.ExternalQuery) ([]models.ExternalVideo, error) {
	if g.external == nil {
		return nil, nil
	}
	videos, err := g.externalBreaker.Execute(func() ([]models.ExternalVideo, error) {
		return g.external.QueryExternalVideos(ctx, q)
	})
	if err != nil {
		metrics.CatalogErrors.WithLabelValues(string(models.SourceExternal)).Inc()
		return nil, fmt.Errorf("external catalog: %v: %w", err, models.ErrDegradedDependency)
	}
	return videos, nil
}
