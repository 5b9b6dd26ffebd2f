// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package api

import (
	"context"
	"time"

	"github.com/tomtom215/edufeed/internal/engagement"
	"github.com/tomtom215/edufeed/internal/models"
	"github.com/tomtom215/edufeed/internal/recommend"
)

// EngagementRecorder is the write side: engagement.Recorder.
type EngagementRecorder interface {
	Record(ctx context.Context, in *engagement.Input) (*models.EngagementResult, error)
	RecordBatch(ctx context.Context, inputs []engagement.Input) (*models.BatchResult, error)
}

// Recommender is the read side: recommend.Service.
type Recommender interface {
	Preferences(ctx context.Context, userID string) (recommend.Preferences, error)
	Disengagement(ctx context.Context, userID, sessionID string) (recommend.Assessment, error)
	Recommend(ctx context.Context, userID, sessionID string, count int) (*recommend.RecommendedFeed, error)
	UnifiedFeed(ctx context.Context, req recommend.FeedRequest) (*recommend.UnifiedFeed, error)
}

// HistoryReader reads the viewing-history log.
type HistoryReader interface {
	Recent(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error)
}

// StatsReader reads a video's rolling aggregates.
type StatsReader interface {
	GetVideoStats(ctx context.Context, videoID string) (*models.VideoStats, error)
}

// HealthCheck probes one dependency; a nil error means healthy.
type HealthCheck func(ctx context.Context) error

// Deps bundles the services behind the HTTP handlers.
type Deps struct {
	Recorder    EngagementRecorder
	Recommender Recommender
	History     HistoryReader
	Stats       StatsReader

	// Checks are reported by the health endpoint, keyed by component name.
	Checks map[string]HealthCheck

	// HistoryLimit caps the history endpoint's limit parameter.
	HistoryLimit int

	// RequestTimeout bounds each ranking request.
	RequestTimeout time.Duration

	Version string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_engagement.go: engagement writes
//   - handlers_recommend.go: preferences, disengagement, recommendations, history
//   - handlers_feed.go: unified feed and video stats
//   - handlers_health.go: health
type Handler struct {
	deps      Deps
	startTime time.Time
}

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// NewHandler creates the API handler.
func NewHandler(deps Deps) *Handler {
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = maxHistoryLimit
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	return &Handler{deps: deps, startTime: time.Now()}
}

// requestContext applies the ranking timeout when one is configured.
func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.deps.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.deps.RequestTimeout)
}
