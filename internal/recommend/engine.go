// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/metrics"
	"github.com/tomtom215/edufeed/internal/models"
	"github.com/tomtom215/edufeed/internal/validation"
)

// Deps are the collaborators the service reads from. History is optional.
type Deps struct {
	Engagements EngagementReader
	Videos      VideoCatalog
	External    ExternalCatalog
	Users       UserDirectory
	History     HistoryReader
}

// Service computes preference profiles, disengagement verdicts and both
// feeds. It holds no per-request state and is safe for concurrent use.
type Service struct {
	cfg      *Config
	deps     Deps
	catalog  *guardedCatalog
	detector *Detector
	scorer   *Scorer
	rng      RandSource
	logger   zerolog.Logger

	rerankers []Reranker
	rrMu      sync.RWMutex
}

// NewService creates the ranking service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(cfg *Config, deps Deps, logger zerolog.Logger) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Engagements == nil || deps.Users == nil {
		return nil, fmt.Errorf("engagement reader and user directory are required")
	}

	rng := NewRandSource(cfg.Seed)
	return &Service{
		cfg:      cfg,
		deps:     deps,
		catalog:  newGuardedCatalog(deps.Videos, deps.External, cfg.BreakerMaxFailures, cfg.BreakerTimeout),
		detector: NewDetector(cfg.Disengagement),
		scorer:   NewScorer(rng, cfg.Feed.MaxJitter, cfg.Feed.ViewedPenalty, nil),
		rng:      rng,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// SetRandSource replaces the shuffle and jitter source.
func (s *Service) SetRandSource(rng RandSource) {
	s.rng = rng
	s.scorer.rng = rng
}

// SetClock replaces the time source used for candidate age.
func (s *Service) SetClock(now func() time.Time) {
	s.scorer.now = now
}

// RegisterReranker adds a reranker to the unified feed pipeline.
func (s *Service) RegisterReranker(rr Reranker) {
	s.rrMu.Lock()
	defer s.rrMu.Unlock()

	s.rerankers = append(s.rerankers, rr)
	s.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Preferences returns the user's category profile from their most recent
// events across all sessions.
func (s *Service) Preferences(ctx context.Context, userID string) (Preferences, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	events, err := s.deps.Engagements.RecentEngagements(ctx, userID, s.cfg.PreferenceWindow)
	if err != nil {
		return nil, fmt.Errorf("read engagement history: %w", err)
	}
	return ComputePreferences(events), nil
}

// Disengagement returns the verdict for one session. An empty sessionID
// addresses the session-less records.
func (s *Service) Disengagement(ctx context.Context, userID, sessionID string) (Assessment, error) {
	if err := requireID("user_id", userID); err != nil {
		return Assessment{}, err
	}
	events, err := s.deps.Engagements.RecentSessionEngagements(ctx, userID, sessionKey(sessionID), s.cfg.Disengagement.Window)
	if err != nil {
		return Assessment{}, fmt.Errorf("read session history: %w", err)
	}
	a := s.detector.Assess(events)
	metrics.RecordDisengagement(a.IsDisengaging)
	return a, nil
}

// queryVideos degrades a failed catalog read to an empty result.
func (s *Service) queryVideos(ctx context.Context, q models.CatalogQuery) []models.Video {
	videos, err := s.catalog.QueryVideos(ctx, q)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("order", q.Order.String()).
			Strs("categories", q.Categories).
			Msg("Uploaded catalog unavailable, continuing without it")
		return nil
	}
	return videos
}

func (s *Service) queryExternal(ctx context.Context, q models.ExternalQuery) []models.ExternalVideo {
	videos, err := s.catalog.QueryExternalVideos(ctx, q)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("subject", q.Subject).
			Msg("External catalog unavailable, continuing without it")
		return nil
	}
	return videos
}

func sessionKey(sessionID string) string {
	if s := strings.TrimSpace(sessionID); s != "" {
		return s
	}
	return models.NoSession
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return validation.NewFieldError(field, "required", field+" is required", value)
	}
	return nil
}
