// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package main

import (
	"fmt"

	"github.com/tomtom215/edufeed/internal/config"
	"github.com/tomtom215/edufeed/internal/database"
	"github.com/tomtom215/edufeed/internal/history"
	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/recommend"
	"github.com/tomtom215/edufeed/internal/recommend/reranking"
)

// initRecommend builds the recommendation service over the database and the
// history log and registers the diversity reranker.
func initRecommend(cfg *config.Config, db *database.DB, hist *history.Store) (*recommend.Service, error) {
	recCfg := buildRecommendConfig(cfg)

	var external recommend.ExternalCatalog = db
	if cfg.Feed.ExternalCacheTTL > 0 {
		external = recommend.NewCachedExternalCatalog(db, cfg.Feed.ExternalCacheTTL)
	}

	svc, err := recommend.NewService(recCfg, recommend.Deps{
		Engagements: db,
		Videos:      db,
		External:    external,
		Users:       db,
		History:     hist,
	}, logging.WithComponent("recommend"))
	if err != nil {
		return nil, fmt.Errorf("create recommendation service: %w", err)
	}

	if cfg.Feed.MaxConsecutive > 0 {
		svc.RegisterReranker(reranking.NewDiversity(cfg.Feed.MaxConsecutive))
	}

	logging.Info().
		Int("preference_window", recCfg.PreferenceWindow).
		Int("exclude_window", recCfg.ExcludeWindow).
		Float64("disengagement_threshold", recCfg.Disengagement.Threshold).
		Int("max_consecutive", cfg.Feed.MaxConsecutive).
		Dur("external_cache_ttl", cfg.Feed.ExternalCacheTTL).
		Msg("Recommendation service initialized")
	return svc, nil
}

// buildRecommendConfig maps application config onto the service config.
// Every field is copied as loaded: defaults come from config.DefaultConfig,
// so an explicit zero (no jitter, no viewed penalty, a disabled
// disengagement clause) is kept.
func buildRecommendConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	d := rc.Disengagement
	f := cfg.Feed

	return &recommend.Config{
		PreferenceWindow:        rc.PreferenceWindow,
		ExcludeWindow:           rc.ExcludeWindow,
		DefaultCount:            rc.DefaultCount,
		MaxCount:                rc.MaxCount,
		CandidateCap:            rc.CandidateCap,
		MaxEntertainmentShare:   rc.MaxEntertainmentShare,
		EntertainmentMinViews:   rc.EntertainmentMinViews,
		RecoveryMaxDuration:     rc.RecoveryMaxDuration,
		EntertainmentCategories: rc.EntertainmentCategories,
		RecoveryCategories:      rc.RecoveryCategories,
		Seed:                    rc.Seed,
		BreakerMaxFailures:      rc.BreakerMaxFailures,
		BreakerTimeout:          rc.BreakerTimeout,
		Disengagement: recommend.DisengagementConfig{
			Window:                  d.Window,
			MinEvents:               d.MinEvents,
			VeryLowCompletion:       d.VeryLowCompletion,
			VeryLowCompletionWeight: d.VeryLowCompletionWeight,
			LowCompletion:           d.LowCompletion,
			LowCompletionWeight:     d.LowCompletionWeight,
			SkipRate:                d.SkipRate,
			SkipRateWeight:          d.SkipRateWeight,
			LowEngagement:           d.LowEngagement,
			LowEngagementWeight:     d.LowEngagementWeight,
			RapidScrollSeconds:      d.RapidScrollSeconds,
			RapidScrollWeight:       d.RapidScrollWeight,
			Threshold:               d.Threshold,
		},
		Feed: recommend.FeedConfig{
			DefaultPageSize: f.DefaultPageSize,
			MaxPageSize:     f.MaxPageSize,
			UploadedCap:     f.UploadedCap,
			ExternalCap:     f.ExternalCap,
			ViewedPenalty:   f.ViewedPenalty,
			MaxJitter:       f.MaxJitter,
			// The viewed set is read from the history log, so it can never
			// be larger than what the log retains.
			ViewedWindow: cfg.History.MaxEntries,
		},
	}
}
