// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package config

import (
	"fmt"
	"strings"
)

// Validate checks that configuration values are present and within range
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateDatabase,
		c.validateHistory,
		c.validateEngagement,
		c.validateEvents,
		c.validateReconcile,
		c.validateRecommend,
		c.validateDisengagement,
		c.validateFeed,
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// validateDatabase validates DuckDB settings
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

// validateHistory validates the viewing-history store
func (c *Config) validateHistory() error {
	if !c.History.InMemory && c.History.Path == "" {
		return fmt.Errorf("HISTORY_PATH is required unless HISTORY_IN_MEMORY=true")
	}
	if c.History.MaxEntries < 1 {
		return fmt.Errorf("HISTORY_MAX_ENTRIES must be at least 1")
	}
	return nil
}

// validateEngagement validates batch ingestion limits
func (c *Config) validateEngagement() error {
	if c.Engagement.BatchConcurrency < 1 {
		return fmt.Errorf("ENGAGEMENT_BATCH_CONCURRENCY must be at least 1")
	}
	if c.Engagement.MaxBatchSize < 1 {
		return fmt.Errorf("ENGAGEMENT_MAX_BATCH_SIZE must be at least 1")
	}
	return nil
}

// validateEvents validates the event bus transport
func (c *Config) validateEvents() error {
	switch strings.ToLower(c.Events.Transport) {
	case "channel":
		if c.Events.BufferSize < 0 {
			return fmt.Errorf("EVENTS_BUFFER_SIZE must be non-negative")
		}
	case "nats":
		if c.Events.EmbeddedServer {
			if c.Events.EmbeddedPort < 1 || c.Events.EmbeddedPort > 65535 {
				return fmt.Errorf("NATS_EMBEDDED_PORT must be between 1 and 65535")
			}
			break
		}
		if err := validateNATSURL(c.Events.NATSURL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	default:
		return fmt.Errorf("EVENTS_TRANSPORT must be channel or nats, got: %s", c.Events.Transport)
	}

	if c.Events.RetryCount < 0 {
		return fmt.Errorf("EVENTS_RETRY_COUNT must be non-negative")
	}
	return nil
}

// validateReconcile validates the rolling-stats scheduler
func (c *Config) validateReconcile() error {
	if !c.Reconcile.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Reconcile.Schedule) == "" {
		return fmt.Errorf("RECONCILE_SCHEDULE is required when RECONCILE_ENABLED=true")
	}
	if c.Reconcile.RatePerSecond <= 0 {
		return fmt.Errorf("RECONCILE_RATE_PER_SECOND must be positive")
	}
	return nil
}

// validateRecommend validates composer settings
func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.PreferenceWindow < 1 {
		return fmt.Errorf("RECOMMEND_PREFERENCE_WINDOW must be at least 1")
	}
	if r.ExcludeWindow < 0 {
		return fmt.Errorf("RECOMMEND_EXCLUDE_WINDOW must be non-negative")
	}
	if r.DefaultCount < 1 || r.DefaultCount > r.MaxCount {
		return fmt.Errorf("RECOMMEND_DEFAULT_COUNT must be between 1 and RECOMMEND_MAX_COUNT (%d)", r.MaxCount)
	}
	if r.CandidateCap < r.MaxCount {
		return fmt.Errorf("RECOMMEND_CANDIDATE_CAP must be at least RECOMMEND_MAX_COUNT (%d)", r.MaxCount)
	}
	if r.MaxEntertainmentShare < 0 || r.MaxEntertainmentShare > 1 {
		return fmt.Errorf("RECOMMEND_MAX_ENTERTAINMENT_SHARE must be between 0 and 1")
	}
	if len(r.EntertainmentCategories) == 0 || len(r.RecoveryCategories) == 0 {
		return fmt.Errorf("recommend entertainment and recovery categories must not be empty")
	}
	if r.BreakerMaxFailures == 0 {
		return fmt.Errorf("RECOMMEND_BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

// validateDisengagement validates detector thresholds
func (c *Config) validateDisengagement() error {
	d := &c.Recommend.Disengagement
	if d.Window < 1 {
		return fmt.Errorf("DISENGAGEMENT_WINDOW must be at least 1")
	}
	if d.MinEvents < 1 || d.MinEvents > d.Window {
		return fmt.Errorf("DISENGAGEMENT_MIN_EVENTS must be between 1 and DISENGAGEMENT_WINDOW (%d)", d.Window)
	}
	if d.VeryLowCompletion > d.LowCompletion {
		return fmt.Errorf("DISENGAGEMENT_VERY_LOW_COMPLETION must not exceed DISENGAGEMENT_LOW_COMPLETION")
	}
	if d.SkipRate < 0 || d.SkipRate > 1 {
		return fmt.Errorf("DISENGAGEMENT_SKIP_RATE must be between 0 and 1")
	}
	weights := []float64{
		d.VeryLowCompletionWeight, d.LowCompletionWeight, d.SkipRateWeight,
		d.LowEngagementWeight, d.RapidScrollWeight,
	}
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("disengagement clause weights must be non-negative")
		}
	}
	if d.Threshold < 0 || d.Threshold > 100 {
		return fmt.Errorf("DISENGAGEMENT_THRESHOLD must be between 0 and 100")
	}
	return nil
}

// validateFeed validates unified feed settings
func (c *Config) validateFeed() error {
	f := &c.Feed
	if f.DefaultPageSize < 1 || f.DefaultPageSize > f.MaxPageSize {
		return fmt.Errorf("FEED_DEFAULT_PAGE_SIZE must be between 1 and FEED_MAX_PAGE_SIZE (%d)", f.MaxPageSize)
	}
	if f.UploadedCap < 1 || f.ExternalCap < 1 {
		return fmt.Errorf("FEED_UPLOADED_CAP and FEED_EXTERNAL_CAP must be at least 1")
	}
	if f.ViewedPenalty < 0 || f.ViewedPenalty > 1 {
		return fmt.Errorf("FEED_VIEWED_PENALTY must be between 0 and 1")
	}
	if f.MaxJitter < 0 {
		return fmt.Errorf("FEED_MAX_JITTER must be non-negative")
	}
	if f.MaxConsecutive < 1 {
		return fmt.Errorf("FEED_MAX_CONSECUTIVE must be at least 1")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

// validateSecurity validates identity and rate limit configuration
func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}
