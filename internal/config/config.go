// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Configuration Categories:
//
//  1. Storage:
//     - Database: DuckDB engagement store and catalog
//     - History: BadgerDB viewing-history log
//
//  2. Processing:
//     - Engagement: batch ingestion limits
//     - Events: side-effect bus (Watermill gochannel or NATS)
//     - Reconcile: scheduled rolling-stats repair
//
//  3. Ranking:
//     - Recommend: personalized composer and disengagement policy
//     - Feed: cross-source unified feed
//
//  4. Serving:
//     - Server, Security, Logging
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	History    HistoryConfig    `koanf:"history"`
	Engagement EngagementConfig `koanf:"engagement"`
	Events     EventsConfig     `koanf:"events"`
	Reconcile  ReconcileConfig  `koanf:"reconcile"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Feed       FeedConfig       `koanf:"feed"`
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedMockData           bool   `koanf:"seed_mock_data"`           // Seed demo users and videos on startup
}

// HistoryConfig holds the viewing-history store settings.
//
// Environment Variables:
//   - HISTORY_PATH: BadgerDB directory (default: /data/history)
//   - HISTORY_IN_MEMORY: keep history in memory only (default: false)
//   - HISTORY_MAX_ENTRIES: entries kept per user (default: 200)
type HistoryConfig struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	// Default: /data/history
	Path string `koanf:"path"`

	// InMemory keeps the log in memory only. Useful for tests and demos.
	// Default: false
	InMemory bool `koanf:"in_memory"`

	// MaxEntries caps the per-user log; older entries are dropped.
	// Default: 200
	MaxEntries int `koanf:"max_entries"`
}

// EngagementConfig holds engagement ingestion settings.
type EngagementConfig struct {
	// BatchConcurrency bounds concurrent per-item writes in a batch.
	// Default: 8
	BatchConcurrency int `koanf:"batch_concurrency"`

	// MaxBatchSize is the largest accepted batch.
	// Default: 500
	MaxBatchSize int `koanf:"max_batch_size"`
}

// EventsConfig holds the side-effect event bus settings.
//
// Environment Variables:
//   - EVENTS_TRANSPORT: channel or nats (default: channel)
//   - NATS_URL: NATS server URL when transport is nats
//   - NATS_EMBEDDED: run an embedded NATS server (default: false)
//   - NATS_STORE_DIR: embedded server storage directory
type EventsConfig struct {
	// Transport selects the message transport: "channel" (in-process) or "nats".
	// Default: channel
	Transport string `koanf:"transport"`

	// BufferSize is the gochannel output buffer per subscriber.
	// Default: 1024
	BufferSize int64 `koanf:"buffer_size"`

	// NATSURL is the broker URL for the nats transport.
	// Default: nats://127.0.0.1:4222
	NATSURL string `koanf:"nats_url"`

	// EmbeddedServer starts an in-process NATS server before connecting.
	// Default: false
	EmbeddedServer bool `koanf:"embedded_server"`

	// EmbeddedHost and EmbeddedPort bind the embedded server.
	EmbeddedHost string `koanf:"embedded_host"`
	EmbeddedPort int    `koanf:"embedded_port"`

	// EmbeddedStoreDir is the embedded server's storage directory.
	// Default: /data/nats
	EmbeddedStoreDir string `koanf:"embedded_store_dir"`

	// QueueGroup load-balances side-effect handlers across instances (nats only).
	// Default: engagement-side-effects
	QueueGroup string `koanf:"queue_group"`

	// Router retry policy for failing side-effect handlers.
	RetryCount           int           `koanf:"retry_count"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`

	// PoisonTopic receives messages that failed after all retries.
	// Default: engagement.poison
	PoisonTopic string `koanf:"poison_topic"`

	// CloseTimeout bounds router shutdown.
	// Default: 10s
	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// ReconcileConfig holds the rolling-stats reconciliation schedule.
type ReconcileConfig struct {
	// Enabled turns the scheduler on.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// Schedule is a robfig/cron spec.
	// Default: @every 15m
	Schedule string `koanf:"schedule"`

	// RatePerSecond paces per-video recomputation.
	// Default: 50
	RatePerSecond float64 `koanf:"rate_per_second"`
}

// RecommendConfig holds the personalized composer settings.
//
// Environment Variables:
//   - RECOMMEND_DEFAULT_COUNT: default N (default: 10)
//   - RECOMMEND_MAX_COUNT: largest N accepted (default: 50)
//   - RECOMMEND_SEED: random seed, 0 uses the clock (default: 0)
//   - DISENGAGEMENT_*: detector thresholds, see DisengagementConfig
type RecommendConfig struct {
	// PreferenceWindow is how many recent events feed the preference profile.
	// Default: 50
	PreferenceWindow int `koanf:"preference_window"`

	// ExcludeWindow is how many recent events form the exclude set.
	// Default: 30
	ExcludeWindow int `koanf:"exclude_window"`

	DefaultCount int `koanf:"default_count"`
	MaxCount     int `koanf:"max_count"`

	// CandidateCap bounds every catalog read.
	// Default: 200
	CandidateCap int `koanf:"candidate_cap"`

	// MaxEntertainmentShare caps the entertainment quota for disengaging users.
	// Default: 0.7
	MaxEntertainmentShare float64 `koanf:"max_entertainment_share"`

	// EntertainmentMinViews admits any video with at least this many views
	// into the entertainment mix.
	// Default: 1000
	EntertainmentMinViews int64 `koanf:"entertainment_min_views"`

	// RecoveryMaxDuration is the longest video allowed in the recovery mix.
	// Default: 180s
	RecoveryMaxDuration float64 `koanf:"recovery_max_duration"`

	EntertainmentCategories []string `koanf:"entertainment_categories"`
	RecoveryCategories      []string `koanf:"recovery_categories"`

	// Seed fixes the shuffle and jitter source. 0 seeds from the clock.
	Seed int64 `koanf:"seed"`

	// Catalog circuit breaker.
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`

	Disengagement DisengagementConfig `koanf:"disengagement"`
}

// DisengagementConfig holds the detector's policy constants.
// Every clause is additive; severity = min(100, sum).
type DisengagementConfig struct {
	Window    int `koanf:"window"`     // Default: 5
	MinEvents int `koanf:"min_events"` // Default: 3

	VeryLowCompletion       float64 `koanf:"very_low_completion"`        // Default: 20
	VeryLowCompletionWeight float64 `koanf:"very_low_completion_weight"` // Default: 40
	LowCompletion           float64 `koanf:"low_completion"`             // Default: 40
	LowCompletionWeight     float64 `koanf:"low_completion_weight"`      // Default: 20
	SkipRate                float64 `koanf:"skip_rate"`                  // Default: 0.6
	SkipRateWeight          float64 `koanf:"skip_rate_weight"`           // Default: 30
	LowEngagement           float64 `koanf:"low_engagement"`             // Default: 30
	LowEngagementWeight     float64 `koanf:"low_engagement_weight"`      // Default: 20
	RapidScrollSeconds      float64 `koanf:"rapid_scroll_seconds"`       // Default: 10
	RapidScrollWeight       float64 `koanf:"rapid_scroll_weight"`        // Default: 10

	// Threshold is the severity above which a session is disengaging.
	// Default: 30
	Threshold float64 `koanf:"threshold"`
}

// FeedConfig holds the cross-source unified feed settings.
type FeedConfig struct {
	DefaultPageSize int `koanf:"default_page_size"` // Default: 20
	MaxPageSize     int `koanf:"max_page_size"`     // Default: 100

	// UploadedCap and ExternalCap bound the per-source candidate reads.
	// Default: 200 each
	UploadedCap int `koanf:"uploaded_cap"`
	ExternalCap int `koanf:"external_cap"`

	// ViewedPenalty multiplies the score of already viewed candidates.
	// Default: 0.3
	ViewedPenalty float64 `koanf:"viewed_penalty"`

	// MaxJitter is the upper bound of the random tie-breaking term.
	// Default: 5
	MaxJitter float64 `koanf:"max_jitter"`

	// MaxConsecutive is the longest allowed same-category run.
	// Default: 2
	MaxConsecutive int `koanf:"max_consecutive"`

	// ExternalCacheTTL memoizes external catalog reads. 0 disables.
	// Default: 30s
	ExternalCacheTTL time.Duration `koanf:"external_cache_ttl"`

	// RequestTimeout bounds one feed computation.
	// Default: 10s
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // Environment mode: "development", "staging", "production" (default: "development")
}

// SecurityConfig holds request identity and abuse protection settings
type SecurityConfig struct {
	// JWTSecret enables bearer-token identity when set (HS256, min 32 chars).
	// The token subject becomes the caller's user ID for the unified feed.
	JWTSecret string `koanf:"jwt_secret"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load reads configuration with the following precedence (highest to lowest):
//  1. Environment variables
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Built-in defaults
func Load() (*Config, error) {
	return LoadWithKoanf()
}
