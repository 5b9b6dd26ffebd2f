// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/edufeed/config.yaml",
	"/etc/edufeed/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/edufeed.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
			SeedMockData:           false,
		},
		History: HistoryConfig{
			Path:       "/data/history",
			InMemory:   false,
			MaxEntries: 200,
		},
		Engagement: EngagementConfig{
			BatchConcurrency: 8,
			MaxBatchSize:     500,
		},
		Events: EventsConfig{
			Transport:            "channel",
			BufferSize:           1024,
			NATSURL:              "nats://127.0.0.1:4222",
			EmbeddedServer:       false,
			EmbeddedHost:         "127.0.0.1",
			EmbeddedPort:         4222,
			EmbeddedStoreDir:     "/data/nats",
			QueueGroup:           "engagement-side-effects",
			RetryCount:           3,
			RetryInitialInterval: 100 * time.Millisecond,
			PoisonTopic:          "engagement.poison",
			CloseTimeout:         10 * time.Second,
		},
		Reconcile: ReconcileConfig{
			Enabled:       true,
			Schedule:      "@every 15m",
			RatePerSecond: 50,
		},
		Recommend: RecommendConfig{
			PreferenceWindow:        50,
			ExcludeWindow:           30,
			DefaultCount:            10,
			MaxCount:                50,
			CandidateCap:            200,
			MaxEntertainmentShare:   0.7,
			EntertainmentMinViews:   1000,
			RecoveryMaxDuration:     180,
			EntertainmentCategories: []string{"art", "music", "sports", "cooking"},
			RecoveryCategories:      []string{"education", "science", "history"},
			Seed:                    0,
			BreakerMaxFailures:      5,
			BreakerTimeout:          30 * time.Second,
			Disengagement: DisengagementConfig{
				Window:                  5,
				MinEvents:               3,
				VeryLowCompletion:       20,
				VeryLowCompletionWeight: 40,
				LowCompletion:           40,
				LowCompletionWeight:     20,
				SkipRate:                0.6,
				SkipRateWeight:          30,
				LowEngagement:           30,
				LowEngagementWeight:     20,
				RapidScrollSeconds:      10,
				RapidScrollWeight:       10,
				Threshold:               30,
			},
		},
		Feed: FeedConfig{
			DefaultPageSize:  20,
			MaxPageSize:      100,
			UploadedCap:      200,
			ExternalCap:      200,
			ViewedPenalty:    0.3,
			MaxJitter:        5,
			MaxConsecutive:   2,
			ExternalCacheTTL: 30 * time.Second,
			RequestTimeout:   10 * time.Second,
		},
		Server: ServerConfig{
			Port:        3857,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.entertainment_categories",
	"recommend.recovery_categories",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Database
	"duckdb_path":           "database.path",
	"duckdb_max_memory":     "database.max_memory",
	"duckdb_threads":        "database.threads",
	"duckdb_preserve_order": "database.preserve_insertion_order",
	"seed_mock_data":        "database.seed_mock_data",

	// History
	"history_path":        "history.path",
	"history_in_memory":   "history.in_memory",
	"history_max_entries": "history.max_entries",

	// Engagement
	"engagement_batch_concurrency": "engagement.batch_concurrency",
	"engagement_max_batch_size":    "engagement.max_batch_size",

	// Events
	"events_transport":     "events.transport",
	"events_buffer_size":   "events.buffer_size",
	"nats_url":             "events.nats_url",
	"nats_embedded":        "events.embedded_server",
	"nats_embedded_host":   "events.embedded_host",
	"nats_embedded_port":   "events.embedded_port",
	"nats_store_dir":       "events.embedded_store_dir",
	"nats_queue_group":     "events.queue_group",
	"events_retry_count":   "events.retry_count",
	"events_poison_topic":  "events.poison_topic",
	"events_close_timeout": "events.close_timeout",

	// Reconcile
	"reconcile_enabled":         "reconcile.enabled",
	"reconcile_schedule":        "reconcile.schedule",
	"reconcile_rate_per_second": "reconcile.rate_per_second",

	// Recommend
	"recommend_preference_window":        "recommend.preference_window",
	"recommend_exclude_window":           "recommend.exclude_window",
	"recommend_default_count":            "recommend.default_count",
	"recommend_max_count":                "recommend.max_count",
	"recommend_candidate_cap":            "recommend.candidate_cap",
	"recommend_max_entertainment_share":  "recommend.max_entertainment_share",
	"recommend_entertainment_min_views":  "recommend.entertainment_min_views",
	"recommend_recovery_max_duration":    "recommend.recovery_max_duration",
	"recommend_entertainment_categories": "recommend.entertainment_categories",
	"recommend_recovery_categories":      "recommend.recovery_categories",
	"recommend_seed":                     "recommend.seed",
	"recommend_breaker_max_failures":     "recommend.breaker_max_failures",
	"recommend_breaker_timeout":          "recommend.breaker_timeout",

	// Disengagement policy
	"disengagement_window":              "recommend.disengagement.window",
	"disengagement_min_events":          "recommend.disengagement.min_events",
	"disengagement_very_low_completion": "recommend.disengagement.very_low_completion",
	"disengagement_low_completion":      "recommend.disengagement.low_completion",
	"disengagement_skip_rate":           "recommend.disengagement.skip_rate",
	"disengagement_low_engagement":      "recommend.disengagement.low_engagement",
	"disengagement_rapid_scroll":        "recommend.disengagement.rapid_scroll_seconds",
	"disengagement_threshold":           "recommend.disengagement.threshold",

	// Feed
	"feed_default_page_size":  "feed.default_page_size",
	"feed_max_page_size":      "feed.max_page_size",
	"feed_uploaded_cap":       "feed.uploaded_cap",
	"feed_external_cap":       "feed.external_cap",
	"feed_viewed_penalty":     "feed.viewed_penalty",
	"feed_max_jitter":         "feed.max_jitter",
	"feed_max_consecutive":    "feed.max_consecutive",
	"feed_request_timeout":    "feed.request_timeout",
	"feed_external_cache_ttl": "feed.external_cache_ttl",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - DISENGAGEMENT_SKIP_RATE -> recommend.disengagement.skip_rate
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped variables are skipped so unrelated environment
	// variables never pollute the config.
	return ""
}
