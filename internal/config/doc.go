// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

/*
Package config provides centralized configuration management for Edufeed.

Configuration is layered with Koanf v2:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (config.yaml, /etc/edufeed/config.yaml, or CONFIG_PATH)
 3. Environment variables, through an explicit name map

Only mapped environment variables are read; anything else in the process
environment is ignored.

# Environment Variables

Database:
  - DUCKDB_PATH: Database file path (default: /data/edufeed.duckdb)
  - DUCKDB_MAX_MEMORY: Memory limit (default: 1GB)
  - SEED_MOCK_DATA: Seed demo users and videos (default: false)

History:
  - HISTORY_PATH: BadgerDB directory (default: /data/history)
  - HISTORY_IN_MEMORY: In-memory only (default: false)

Events:
  - EVENTS_TRANSPORT: channel or nats (default: channel)
  - NATS_URL, NATS_EMBEDDED, NATS_STORE_DIR

Disengagement policy:
  - DISENGAGEMENT_VERY_LOW_COMPLETION (20), DISENGAGEMENT_LOW_COMPLETION (40)
  - DISENGAGEMENT_SKIP_RATE (0.6), DISENGAGEMENT_LOW_ENGAGEMENT (30)
  - DISENGAGEMENT_RAPID_SCROLL (10 seconds), DISENGAGEMENT_THRESHOLD (30)

Server:
  - HTTP_HOST (0.0.0.0), HTTP_PORT (3857), LOG_LEVEL, LOG_FORMAT

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal("Failed to load config:", err)
	}
	db, err := database.New(&cfg.Database)
*/
package config
