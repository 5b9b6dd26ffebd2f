// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

/*
database_schema.go - Database Schema Management

Tables:
  - users / user_interests: profile slice read by the ranking core
  - videos: creator-uploaded catalog with rolling engagement aggregates
  - external_videos: externally indexed catalog
  - engagement_events: one behavioral sample per (user_id, video_id, session_id)

The engagement_events primary key is the upsert key. Counter and duration
columns are nullable so a merge can tell "absent" from "zero"; the write
path normalizes them before commit.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// createIndexes creates secondary indexes for the recent-history reads.
// Catalog columns stay unindexed because catalog upserts rewrite them and
// DuckDB rejects ON CONFLICT updates of indexed columns.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_interests (
		user_id TEXT NOT NULL,
		interest TEXT NOT NULL,
		PRIMARY KEY (user_id, interest)
	)`,

	`CREATE TABLE IF NOT EXISTS videos (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		creator_id TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'other',
		duration_seconds DOUBLE NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		view_count BIGINT NOT NULL DEFAULT 0,
		like_count BIGINT NOT NULL DEFAULT 0,
		comment_count BIGINT NOT NULL DEFAULT 0,
		average_completion_rate DOUBLE NOT NULL DEFAULT 0,
		average_watch_time DOUBLE NOT NULL DEFAULT 0,
		engagement_samples BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS external_videos (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		channel TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL DEFAULT '',
		duration_seconds DOUBLE NOT NULL DEFAULT 0,
		view_count BIGINT NOT NULL DEFAULT 0,
		published_at TIMESTAMP NOT NULL,
		status TEXT NOT NULL DEFAULT 'active'
	)`,

	`CREATE TABLE IF NOT EXISTS engagement_events (
		id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		video_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		category TEXT,
		watch_time_seconds DOUBLE NOT NULL DEFAULT 0,
		total_duration_seconds DOUBLE,
		completion_rate DOUBLE NOT NULL DEFAULT 0,
		liked BOOLEAN NOT NULL DEFAULT false,
		commented BOOLEAN NOT NULL DEFAULT false,
		shared BOOLEAN NOT NULL DEFAULT false,
		replays INTEGER,
		pause_count INTEGER,
		seek_count INTEGER,
		skipped_at_seconds DOUBLE,
		skip_reason TEXT,
		engagement_score DOUBLE NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, video_id, session_id)
	)`,
}

var indexCreationQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_engagement_user_created ON engagement_events(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_engagement_video ON engagement_events(video_id)`,
}
