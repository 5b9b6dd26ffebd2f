// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

// Package database is the DuckDB store behind engagement tracking and the
// two video catalogs.
//
// # Architecture
//
//   - database.go: connection lifecycle (open, pool, schema, close)
//   - database_connection.go: pool settings and transaction-conflict retry
//   - database_schema.go: table and index creation
//   - crud_engagement.go: the engagement upsert and recent-history reads
//   - crud_catalog.go: uploaded and external catalog queries
//   - crud_users.go: user profiles and interests
//   - crud_stats.go: rolling per-video aggregates
//   - seed.go: reproducible demo data
//
// # Engagement Upsert
//
// One record exists per (user_id, video_id, session_id). A write merges a
// partial sample into that record with INSERT ... ON CONFLICT DO UPDATE:
// absent fields keep their stored values, watch time only grows, and the
// liked/commented/shared flags only turn on. The caller-supplied derive function
// then recomputes completion rate, completed_at and the engagement score from
// the merged values and they are written back in the same transaction.
// Concurrent writers on one key lose DuckDB's optimistic conflict check and
// are retried with exponential backoff.
//
// # Catalog Reads
//
// QueryVideos and QueryExternalVideos only return active entries and always
// carry a LIMIT, so ranking work stays bounded as the catalog grows.
//
// # Thread Safety
//
// DB is safe for concurrent use; database/sql pools DuckDB connections.
package database
