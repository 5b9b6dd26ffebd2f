// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/edufeed/internal/models"
)

const engagementColumns = `id, user_id, video_id, session_id, category,
	watch_time_seconds, total_duration_seconds, completion_rate,
	liked, commented, shared, replays, pause_count, seek_count,
	skipped_at_seconds, skip_reason, engagement_score,
	started_at, completed_at, created_at, updated_at`

// upsertEngagementQuery merges a partial sample into the stored record.
// Absent fields arrive as NULL and keep the stored value; watch time only
// grows; interaction flags only turn on.
const upsertEngagementQuery = `
	INSERT INTO engagement_events (
		id, user_id, video_id, session_id, category,
		watch_time_seconds, total_duration_seconds,
		liked, commented, shared, replays, pause_count, seek_count,
		skipped_at_seconds, skip_reason,
		started_at, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, COALESCE(?, 0), ?, COALESCE(?, false), COALESCE(?, false), COALESCE(?, false), ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id, video_id, session_id) DO UPDATE SET
		category = COALESCE(EXCLUDED.category, engagement_events.category),
		watch_time_seconds = GREATEST(engagement_events.watch_time_seconds, EXCLUDED.watch_time_seconds),
		total_duration_seconds = COALESCE(EXCLUDED.total_duration_seconds, engagement_events.total_duration_seconds),
		liked = engagement_events.liked OR EXCLUDED.liked,
		commented = engagement_events.commented OR EXCLUDED.commented,
		shared = engagement_events.shared OR EXCLUDED.shared,
		replays = COALESCE(EXCLUDED.replays, engagement_events.replays),
		pause_count = COALESCE(EXCLUDED.pause_count, engagement_events.pause_count),
		seek_count = COALESCE(EXCLUDED.seek_count, engagement_events.seek_count),
		skipped_at_seconds = COALESCE(EXCLUDED.skipped_at_seconds, engagement_events.skipped_at_seconds),
		skip_reason = COALESCE(EXCLUDED.skip_reason, engagement_events.skip_reason),
		updated_at = EXCLUDED.updated_at
	RETURNING ` + engagementColumns

const updateDerivedQuery = `
	UPDATE engagement_events SET
		total_duration_seconds = ?,
		completion_rate = ?,
		engagement_score = ?,
		completed_at = ?,
		replays = ?,
		pause_count = ?,
		seek_count = ?,
		skip_reason = ?
	WHERE user_id = ? AND video_id = ? AND session_id = ?`

// UpsertEngagement atomically merges patch into the record keyed by
// (user, video, session), lets derive recompute the derived fields, and
// stores them in the same transaction, so the stored score always matches
// the stored fields. It reports whether the record was
// created by this call. Concurrent writers on one key serialize through
// DuckDB's conflict detection and are retried.
func (db *DB) UpsertEngagement(ctx context.Context, patch *models.EngagementPatch, derive func(*models.EngagementEvent)) (*models.EngagementEvent, bool, error) {
	if patch == nil {
		return nil, false, fmt.Errorf("engagement patch is nil: %w", models.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var (
		event   *models.EngagementEvent
		created bool
	)
	err := withConflictRetry(ctx, func() error {
		var err error
		event, created, err = db.upsertEngagementTx(ctx, patch, derive)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert engagement: %w", err)
	}
	return event, created, nil
}

func (db *DB) upsertEngagementTx(ctx context.Context, patch *models.EngagementPatch, derive func(*models.EngagementEvent)) (*models.EngagementEvent, bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin transaction: %w", err)
	}

	recordedAt := patch.RecordedAt.UTC()
	if patch.RecordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	var skipReason interface{}
	if patch.SkipReason != nil {
		skipReason = string(*patch.SkipReason)
	}
	var category interface{}
	if patch.Category != "" {
		category = patch.Category
	}

	row := tx.QueryRowContext(ctx, upsertEngagementQuery,
		patch.ID, patch.UserID, patch.VideoID, patch.SessionID, category,
		nullable(patch.WatchTimeSeconds), nullable(patch.TotalDurationSeconds),
		nullable(patch.Liked), nullable(patch.Commented), nullable(patch.Shared),
		nullable(patch.Replays), nullable(patch.PauseCount), nullable(patch.SeekCount),
		nullable(patch.SkippedAtSeconds), skipReason,
		recordedAt, recordedAt, recordedAt,
	)
	event, err := scanEngagement(row)
	if err != nil {
		rollbackQuietly(tx)
		return nil, false, fmt.Errorf("merge engagement: %w", err)
	}

	if derive != nil {
		derive(event)
	}

	var completedAt interface{}
	if event.CompletedAt != nil {
		completedAt = event.CompletedAt.UTC()
	}
	_, err = tx.ExecContext(ctx, updateDerivedQuery,
		event.TotalDurationSeconds, event.CompletionRate, event.EngagementScore, completedAt,
		event.Replays, event.PauseCount, event.SeekCount, string(event.SkipReason),
		event.UserID, event.VideoID, event.SessionID,
	)
	if err != nil {
		rollbackQuietly(tx)
		return nil, false, fmt.Errorf("store derived fields: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit engagement: %w", err)
	}
	return event, event.ID == patch.ID, nil
}

// RecentEngagements returns up to limit of the user's most recent records
// across all sessions, newest first.
func (db *DB) RecentEngagements(ctx context.Context, userID string, limit int) ([]models.EngagementEvent, error) {
	query := `SELECT ` + engagementColumns + `
		FROM engagement_events
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	events, err := queryAndScan(ctx, db.conn, query, []interface{}{userID, limit}, scanEngagementRows)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent engagements: %w", err)
	}
	return events, nil
}

// RecentSessionEngagements returns up to limit of the user's most recent
// records within one session, newest first.
func (db *DB) RecentSessionEngagements(ctx context.Context, userID, sessionID string, limit int) ([]models.EngagementEvent, error) {
	query := `SELECT ` + engagementColumns + `
		FROM engagement_events
		WHERE user_id = ? AND session_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	events, err := queryAndScan(ctx, db.conn, query, []interface{}{userID, sessionID, limit}, scanEngagementRows)
	if err != nil {
		return nil, fmt.Errorf("failed to query session engagements: %w", err)
	}
	return events, nil
}

// GetEngagement returns the record for one key.
func (db *DB) GetEngagement(ctx context.Context, userID, videoID, sessionID string) (*models.EngagementEvent, error) {
	query := `SELECT ` + engagementColumns + `
		FROM engagement_events
		WHERE user_id = ? AND video_id = ? AND session_id = ?`
	event, err := scanEngagement(db.conn.QueryRowContext(ctx, query, userID, videoID, sessionID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("engagement %s/%s/%s: %w", userID, videoID, sessionID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get engagement: %w", err)
	}
	return event, nil
}

// CountEngagements returns the number of stored records for a user.
func (db *DB) CountEngagements(ctx context.Context, userID string) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM engagement_events WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count engagements: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEngagementRows(rows *sql.Rows) (models.EngagementEvent, error) {
	event, err := scanEngagement(rows)
	if err != nil {
		return models.EngagementEvent{}, err
	}
	return *event, nil
}

// scanEngagement reads one row of engagementColumns. NULL counters and
// durations read as zero.
func scanEngagement(row rowScanner) (*models.EngagementEvent, error) {
	var (
		e           models.EngagementEvent
		category    sql.NullString
		totalDur    sql.NullFloat64
		replays     sql.NullInt64
		pauses      sql.NullInt64
		seeks       sql.NullInt64
		skippedAt   sql.NullFloat64
		skipReason  sql.NullString
		completedAt sql.NullTime
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.VideoID, &e.SessionID, &category,
		&e.WatchTimeSeconds, &totalDur, &e.CompletionRate,
		&e.Liked, &e.Commented, &e.Shared, &replays, &pauses, &seeks,
		&skippedAt, &skipReason, &e.EngagementScore,
		&e.StartedAt, &completedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Category = category.String
	e.TotalDurationSeconds = totalDur.Float64
	e.Replays = int(replays.Int64)
	e.PauseCount = int(pauses.Int64)
	e.SeekCount = int(seeks.Int64)
	if skippedAt.Valid {
		v := skippedAt.Float64
		e.SkippedAtSeconds = &v
	}
	e.SkipReason = models.SkipReason(skipReason.String)
	if e.SkipReason == "" {
		e.SkipReason = models.SkipReasonNone
	}
	if completedAt.Valid {
		t := completedAt.Time
		e.CompletedAt = &t
	}
	return &e, nil
}

// nullable converts an optional field into a driver value, NULL when absent.
func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
