// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/edufeed/internal/models"
)

// RefreshVideoStats recomputes a video's rolling averages from its stored
// engagement records. The result depends only on table contents, so
// repeated or reordered calls converge.
func (db *DB) RefreshVideoStats(ctx context.Context, videoID string) (*models.VideoStats, error) {
	var stats *models.VideoStats
	err := withConflictRetry(ctx, func() error {
		res, err := db.conn.ExecContext(ctx, `
			UPDATE videos SET
				average_completion_rate = agg.avg_completion,
				average_watch_time = agg.avg_watch,
				engagement_samples = agg.samples
			FROM (
				SELECT
					COALESCE(AVG(completion_rate), 0) AS avg_completion,
					COALESCE(AVG(watch_time_seconds), 0) AS avg_watch,
					COUNT(*) AS samples
				FROM engagement_events
				WHERE video_id = ?
			) AS agg
			WHERE videos.id = ?`, videoID, videoID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("video %s: %w", videoID, models.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refresh video stats: %w", err)
	}

	stats, err = db.GetVideoStats(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetVideoStats returns the stored rolling aggregates of a video.
func (db *DB) GetVideoStats(ctx context.Context, videoID string) (*models.VideoStats, error) {
	s := models.VideoStats{VideoID: videoID}
	err := db.conn.QueryRowContext(ctx, `
		SELECT average_completion_rate, average_watch_time, engagement_samples
		FROM videos WHERE id = ?`, videoID,
	).Scan(&s.AverageCompletionRate, &s.AverageWatchTime, &s.Samples)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("video %s: %w", videoID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video stats: %w", err)
	}
	return &s, nil
}

// ListVideoIDs returns every uploaded video ID in a stable order.
func (db *DB) ListVideoIDs(ctx context.Context) ([]string, error) {
	ids, err := queryAndScan(ctx, db.conn, `SELECT id FROM videos ORDER BY id`, nil,
		func(rows *sql.Rows) (string, error) {
			var id string
			err := rows.Scan(&id)
			return id, err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return ids, nil
}
