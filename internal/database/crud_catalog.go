// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/edufeed/internal/models"
)

const videoColumns = `id, title, creator_id, category, duration_seconds, status,
	view_count, like_count, comment_count,
	average_completion_rate, average_watch_time, engagement_samples, created_at`

const externalVideoColumns = `id, title, channel, subject, duration_seconds,
	view_count, published_at, status`

// GetVideo returns one uploaded video regardless of status.
func (db *DB) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = ?`
	rows, err := db.conn.QueryContext(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get video: %w", err)
		}
		return nil, fmt.Errorf("video %s: %w", videoID, models.ErrNotFound)
	}
	v, err := scanVideo(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}
	return &v, nil
}

// QueryVideos returns active uploaded videos matching q.
func (db *DB) QueryVideos(ctx context.Context, q models.CatalogQuery) ([]models.Video, error) {
	qb := newQueryBuilder(`SELECT `+videoColumns+` FROM videos WHERE status = ?`, models.VideoStatusActive)

	categories := lowerAll(q.Categories)
	switch {
	case len(categories) > 0 && q.MinViews > 0:
		args := make([]interface{}, 0, len(categories)+1)
		for _, c := range categories {
			args = append(args, c)
		}
		args = append(args, q.MinViews)
		qb.addFilter(fmt.Sprintf("(category IN (%s) OR view_count >= ?)", placeholders(len(categories))), args...)
	case len(categories) > 0:
		qb.addInFilter("category", categories)
	case q.MinViews > 0:
		qb.addFilter("view_count >= ?", q.MinViews)
	}

	if q.MaxDurationSeconds > 0 {
		qb.addFilter("duration_seconds <= ?", q.MaxDurationSeconds)
	}
	qb.addNotInFilter("id", q.ExcludeIDs)

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	qb.addLimit(limit)

	query, args := qb.build(videoOrderClause(q.Order) + " LIMIT ?")
	videos, err := queryAndScan(ctx, db.conn, query, args, scanVideo)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos (%s): %w", q.Order, err)
	}
	return videos, nil
}

func videoOrderClause(order models.CatalogOrder) string {
	switch order {
	case models.OrderPopularity:
		return "ORDER BY view_count DESC, like_count DESC, id"
	case models.OrderLikes:
		return "ORDER BY like_count DESC, id"
	default:
		return "ORDER BY created_at DESC, like_count DESC, view_count DESC, id"
	}
}

// QueryExternalVideos returns active externally indexed videos, newest first.
func (db *DB) QueryExternalVideos(ctx context.Context, q models.ExternalQuery) ([]models.ExternalVideo, error) {
	qb := newQueryBuilder(`SELECT `+externalVideoColumns+` FROM external_videos WHERE status = ?`, models.VideoStatusActive)
	if q.Subject != "" {
		qb.addFilter("LOWER(subject) = ?", strings.ToLower(q.Subject))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	qb.addLimit(limit)

	query, args := qb.build("ORDER BY published_at DESC, id LIMIT ?")
	videos, err := queryAndScan(ctx, db.conn, query, args, scanExternalVideo)
	if err != nil {
		return nil, fmt.Errorf("failed to query external videos: %w", err)
	}
	return videos, nil
}

// UpsertVideo inserts or replaces the catalog fields of an uploaded video.
// Rolling engagement aggregates are left untouched on update.
func (db *DB) UpsertVideo(ctx context.Context, v *models.Video) error {
	status := v.Status
	if status == "" {
		status = models.VideoStatusActive
	}
	createdAt := v.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	category := strings.ToLower(v.Category)
	if category == "" {
		category = "other"
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO videos (id, title, creator_id, category, duration_seconds, status,
			view_count, like_count, comment_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			creator_id = EXCLUDED.creator_id,
			category = EXCLUDED.category,
			duration_seconds = EXCLUDED.duration_seconds,
			status = EXCLUDED.status,
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count`,
		v.ID, v.Title, v.CreatorID, category, v.DurationSeconds, status,
		v.ViewCount, v.LikeCount, v.CommentCount, createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert video %s: %w", v.ID, err)
	}
	return nil
}

// UpsertExternalVideo inserts or replaces an externally indexed video.
func (db *DB) UpsertExternalVideo(ctx context.Context, v *models.ExternalVideo) error {
	status := v.Status
	if status == "" {
		status = models.VideoStatusActive
	}
	publishedAt := v.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO external_videos (id, title, channel, subject, duration_seconds, view_count, published_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			channel = EXCLUDED.channel,
			subject = EXCLUDED.subject,
			duration_seconds = EXCLUDED.duration_seconds,
			view_count = EXCLUDED.view_count,
			published_at = EXCLUDED.published_at,
			status = EXCLUDED.status`,
		v.ID, v.Title, v.Channel, v.Subject, v.DurationSeconds, v.ViewCount, publishedAt.UTC(), status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert external video %s: %w", v.ID, err)
	}
	return nil
}

func scanVideo(rows *sql.Rows) (models.Video, error) {
	var v models.Video
	err := rows.Scan(
		&v.ID, &v.Title, &v.CreatorID, &v.Category, &v.DurationSeconds, &v.Status,
		&v.ViewCount, &v.LikeCount, &v.CommentCount,
		&v.AverageCompletionRate, &v.AverageWatchTime, &v.EngagementSamples, &v.CreatedAt,
	)
	return v, err
}

func scanExternalVideo(rows *sql.Rows) (models.ExternalVideo, error) {
	var v models.ExternalVideo
	err := rows.Scan(
		&v.ID, &v.Title, &v.Channel, &v.Subject, &v.DurationSeconds,
		&v.ViewCount, &v.PublishedAt, &v.Status,
	)
	return v, err
}

func lowerAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
