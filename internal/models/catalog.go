// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package models

import (
	"time"
)

// VideoStatusActive marks catalog entries eligible for feeds.
const VideoStatusActive = "active"

// Video is a creator-uploaded catalog entry.
type Video struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	CreatorID             string    `json:"creator_id"`
	Category              string    `json:"category"`
	DurationSeconds       float64   `json:"duration_seconds"`
	Status                string    `json:"status"`
	ViewCount             int64     `json:"view_count"`
	LikeCount             int64     `json:"like_count"`
	CommentCount          int64     `json:"comment_count"`
	AverageCompletionRate float64   `json:"average_completion_rate"`
	AverageWatchTime      float64   `json:"average_watch_time"`
	EngagementSamples     int64     `json:"engagement_samples"`
	CreatedAt             time.Time `json:"created_at"`
}

// ExternalVideo is an externally indexed catalog entry. The indexer only
// records a view count; likes and comments are unknown.
type ExternalVideo struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Channel         string    `json:"channel"`
	Subject         string    `json:"subject"`
	DurationSeconds float64   `json:"duration_seconds"`
	ViewCount       int64     `json:"view_count"`
	PublishedAt     time.Time `json:"published_at"`
	Status          string    `json:"status"`
}

// User is the profile slice the ranking core reads.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Interests []string  `json:"interests"`
	CreatedAt time.Time `json:"created_at"`
}

// VideoStats are the rolling aggregates kept on an uploaded video.
type VideoStats struct {
	VideoID               string  `json:"video_id"`
	AverageCompletionRate float64 `json:"average_completion_rate"`
	AverageWatchTime      float64 `json:"average_watch_time"`
	Samples               int64   `json:"samples"`
}

// CatalogOrder selects the ordering of a catalog query.
type CatalogOrder int

const (
	// OrderRecency orders by creation time, then likes, then views.
	OrderRecency CatalogOrder = iota
	// OrderPopularity orders by views, then likes.
	OrderPopularity
	// OrderLikes orders by likes only.
	OrderLikes
)

// String returns the string representation of the order.
func (o CatalogOrder) String() string {
	switch o {
	case OrderRecency:
		return "recency"
	case OrderPopularity:
		return "popularity"
	case OrderLikes:
		return "likes"
	default:
		return "unknown"
	}
}

// CatalogQuery filters active uploaded videos.
type CatalogQuery struct {
	// Categories restricts results to these categories. Empty means any.
	Categories []string

	// MinViews, when positive, also admits videos outside Categories whose
	// view count reaches it.
	MinViews int64

	// MaxDurationSeconds, when positive, drops longer videos.
	MaxDurationSeconds float64

	// ExcludeIDs are never returned.
	ExcludeIDs []string

	Order CatalogOrder
	Limit int
}

// ExternalQuery filters active externally indexed videos, newest first.
type ExternalQuery struct {
	// Subject is a case-insensitive exact subject filter. Empty means any.
	Subject string
	Limit   int
}

// HistoryEntry is one line of a user's viewing-history log.
type HistoryEntry struct {
	VideoID   string    `json:"video_id"`
	SessionID string    `json:"session_id"`
	Category  string    `json:"category"`
	WatchedAt time.Time `json:"watched_at"`
}
