// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package models

import (
	"time"
)

// Source tags which catalog a candidate came from.
type Source string

const (
	SourceUploaded Source = "uploaded"
	SourceExternal Source = "external"
)

// Candidate is the source-agnostic projection of a catalog entry used for
// ranking. It is built per request and never persisted.
type Candidate struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Category              string    `json:"category"`
	DurationSeconds       float64   `json:"duration_seconds"`
	PublishedAt           time.Time `json:"published_at"`
	ViewCount             int64     `json:"view_count"`
	LikeCount             int64     `json:"like_count"`
	CommentCount          int64     `json:"comment_count"`
	AverageCompletionRate float64   `json:"average_completion_rate"`
	Source                Source    `json:"source"`
}

// ScoredCandidate is a candidate with its ranking score.
type ScoredCandidate struct {
	Candidate
	Score  float64 `json:"score"`
	Viewed bool    `json:"viewed,omitempty"`
	Reason string  `json:"reason,omitempty"`
}
