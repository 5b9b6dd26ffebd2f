// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package models

import (
	"time"
)

// NoSession is the session key used when a sample arrives without a sessionId.
// All session-less samples for one (user, video) pair share this key.
const NoSession = "none"

// SkipReason is the enumerated reason a viewer gave for skipping a video.
type SkipReason string

const (
	SkipReasonBored         SkipReason = "bored"
	SkipReasonTooHard       SkipReason = "too-hard"
	SkipReasonNotInterested SkipReason = "not-interested"
	SkipReasonSeenBefore    SkipReason = "seen-before"
	SkipReasonNone          SkipReason = "none"
)

// Valid reports whether r is one of the known skip reasons.
func (r SkipReason) Valid() bool {
	switch r {
	case SkipReasonBored, SkipReasonTooHard, SkipReasonNotInterested, SkipReasonSeenBefore, SkipReasonNone:
		return true
	default:
		return false
	}
}

// EngagementEvent is the stored behavioral sample for one (user, video, session).
// Exactly one record exists per key; later samples merge into it.
type EngagementEvent struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	VideoID   string `json:"video_id"`
	SessionID string `json:"session_id"`
	Category  string `json:"category"`

	WatchTimeSeconds     float64 `json:"watch_time_seconds"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	CompletionRate       float64 `json:"completion_rate"` // 0-100

	Liked     bool `json:"liked"`
	Commented bool `json:"commented"`
	Shared    bool `json:"shared"`

	Replays    int `json:"replays"`
	PauseCount int `json:"pause_count"`
	SeekCount  int `json:"seek_count"`

	SkippedAtSeconds *float64   `json:"skipped_at_seconds,omitempty"`
	SkipReason       SkipReason `json:"skip_reason"`

	EngagementScore float64 `json:"engagement_score"` // 0-100, recomputed on every write

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Skipped reports whether the viewer skipped out of the video.
func (e *EngagementEvent) Skipped() bool {
	return e.SkippedAtSeconds != nil
}

// EngagementPatch is a partial sample to merge into the stored record.
// Nil pointer fields preserve whatever value is already stored.
type EngagementPatch struct {
	ID        string // used only when the record is created
	UserID    string
	VideoID   string
	SessionID string
	Category  string // resolved from the catalog at write time

	WatchTimeSeconds     *float64
	TotalDurationSeconds *float64

	Liked     *bool
	Commented *bool
	Shared    *bool

	Replays    *int
	PauseCount *int
	SeekCount  *int

	SkippedAtSeconds *float64
	SkipReason       *SkipReason

	RecordedAt time.Time
}

// EngagementResult is what the recorder returns for one successful write.
type EngagementResult struct {
	EngagementID    string  `json:"engagement_id"`
	EngagementScore float64 `json:"engagement_score"`
	CompletionRate  float64 `json:"completion_rate"`
	Created         bool    `json:"created"`
}

// BatchFailure describes one rejected item of a batch.
type BatchFailure struct {
	Index   int    `json:"index"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchResult reports a batch ingestion. A batch never fails as a whole;
// rejected items are counted and listed.
type BatchResult struct {
	TrackedCount int            `json:"tracked_count"`
	TotalCount   int            `json:"total_count"`
	Failures     []BatchFailure `json:"failures,omitempty"`
}

// EngagementRecorded is the side-effect message published after a successful write.
type EngagementRecorded struct {
	EngagementID     string    `json:"engagement_id"`
	UserID           string    `json:"user_id"`
	VideoID          string    `json:"video_id"`
	SessionID        string    `json:"session_id"`
	Category         string    `json:"category"`
	WatchTimeSeconds float64   `json:"watch_time_seconds"`
	CompletionRate   float64   `json:"completion_rate"`
	EngagementScore  float64   `json:"engagement_score"`
	Created          bool      `json:"created"`
	RecordedAt       time.Time `json:"recorded_at"`
}
