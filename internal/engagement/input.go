// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package engagement

import (
	"strings"
	"time"

	"github.com/tomtom215/edufeed/internal/models"
)

// Input is one partial behavioral sample as submitted by a client. Any
// subset of the optional fields may be present.
type Input struct {
	UserID    string `json:"user_id" validate:"required,max=128,printascii"`
	VideoID   string `json:"video_id" validate:"required,max=128,printascii"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=128,printascii"`

	WatchTimeSeconds     *float64 `json:"watch_time_seconds,omitempty" validate:"omitempty,gte=0"`
	TotalDurationSeconds *float64 `json:"total_duration_seconds,omitempty" validate:"omitempty,gte=0"`

	Liked     *bool `json:"liked,omitempty"`
	Commented *bool `json:"commented,omitempty"`
	Shared    *bool `json:"shared,omitempty"`

	Replays    *int `json:"replays,omitempty" validate:"omitempty,gte=0"`
	PauseCount *int `json:"pause_count,omitempty" validate:"omitempty,gte=0"`
	SeekCount  *int `json:"seek_count,omitempty" validate:"omitempty,gte=0"`

	SkippedAtSeconds *float64 `json:"skipped_at_seconds,omitempty" validate:"omitempty,gte=0"`
	SkipReason       *string  `json:"skip_reason,omitempty" validate:"omitempty,skipreason"`
}

// trimmed returns a copy with surrounding whitespace removed from the
// identifiers, so lookups and the stored key use the same value.
func (in *Input) trimmed() *Input {
	out := *in
	out.UserID = strings.TrimSpace(in.UserID)
	out.VideoID = strings.TrimSpace(in.VideoID)
	out.SessionID = strings.TrimSpace(in.SessionID)
	return &out
}

// sessionKey returns the upsert session key; an absent session maps to
// models.NoSession.
func (in *Input) sessionKey() string {
	if in.SessionID != "" {
		return in.SessionID
	}
	return models.NoSession
}

// toPatch expects an input returned by trimmed.
func (in *Input) toPatch(id, category string, at time.Time) *models.EngagementPatch {
	p := &models.EngagementPatch{
		ID:                   id,
		UserID:               in.UserID,
		VideoID:              in.VideoID,
		SessionID:            in.sessionKey(),
		Category:             category,
		WatchTimeSeconds:     in.WatchTimeSeconds,
		TotalDurationSeconds: in.TotalDurationSeconds,
		Liked:                in.Liked,
		Commented:            in.Commented,
		Shared:               in.Shared,
		Replays:              in.Replays,
		PauseCount:           in.PauseCount,
		SeekCount:            in.SeekCount,
		SkippedAtSeconds:     in.SkippedAtSeconds,
		RecordedAt:           at,
	}
	if in.SkipReason != nil {
		r := models.SkipReason(*in.SkipReason)
		p.SkipReason = &r
	}
	return p
}
