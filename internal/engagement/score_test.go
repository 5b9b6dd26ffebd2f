// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package engagement

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/edufeed/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name  string
		event models.EngagementEvent
		want  float64
	}{
		{
			name:  "zero event",
			event: models.EngagementEvent{},
			want:  0,
		},
		{
			name:  "full completion only",
			event: models.EngagementEvent{CompletionRate: 100},
			want:  40,
		},
		{
			name:  "all interactions",
			event: models.EngagementEvent{CompletionRate: 50, Liked: true, Commented: true, Shared: true},
			want:  20 + 15 + 20 + 25,
		},
		{
			name:  "replay bonus capped",
			event: models.EngagementEvent{CompletionRate: 50, Replays: 7},
			want:  30,
		},
		{
			name:  "two replays",
			event: models.EngagementEvent{CompletionRate: 50, Replays: 2},
			want:  26,
		},
		{
			name:  "pause penalty only above three",
			event: models.EngagementEvent{CompletionRate: 50, PauseCount: 3},
			want:  20,
		},
		{
			name:  "pause and seek penalties",
			event: models.EngagementEvent{CompletionRate: 100, PauseCount: 4, SeekCount: 6},
			want:  25,
		},
		{
			name: "early skip penalty",
			event: models.EngagementEvent{
				CompletionRate: 100, TotalDurationSeconds: 100, SkippedAtSeconds: floatPtr(29),
			},
			want: 25,
		},
		{
			name: "late skip no penalty",
			event: models.EngagementEvent{
				CompletionRate: 100, TotalDurationSeconds: 100, SkippedAtSeconds: floatPtr(30),
			},
			want: 40,
		},
		{
			name: "clamped to zero",
			event: models.EngagementEvent{
				CompletionRate: 10, PauseCount: 10, SeekCount: 10,
				TotalDurationSeconds: 100, SkippedAtSeconds: floatPtr(1),
			},
			want: 0,
		},
		{
			name: "clamped to hundred",
			event: models.EngagementEvent{
				CompletionRate: 100, Liked: true, Commented: true, Shared: true, Replays: 5,
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeScore(&tt.event)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ComputeScore() = %v, want %v", got, tt.want)
			}
			if again := ComputeScore(&tt.event); again != got {
				t.Errorf("ComputeScore() not stable: %v then %v", got, again)
			}
		})
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name   string
		watch  float64
		total  float64
		want   float64
		wantOK bool
	}{
		{"half", 30, 60, 50, true},
		{"over watched clamps", 90, 60, 100, true},
		{"unknown total", 30, 0, 0, false},
		{"nothing watched", 0, 60, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CompletionRate(tt.watch, tt.total)
			if ok != tt.wantOK {
				t.Fatalf("CompletionRate() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("CompletionRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriver(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	video := &models.Video{ID: "v1", DurationSeconds: 200}

	t.Run("falls back to catalog duration", func(t *testing.T) {
		e := &models.EngagementEvent{WatchTimeSeconds: 50}
		deriver(video, now)(e)
		if e.TotalDurationSeconds != 200 {
			t.Errorf("TotalDurationSeconds = %v, want 200", e.TotalDurationSeconds)
		}
		if e.CompletionRate != 25 {
			t.Errorf("CompletionRate = %v, want 25", e.CompletionRate)
		}
		if e.CompletedAt != nil {
			t.Errorf("CompletedAt = %v, want nil", e.CompletedAt)
		}
		if e.SkipReason != models.SkipReasonNone {
			t.Errorf("SkipReason = %q, want %q", e.SkipReason, models.SkipReasonNone)
		}
		if e.EngagementScore != 10 {
			t.Errorf("EngagementScore = %v, want 10", e.EngagementScore)
		}
	})

	t.Run("sets completed at once", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		e := &models.EngagementEvent{WatchTimeSeconds: 190, TotalDurationSeconds: 200}
		deriver(video, now)(e)
		if e.CompletedAt == nil || !e.CompletedAt.Equal(now) {
			t.Fatalf("CompletedAt = %v, want %v", e.CompletedAt, now)
		}

		e.CompletedAt = &earlier
		deriver(video, now)(e)
		if !e.CompletedAt.Equal(earlier) {
			t.Errorf("CompletedAt = %v, want unchanged %v", e.CompletedAt, earlier)
		}
	})

	t.Run("keeps stored rate when duration unknown", func(t *testing.T) {
		e := &models.EngagementEvent{WatchTimeSeconds: 10, CompletionRate: 42}
		deriver(&models.Video{ID: "v2"}, now)(e)
		if e.CompletionRate != 42 {
			t.Errorf("CompletionRate = %v, want 42", e.CompletionRate)
		}
	})
}
