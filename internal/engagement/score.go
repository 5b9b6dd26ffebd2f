// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package engagement

import (
	"math"
	"time"

	"github.com/tomtom215/edufeed/internal/models"
)

// Score weights
const (
	completionWeight = 0.4

	likedBonus     = 15.0
	commentedBonus = 20.0
	sharedBonus    = 25.0

	replayBonusEach = 3.0
	replayBonusCap  = 10.0

	pausePenalty           = 5.0
	pausePenaltyOver       = 3
	seekPenalty            = 10.0
	seekPenaltyOver        = 5
	earlySkipPenalty       = 15.0
	earlySkipFraction      = 0.3
	completedAtMinimumRate = 90.0
)

// ComputeScore returns the 0-100 engagement score of e. It depends only on
// the event's current field values.
func ComputeScore(e *models.EngagementEvent) float64 {
	score := e.CompletionRate * completionWeight

	if e.Liked {
		score += likedBonus
	}
	if e.Commented {
		score += commentedBonus
	}
	if e.Shared {
		score += sharedBonus
	}

	score += math.Min(float64(e.Replays)*replayBonusEach, replayBonusCap)

	if e.PauseCount > pausePenaltyOver {
		score -= pausePenalty
	}
	if e.SeekCount > seekPenaltyOver {
		score -= seekPenalty
	}
	if e.SkippedAtSeconds != nil && *e.SkippedAtSeconds < e.TotalDurationSeconds*earlySkipFraction {
		score -= earlySkipPenalty
	}

	return clamp(score, 0, 100)
}

// CompletionRate returns watch/total as a 0-100 percentage, or ok=false
// when the total duration is unknown.
func CompletionRate(watchSeconds, totalSeconds float64) (rate float64, ok bool) {
	if totalSeconds <= 0 {
		return 0, false
	}
	return clamp(watchSeconds/totalSeconds*100, 0, 100), true
}

// deriver returns the function that recomputes the derived fields of a
// merged record: total duration falls back to the catalog duration, then
// completion, completed_at and the score are recomputed.
func deriver(video *models.Video, now time.Time) func(*models.EngagementEvent) {
	return func(e *models.EngagementEvent) {
		if e.TotalDurationSeconds <= 0 && video != nil {
			e.TotalDurationSeconds = video.DurationSeconds
		}
		if rate, ok := CompletionRate(e.WatchTimeSeconds, e.TotalDurationSeconds); ok {
			e.CompletionRate = rate
		}

		switch {
		case e.CompletionRate < completedAtMinimumRate:
			e.CompletedAt = nil
		case e.CompletedAt == nil:
			t := now
			e.CompletedAt = &t
		}

		if e.SkipReason == "" {
			e.SkipReason = models.SkipReasonNone
		}
		e.EngagementScore = ComputeScore(e)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
