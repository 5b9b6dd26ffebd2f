// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"math"

	"github.com/tomtom215/edufeed/internal/models"
)

const maxSeverity = 100

// Detector classifies a session as engaged or disengaging from its most
// recent events. It keeps no state between calls.
type Detector struct {
	cfg DisengagementConfig
}

// NewDetector creates a detector with the given policy.
func NewDetector(cfg DisengagementConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Assess computes the verdict for events, which must be ordered newest
// first. Only the first Window events are considered; fewer than MinEvents
// yields an engaged verdict with severity 0.
func (d *Detector) Assess(events []models.EngagementEvent) Assessment {
	if len(events) > d.cfg.Window {
		events = events[:d.cfg.Window]
	}

	a := Assessment{Reasons: []string{}}
	a.Metrics.EventCount = len(events)
	if len(events) < d.cfg.MinEvents || len(events) == 0 {
		return a
	}

	var completion, score float64
	var skipped int
	for i := range events {
		completion += events[i].CompletionRate
		score += events[i].EngagementScore
		if events[i].Skipped() {
			skipped++
		}
	}
	n := float64(len(events))
	a.Metrics.AvgCompletionRate = completion / n
	a.Metrics.AvgEngagementScore = score / n
	a.Metrics.SkipRate = float64(skipped) / n

	if len(events) > 1 {
		var gaps float64
		for i := 0; i < len(events)-1; i++ {
			gaps += math.Abs(events[i].CreatedAt.Sub(events[i+1].CreatedAt).Seconds())
		}
		a.Metrics.AvgInterArrivalSeconds = gaps / float64(len(events)-1)
	}

	var severity float64
	switch {
	case a.Metrics.AvgCompletionRate < d.cfg.VeryLowCompletion:
		severity += d.cfg.VeryLowCompletionWeight
		a.Reasons = append(a.Reasons, ReasonVeryLowCompletion)
	case a.Metrics.AvgCompletionRate < d.cfg.LowCompletion:
		severity += d.cfg.LowCompletionWeight
		a.Reasons = append(a.Reasons, ReasonLowCompletion)
	}
	if a.Metrics.SkipRate > d.cfg.SkipRate {
		severity += d.cfg.SkipRateWeight
		a.Reasons = append(a.Reasons, ReasonExcessiveSkipping)
	}
	if a.Metrics.AvgEngagementScore < d.cfg.LowEngagement {
		severity += d.cfg.LowEngagementWeight
		a.Reasons = append(a.Reasons, ReasonLowEngagement)
	}
	if gap := a.Metrics.AvgInterArrivalSeconds; gap > 0 && gap < d.cfg.RapidScrollSeconds {
		severity += d.cfg.RapidScrollWeight
		a.Reasons = append(a.Reasons, ReasonRapidScrolling)
	}

	a.Severity = math.Min(maxSeverity, severity)
	a.IsDisengaging = a.Severity > d.cfg.Threshold
	return a
}
