// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/edufeed/internal/models"
)

const (
	secondsPerDay   = 24 * 60 * 60
	minAgeDays      = 0.1
	interestBonus   = 10.0
	freshnessPoints = 15.0
)

// Scorer applies the per-source unified feed scores.
type Scorer struct {
	rng           RandSource
	maxJitter     float64
	viewedPenalty float64
	now           func() time.Time
}

// NewScorer creates a scorer. now may be nil to use the wall clock.
func NewScorer(rng RandSource, maxJitter, viewedPenalty float64, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{rng: rng, maxJitter: maxJitter, viewedPenalty: viewedPenalty, now: now}
}

// ScoreUploaded scores an uploaded candidate. interests may be empty.
func (s *Scorer) ScoreUploaded(c *models.Candidate, interests map[string]struct{}) float64 {
	age := s.ageDays(c.PublishedAt)

	engagementRate := float64(c.LikeCount+c.CommentCount) / math.Max(float64(c.ViewCount), 1) * 100
	likesPerDay := float64(c.LikeCount) / math.Max(age, minAgeDays)

	score := math.Min(engagementRate*3, 30) +
		math.Min(likesPerDay*5, 20) +
		math.Min(c.AverageCompletionRate*0.2, 20) +
		math.Max(0, freshnessPoints-age*0.5)

	if _, ok := interests[c.Category]; ok {
		score += interestBonus
	}
	return score + s.jitter()
}

// ScoreExternal scores an external candidate. The interest bonus applies
// when the subject contains any interest as a substring.
func (s *Scorer) ScoreExternal(c *models.Candidate, interests map[string]struct{}) float64 {
	age := s.ageDays(c.PublishedAt)

	score := math.Min(math.Log10(math.Max(float64(c.ViewCount), 1))*4, 20) +
		math.Max(0, freshnessPoints-age*0.05)

	subject := strings.ToLower(c.Category)
	for interest := range interests {
		if strings.Contains(subject, interest) {
			score += interestBonus
			break
		}
	}
	return score + s.jitter()
}

// Score dispatches on the candidate source.
func (s *Scorer) Score(c *models.Candidate, interests map[string]struct{}) float64 {
	if c.Source == models.SourceExternal {
		return s.ScoreExternal(c, interests)
	}
	return s.ScoreUploaded(c, interests)
}

// Rank scores every candidate, multiplies viewed ones by the penalty and
// returns them sorted by descending score. Ties keep candidate order.
func (s *Scorer) Rank(candidates []models.Candidate, interests map[string]struct{}, viewed map[string]struct{}) []models.ScoredCandidate {
	ranked := make([]models.ScoredCandidate, len(candidates))
	for i := range candidates {
		sc := models.ScoredCandidate{
			Candidate: candidates[i],
			Score:     s.Score(&candidates[i], interests),
		}
		if _, ok := viewed[sc.ID]; ok {
			sc.Viewed = true
			sc.Score *= s.viewedPenalty
		}
		ranked[i] = sc
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func (s *Scorer) jitter() float64 {
	if s.maxJitter <= 0 || s.rng == nil {
		return 0
	}
	return s.rng.Float64() * s.maxJitter
}

// ageDays is never negative; future timestamps count as brand new.
func (s *Scorer) ageDays(published time.Time) float64 {
	if published.IsZero() {
		return 0
	}
	return math.Max(0, s.now().Sub(published).Seconds()/secondsPerDay)
}
