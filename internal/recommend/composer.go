// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/metrics"
	"github.com/tomtom215/edufeed/internal/models"
	"github.com/tomtom215/edufeed/internal/validation"
)

// quotaEpsilon absorbs float error in floor(n*share).
const quotaEpsilon = 1e-9

// Candidate reasons
const (
	reasonEntertainment = "entertainment"
	reasonRecovery      = "recovery"
	reasonPreference    = "preference"
	reasonTrending      = "trending"
)

// Recommend builds the personalized feed for a session. count 0 selects the
// configured default. An unknown user fails with models.ErrNotFound; empty
// history or catalogs only shrink the result.
func (s *Service) Recommend(ctx context.Context, userID, sessionID string, count int) (*RecommendedFeed, error) {
	start := time.Now()

	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	if count == 0 {
		count = s.cfg.DefaultCount
	}
	if count < 0 || count > s.cfg.MaxCount {
		return nil, validation.NewFieldError("count", "lte",
			fmt.Sprintf("count must be between 1 and %d", s.cfg.MaxCount), count)
	}

	if _, err := s.deps.Users.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	window := max(s.cfg.PreferenceWindow, s.cfg.ExcludeWindow)
	history, err := s.deps.Engagements.RecentEngagements(ctx, userID, window)
	if err != nil {
		return nil, fmt.Errorf("read engagement history: %w", err)
	}
	prefs := ComputePreferences(history[:min(len(history), s.cfg.PreferenceWindow)])

	exclude := make([]string, 0, s.cfg.ExcludeWindow)
	for i := 0; i < len(history) && i < s.cfg.ExcludeWindow; i++ {
		exclude = append(exclude, history[i].VideoID)
	}

	assessment, err := s.Disengagement(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	var (
		pool []models.ScoredCandidate
		mix  ContentMix
	)
	if assessment.IsDisengaging {
		pool, mix = s.composeRecovery(ctx, count, assessment.Severity, exclude)
	} else {
		pool, mix = s.composePreference(ctx, count, prefs, exclude)
	}

	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	entertainment := toSet(s.cfg.EntertainmentCategories)
	for i := range pool {
		pool[i].Score = s.predict(&pool[i].Candidate, prefs, assessment.IsDisengaging, entertainment)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})
	if len(pool) > count {
		pool = pool[:count]
	}

	metrics.RecommendationsServed.WithLabelValues(mix.Mode).Inc()
	metrics.RecordRanking("recommendations", time.Since(start))
	logging.Ctx(ctx).Debug().
		Str("user_id", userID).
		Str("mode", mix.Mode).
		Float64("severity", assessment.Severity).
		Int("returned", len(pool)).
		Msg("recommendations composed")

	return &RecommendedFeed{
		Videos:        pool,
		Disengagement: assessment,
		Preferences:   prefs,
		ContentMix:    mix,
	}, nil
}

// EntertainmentQuota returns floor(n * min(severity/100, maxShare)).
func EntertainmentQuota(n int, severity, maxShare float64) int {
	share := math.Min(severity/100, maxShare)
	if share <= 0 {
		return 0
	}
	return int(math.Floor(float64(n)*share + quotaEpsilon))
}

// composeRecovery mixes light entertainment with short educational videos
// for a disengaging session.
func (s *Service) composeRecovery(ctx context.Context, n int, severity float64, exclude []string) ([]models.ScoredCandidate, ContentMix) {
	entQuota := EntertainmentQuota(n, severity, s.cfg.MaxEntertainmentShare)
	mix := ContentMix{
		Mode:               ModeRecovery,
		EntertainmentQuota: entQuota,
		RecoveryQuota:      n - entQuota,
	}

	sel := newSelection(exclude)
	if entQuota > 0 {
		sel.add(s.queryVideos(ctx, models.CatalogQuery{
			Categories: s.cfg.EntertainmentCategories,
			MinViews:   s.cfg.EntertainmentMinViews,
			ExcludeIDs: sel.excluded(),
			Order:      models.OrderPopularity,
			Limit:      min(entQuota, s.cfg.CandidateCap),
		}), entQuota, reasonEntertainment)
	}
	if mix.RecoveryQuota > 0 {
		sel.add(s.queryVideos(ctx, models.CatalogQuery{
			Categories:         s.cfg.RecoveryCategories,
			MaxDurationSeconds: s.cfg.RecoveryMaxDuration,
			ExcludeIDs:         sel.excluded(),
			Order:              models.OrderLikes,
			Limit:              min(mix.RecoveryQuota, s.cfg.CandidateCap),
		}), mix.RecoveryQuota, reasonRecovery)
	}
	return sel.items, mix
}

// composePreference fills per-category quotas proportional to the profile,
// then tops up with trending videos.
func (s *Service) composePreference(ctx context.Context, n int, prefs Preferences, exclude []string) ([]models.ScoredCandidate, ContentMix) {
	mix := ContentMix{Mode: ModePreference, CategoryQuotas: make(map[string]int)}
	sel := newSelection(exclude)

	for _, category := range prefs.Ranked() {
		quota := int(math.Floor(float64(n)*prefs[category] + quotaEpsilon))
		if quota <= 0 {
			continue
		}
		mix.CategoryQuotas[category] = quota
		sel.add(s.queryVideos(ctx, models.CatalogQuery{
			Categories: []string{category},
			ExcludeIDs: sel.excluded(),
			Order:      models.OrderRecency,
			Limit:      min(quota, s.cfg.CandidateCap),
		}), quota, reasonPreference)
	}

	if remaining := n - len(sel.items); remaining > 0 {
		mix.TrendingFill = remaining
		sel.add(s.queryVideos(ctx, models.CatalogQuery{
			ExcludeIDs: sel.excluded(),
			Order:      models.OrderPopularity,
			Limit:      min(remaining, s.cfg.CandidateCap),
		}), remaining, reasonTrending)
	}
	return sel.items, mix
}

// predict estimates how well a candidate will land with this user.
func (s *Service) predict(c *models.Candidate, prefs Preferences, disengaging bool, entertainment map[string]struct{}) float64 {
	score := 50 +
		prefs.Weight(c.Category)*30 +
		math.Min(math.Log10(math.Max(float64(c.ViewCount), 1))*2, 10) +
		math.Min(math.Log10(math.Max(float64(c.LikeCount), 1))*2, 5)

	if disengaging {
		if c.DurationSeconds > 0 && c.DurationSeconds <= s.cfg.RecoveryMaxDuration {
			score += 10
		}
		if _, ok := entertainment[c.Category]; ok {
			score += 10
		}
	}
	return score
}

// selection accumulates composer picks while keeping the exclude set
// current.
type selection struct {
	seen  map[string]struct{}
	ids   []string
	items []models.ScoredCandidate
}

func newSelection(exclude []string) *selection {
	sel := &selection{seen: make(map[string]struct{}, len(exclude))}
	for _, id := range exclude {
		if _, dup := sel.seen[id]; !dup {
			sel.seen[id] = struct{}{}
			sel.ids = append(sel.ids, id)
		}
	}
	return sel
}

func (sel *selection) excluded() []string {
	return append([]string(nil), sel.ids...)
}

// add takes up to limit videos not yet seen.
func (sel *selection) add(videos []models.Video, limit int, reason string) {
	taken := 0
	for i := range videos {
		if taken >= limit {
			return
		}
		if _, dup := sel.seen[videos[i].ID]; dup {
			continue
		}
		sel.seen[videos[i].ID] = struct{}{}
		sel.ids = append(sel.ids, videos[i].ID)
		sel.items = append(sel.items, models.ScoredCandidate{
			Candidate: NormalizeUploaded(&videos[i]),
			Reason:    reason,
		})
		taken++
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[normalizeCategory(v)] = struct{}{}
	}
	return set
}
