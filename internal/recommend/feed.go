// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/metrics"
	"github.com/tomtom215/edufeed/internal/models"
	"github.com/tomtom215/edufeed/internal/validation"
)

// UnifiedFeed ranks both catalogs into one total order and returns the
// requested page of it. Without a user the ranking is anonymous: no
// interest bonus and no viewed penalty. A named user that does not exist
// fails with models.ErrNotFound.
func (s *Service) UnifiedFeed(ctx context.Context, req FeedRequest) (*UnifiedFeed, error) {
	start := time.Now()

	page, pageSize, err := s.pageBounds(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	var (
		interests map[string]struct{}
		viewed    map[string]struct{}
	)
	if userID := strings.TrimSpace(req.UserID); userID != "" {
		user, err := s.deps.Users.GetUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve user: %w", err)
		}
		interests = interestSet(user.Interests)
		viewed = s.viewedSet(ctx, userID)
	}

	candidates := s.fetchCandidates(ctx, strings.ToLower(strings.TrimSpace(req.Category)))
	ranked := s.scorer.Rank(candidates, interests, viewed)

	s.rrMu.RLock()
	for _, rr := range s.rerankers {
		ranked = rr.Rerank(ctx, ranked, len(ranked))
	}
	s.rrMu.RUnlock()

	counts := map[models.Source]int{
		models.SourceUploaded: 0,
		models.SourceExternal: 0,
	}
	for i := range ranked {
		counts[ranked[i].Source]++
	}
	for source, n := range counts {
		metrics.FeedItemsRanked.WithLabelValues(string(source)).Add(float64(n))
	}
	metrics.RecordRanking("unified_feed", time.Since(start))

	return &UnifiedFeed{
		Videos:       paginate(ranked, page, pageSize),
		Pagination:   newPagination(page, pageSize, len(ranked)),
		SourceCounts: counts,
	}, nil
}

// fetchCandidates reads both sources concurrently. A failed source
// contributes nothing.
func (s *Service) fetchCandidates(ctx context.Context, category string) []models.Candidate {
	var uploaded, external []models.Candidate

	var g errgroup.Group
	g.Go(func() error {
		q := models.CatalogQuery{Order: models.OrderRecency, Limit: s.cfg.Feed.UploadedCap}
		if category != "" {
			q.Categories = []string{category}
		}
		uploaded = normalizeUploadedAll(s.queryVideos(ctx, q))
		return nil
	})
	g.Go(func() error {
		external = normalizeExternalAll(s.queryExternal(ctx, models.ExternalQuery{
			Subject: category,
			Limit:   s.cfg.Feed.ExternalCap,
		}))
		return nil
	})
	_ = g.Wait()

	return append(uploaded, external...)
}

// viewedSet returns the recently viewed video IDs. History is best-effort;
// a failed read disables the penalty for this request.
func (s *Service) viewedSet(ctx context.Context, userID string) map[string]struct{} {
	if s.deps.History == nil {
		return nil
	}
	entries, err := s.deps.History.Recent(ctx, userID, s.cfg.Feed.ViewedWindow)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("user_id", userID).
			Msg("Viewing history unavailable, skipping viewed penalty")
		return nil
	}
	viewed := make(map[string]struct{}, len(entries))
	for i := range entries {
		viewed[entries[i].VideoID] = struct{}{}
	}
	return viewed
}

func (s *Service) pageBounds(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = s.cfg.Feed.DefaultPageSize
	}
	if page < 1 {
		return 0, 0, validation.NewFieldError("page", "gte", "page must be greater than or equal to 1", page)
	}
	if pageSize < 1 || pageSize > s.cfg.Feed.MaxPageSize {
		return 0, 0, validation.NewFieldError("page_size", "lte",
			fmt.Sprintf("page_size must be between 1 and %d", s.cfg.Feed.MaxPageSize), pageSize)
	}
	return page, pageSize, nil
}

// paginate slices a fully ranked list.
func paginate(ranked []models.ScoredCandidate, page, pageSize int) []models.ScoredCandidate {
	from := (page - 1) * pageSize
	if from >= len(ranked) {
		return []models.ScoredCandidate{}
	}
	to := min(from+pageSize, len(ranked))
	return ranked[from:to]
}

func newPagination(page, pageSize, total int) Pagination {
	totalPages := (total + pageSize - 1) / pageSize
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
