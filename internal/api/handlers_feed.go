// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/edufeed/internal/auth"
	"github.com/tomtom215/edufeed/internal/recommend"
)

// GetFeed handles GET /api/v1/feed?userId=&page=&pageSize=&category=.
// An explicit userId wins over the bearer-token identity; with neither the
// feed is scored anonymously.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	page, err := intQueryParam(r, "page")
	if err != nil {
		rw.FromError(err)
		return
	}
	pageSize, err := intQueryParam(r, "pageSize")
	if err != nil {
		rw.FromError(err)
		return
	}

	userID := strings.TrimSpace(q.Get("userId"))
	if userID == "" {
		userID, _ = auth.UserIDFromContext(r.Context())
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	feed, err := h.deps.Recommender.UnifiedFeed(ctx, recommend.FeedRequest{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
		Category: strings.TrimSpace(q.Get("category")),
	})
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Success(feed)
}

// GetVideoStats handles GET /api/v1/videos/{videoID}/stats.
func (h *Handler) GetVideoStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	stats, err := h.deps.Stats.GetVideoStats(r.Context(), chi.URLParam(r, "videoID"))
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Success(stats)
}
