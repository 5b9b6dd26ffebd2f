// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/edufeed/internal/models"
	"github.com/tomtom215/edufeed/internal/validation"
)

// PreferencesResponse wraps a preference profile.
type PreferencesResponse struct {
	UserID      string             `json:"user_id"`
	Preferences map[string]float64 `json:"preferences"`
}

// HistoryResponse wraps viewing-history entries, newest first.
type HistoryResponse struct {
	UserID  string                `json:"user_id"`
	Entries []models.HistoryEntry `json:"entries"`
}

// GetPreferences handles GET /api/v1/users/{userID}/preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	prefs, err := h.deps.Recommender.Preferences(r.Context(), userID)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Success(PreferencesResponse{UserID: userID, Preferences: prefs})
}

// GetDisengagement handles GET /api/v1/users/{userID}/sessions/{sessionID}/disengagement.
func (h *Handler) GetDisengagement(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	assessment, err := h.deps.Recommender.Disengagement(r.Context(),
		chi.URLParam(r, "userID"), chi.URLParam(r, "sessionID"))
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Success(assessment)
}

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations?sessionId=&count=.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	count, err := intQueryParam(r, "count")
	if err != nil {
		rw.FromError(err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	feed, err := h.deps.Recommender.Recommend(ctx,
		chi.URLParam(r, "userID"), r.URL.Query().Get("sessionId"), count)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Success(feed)
}

// GetHistory handles GET /api/v1/users/{userID}/history?limit=.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")

	limit, err := intQueryParam(r, "limit")
	if err != nil {
		rw.FromError(err)
		return
	}
	switch {
	case limit == 0:
		limit = min(defaultHistoryLimit, h.deps.HistoryLimit)
	case limit < 0 || limit > h.deps.HistoryLimit:
		rw.FromError(validation.NewFieldError("limit", "range",
			fmt.Sprintf("limit must be between 1 and %d", h.deps.HistoryLimit), limit))
		return
	}

	entries, err := h.deps.History.Recent(r.Context(), userID, limit)
	if err != nil {
		rw.FromError(err)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	rw.Success(HistoryResponse{UserID: userID, Entries: entries})
}
