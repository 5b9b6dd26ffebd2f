// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package api

import (
	"net/http"

	"github.com/tomtom215/edufeed/internal/engagement"
	"github.com/tomtom215/edufeed/internal/validation"
)

// BatchRequest is the body of POST /api/v1/engagement/batch.
type BatchRequest struct {
	Events []engagement.Input `json:"events"`
}

// RecordEngagement handles POST /api/v1/engagement.
// Returns 201 when the sample created a new record and 200 when it merged
// into an existing one.
func (h *Handler) RecordEngagement(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var in engagement.Input
	if err := decodeJSON(w, r, &in); err != nil {
		rw.FromError(err)
		return
	}

	result, err := h.deps.Recorder.Record(r.Context(), &in)
	if err != nil {
		rw.FromError(err)
		return
	}
	if result.Created {
		rw.Created(result)
		return
	}
	rw.Success(result)
}

// RecordEngagementBatch handles POST /api/v1/engagement/batch.
// Per-item failures are reported in the body with status 200.
func (h *Handler) RecordEngagementBatch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.FromError(err)
		return
	}
	if req.Events == nil {
		rw.FromError(validation.NewFieldError("events", "required", "events is required", nil))
		return
	}

	result, err := h.deps.Recorder.RecordBatch(r.Context(), req.Events)
	if err != nil {
		rw.FromError(err)
		return
	}
	rw.Success(result)
}
