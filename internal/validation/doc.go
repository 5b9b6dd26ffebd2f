// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared; it caches struct
// metadata and is safe for concurrent use. Errors name fields by their json
// tag, so a message reads "user_id is required" rather than "UserID".
//
// Custom tags:
//   - slug: lowercase words joined by single hyphens ("math", "world-history")
//   - skipreason: one of the engagement skip reasons
//
// Failures are returned as *RequestValidationError, which unwraps to
// models.ErrValidation and converts to the API envelope with ToAPIError:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
