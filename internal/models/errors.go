// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package models

import (
	"errors"
)

// Error taxonomy shared by the store, the ranking core and the API layer.
// Callers wrap these with context and test with errors.Is.
var (
	// ErrNotFound means a referenced user or video does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation means input was malformed or out of range.
	ErrValidation = errors.New("validation failed")

	// ErrDegradedDependency means a catalog read or aggregate update failed.
	// It is recovered locally and never reaches the caller of a feed.
	ErrDegradedDependency = errors.New("dependency degraded")
)

// ErrorCode maps an error onto the code reported for batch failures and API errors.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrDegradedDependency):
		return "DEGRADED_DEPENDENCY"
	default:
		return "INTERNAL_ERROR"
	}
}
