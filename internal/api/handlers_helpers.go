// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/edufeed/internal/validation"
)

// maxBodyBytes bounds request bodies; a full engagement batch fits well
// inside it.
const maxBodyBytes = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// decodeJSON reads a size-limited JSON body into dst. Malformed or
// oversized bodies become validation errors on the "body" field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return validation.NewFieldError("body", "max", fmt.Sprintf("request body exceeds %d bytes", maxBodyBytes), nil)
		case errors.Is(err, io.EOF):
			return validation.NewFieldError("body", "required", "request body is required", nil)
		default:
			return validation.NewFieldError("body", "json", "malformed JSON: "+err.Error(), nil)
		}
	}
	if dec.More() {
		return validation.NewFieldError("body", "json", "request body must contain a single JSON value", nil)
	}
	return nil
}

// intQueryParam parses an optional integer query parameter. An absent
// parameter yields 0 so the service applies its default.
func intQueryParam(r *http.Request, key string) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, validation.NewFieldError(key, "numeric", key+" must be an integer", value)
	}
	return n, nil
}
