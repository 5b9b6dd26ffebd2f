// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

/*
Package middleware provides HTTP middleware shared by every API route.

Key Components:

  - RequestID: reuses X-Request-ID or generates a UUID, echoes it back, and
    stores it in the context for logging.Ctx
  - PrometheusMetrics: request count, latency histogram and in-flight gauge,
    labelled by chi route pattern

Both are written as func(http.HandlerFunc) http.HandlerFunc; the api package
adapts them to chi's r.Use signature.

Usage Example:

	r.Use(api.Adapt(middleware.RequestID))
	r.Use(api.Adapt(middleware.PrometheusMetrics))

	func handler(w http.ResponseWriter, r *http.Request) {
	    logging.Ctx(r.Context()).Info().Msg("Processing request")
	}

See Also:

  - internal/api: router and middleware order
  - internal/metrics: collector definitions
*/
package middleware
