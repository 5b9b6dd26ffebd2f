// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

/*
Package api is the HTTP surface over the engagement recorder and the
recommendation service.

Routes (all JSON, wrapped in the {success, data, error, meta} envelope):

	POST /api/v1/engagement                                        record one sample
	POST /api/v1/engagement/batch                                  record a batch
	GET  /api/v1/users/{userID}/preferences                        preference profile
	GET  /api/v1/users/{userID}/sessions/{sessionID}/disengagement session assessment
	GET  /api/v1/users/{userID}/recommendations?sessionId=&count=  recommended feed
	GET  /api/v1/users/{userID}/history?limit=                     viewing history
	GET  /api/v1/feed?userId=&page=&pageSize=&category=            unified feed
	GET  /api/v1/videos/{videoID}/stats                            rolling aggregates
	GET  /api/v1/health                                            dependency probes
	GET  /metrics                                                  Prometheus exposition

Middleware order: RealIP, RequestID, Recoverer, CORS, then on /api/v1 the
per-IP rate limit, Prometheus instrumentation and optional bearer identity.

Errors map onto the envelope by kind: models.ErrNotFound is 404 NOT_FOUND,
validation failures are 400 VALIDATION_ERROR with field details, anything
else is 500 INTERNAL_ERROR. Batch writes report per-item failures in a 200
body.
*/
package api
