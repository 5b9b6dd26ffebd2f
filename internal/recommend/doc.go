// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

// Package recommend turns engagement history into preference profiles,
// disengagement verdicts and two ranked feeds.
//
// # Architecture
//
//   - preferences.go: per-category mean engagement, normalized to sum to 1
//   - disengagement.go: additive severity over the last few session events
//   - composer.go: the personalized feed (preference or recovery mix)
//   - normalize.go: uploaded and external videos onto one candidate shape
//   - scorer.go: per-source unified feed scores and the viewed penalty
//   - feed.go: the cross-source feed with pagination and source counts
//   - breaker.go: circuit breakers in front of both catalogs
//
// # Content Mix
//
// A session that is not disengaging gets floor(N x weight) videos per
// preferred category, newest first, topped up with trending videos. A
// disengaging session gets an entertainment share of
// floor(N x min(severity/100, 0.7)) and short educational videos for the
// rest. Either pool is shuffled, scored by predicted engagement and cut
// to N.
//
// # Degradation
//
// Catalog failures are logged and treated as empty sources; the breaker
// keeps a failing catalog from being hammered. Only an unknown user and
// malformed input fail a request.
//
// # Determinism
//
// Shuffle and jitter draw from a RandSource. Tests inject a fixed one via
// SetRandSource; production seeds from Config.Seed or the clock.
//
// # Thread Safety
//
// Service is safe for concurrent use. Every request computes its profile
// and verdict from scratch; nothing ranked is cached or shared.
package recommend
