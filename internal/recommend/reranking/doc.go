// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

// Package reranking implements post-processing passes over a ranked feed.
//
// Rerankers run after scoring and before pagination:
//
//	Normalize -> Score -> Sort -> Rerankers -> Paginate
//
// # Available Rerankers
//
// Diversity:
//   - Limits runs of consecutive same-category items
//   - Pulls the next different-category item forward instead of dropping
//     anything
//   - Yields to availability when only one category remains
//
// # Interface
//
// All rerankers implement the recommend.Reranker interface:
//
//	type Reranker interface {
//	    Name() string
//	    Rerank(ctx context.Context, items []models.ScoredCandidate, k int) []models.ScoredCandidate
//	}
package reranking
