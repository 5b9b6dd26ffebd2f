// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package reranking

import (
	"context"

	"github.com/tomtom215/edufeed/internal/models"
	"github.com/tomtom215/edufeed/internal/recommend"
)

// DefaultMaxConsecutive is the longest same-category run Diversity allows.
const DefaultMaxConsecutive = 2

// Diversity walks a score-sorted list and, whenever the next item would
// extend a same-category run past maxConsecutive, swaps forward the first
// later item of another category. Skipped items keep their relative order
// and are reconsidered at the next position, so nothing is dropped.
type Diversity struct {
	maxConsecutive int
}

// NewDiversity creates a diversity reranker. Values below 1 use the default.
func NewDiversity(maxConsecutive int) *Diversity {
	if maxConsecutive < 1 {
		maxConsecutive = DefaultMaxConsecutive
	}
	return &Diversity{maxConsecutive: maxConsecutive}
}

// Name returns the reranker identifier.
func (d *Diversity) Name() string {
	return "diversity"
}

// Rerank returns the first k items of the diversified order.
func (d *Diversity) Rerank(_ context.Context, items []models.ScoredCandidate, k int) []models.ScoredCandidate {
	if len(items) == 0 || k <= 0 {
		return []models.ScoredCandidate{}
	}
	if k > len(items) {
		k = len(items)
	}

	queue := make([]models.ScoredCandidate, len(items))
	copy(queue, items)
	out := make([]models.ScoredCandidate, 0, k)

	for len(out) < k {
		pick := 0
		if d.wouldExtendRun(out, queue[0].Category) {
			for j := 1; j < len(queue); j++ {
				if queue[j].Category != queue[0].Category {
					pick = j
					break
				}
			}
		}
		out = append(out, queue[pick])
		queue = append(queue[:pick], queue[pick+1:]...)
	}
	return out
}

// wouldExtendRun reports whether the last maxConsecutive items of out all
// have category.
func (d *Diversity) wouldExtendRun(out []models.ScoredCandidate, category string) bool {
	if len(out) < d.maxConsecutive {
		return false
	}
	for _, item := range out[len(out)-d.maxConsecutive:] {
		if item.Category != category {
			return false
		}
	}
	return true
}

// Ensure Diversity implements the interface.
var _ recommend.Reranker = (*Diversity)(nil)
