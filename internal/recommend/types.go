// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"context"

	"github.com/tomtom215/edufeed/internal/models"
)

// Preferences maps a category to its normalized weight. Weights are
// non-negative and sum to 1.
type Preferences map[string]float64

// DefaultPreferences is the profile of a user without history.
func DefaultPreferences() Preferences {
	return Preferences{
		"education": 0.30,
		"science":   0.20,
		"math":      0.15,
		"coding":    0.15,
		"other":     0.20,
	}
}

// Disengagement reason tags, in evaluation order.
const (
	ReasonVeryLowCompletion = "very-low-completion"
	ReasonLowCompletion     = "low-completion"
	ReasonExcessiveSkipping = "excessive-skipping"
	ReasonLowEngagement     = "low-engagement"
	ReasonRapidScrolling    = "rapid-scrolling"
)

// AssessmentMetrics is the window snapshot a verdict was computed from.
type AssessmentMetrics struct {
	EventCount             int     `json:"event_count"`
	AvgCompletionRate      float64 `json:"avg_completion_rate"`
	AvgEngagementScore     float64 `json:"avg_engagement_score"`
	SkipRate               float64 `json:"skip_rate"`
	AvgInterArrivalSeconds float64 `json:"avg_inter_arrival_seconds"`
}

// Assessment is the disengagement verdict for one session.
type Assessment struct {
	IsDisengaging bool              `json:"is_disengaging"`
	Severity      float64           `json:"severity"`
	Reasons       []string          `json:"reasons"`
	Metrics       AssessmentMetrics `json:"metrics"`
}

// Content mix modes
const (
	ModePreference = "preference"
	ModeRecovery   = "recovery"
)

// ContentMix reports how a recommendation list was assembled.
type ContentMix struct {
	Mode               string         `json:"mode"`
	EntertainmentQuota int            `json:"entertainment_quota,omitempty"`
	RecoveryQuota      int            `json:"recovery_quota,omitempty"`
	CategoryQuotas     map[string]int `json:"category_quotas,omitempty"`
	TrendingFill       int            `json:"trending_fill,omitempty"`
}

// RecommendedFeed is the personalized feed for one session.
type RecommendedFeed struct {
	Videos        []models.ScoredCandidate `json:"videos"`
	Disengagement Assessment               `json:"disengagement"`
	Preferences   Preferences              `json:"preferences"`
	ContentMix    ContentMix               `json:"content_mix"`
}

// FeedRequest selects one page of the unified feed. UserID is optional.
type FeedRequest struct {
	UserID   string
	Page     int
	PageSize int
	Category string
}

// Pagination describes the slice of the ranked list that was returned.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// UnifiedFeed is one page of the cross-source feed.
type UnifiedFeed struct {
	Videos       []models.ScoredCandidate `json:"videos"`
	Pagination   Pagination               `json:"pagination"`
	SourceCounts map[models.Source]int    `json:"source_counts"`
}

// EngagementReader reads recent engagement records, newest first.
type EngagementReader interface {
	RecentEngagements(ctx context.Context, userID string, limit int) ([]models.EngagementEvent, error)
	RecentSessionEngagements(ctx context.Context, userID, sessionID string, limit int) ([]models.EngagementEvent, error)
}

// VideoCatalog queries uploaded videos.
type VideoCatalog interface {
	QueryVideos(ctx context.Context, q models.CatalogQuery) ([]models.Video, error)
}

// ExternalCatalog queries externally indexed videos.
type ExternalCatalog interface {
	QueryExternalVideos(ctx context.Context, q models.ExternalQuery) ([]models.ExternalVideo, error)
}

// UserDirectory resolves user profiles.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// HistoryReader returns a user's most recently viewed videos.
type HistoryReader interface {
	Recent(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error)
}

// Reranker reorders a ranked list for a secondary objective.
type Reranker interface {
	// Name returns the reranker identifier.
	Name() string

	// Rerank reorders items, which arrive sorted by score, and returns up
	// to k of them.
	Rerank(ctx context.Context, items []models.ScoredCandidate, k int) []models.ScoredCandidate
}
