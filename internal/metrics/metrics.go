// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Engagement Metrics
	EngagementWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_writes_total",
			Help: "Total engagement samples by outcome",
		},
		[]string{"result"}, // "created", "updated", "rejected", "failed"
	)

	EngagementScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engagement_score",
			Help:    "Distribution of stored engagement scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	EngagementBatchItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engagement_batch_items_total",
			Help: "Total batch items by outcome",
		},
		[]string{"result"}, // "tracked", "failed"
	)

	// Ranking Metrics
	DisengagementAssessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disengagement_assessments_total",
			Help: "Total disengagement assessments by verdict",
		},
		[]string{"state"}, // "engaged", "disengaging"
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total recommendation responses by content-mix mode",
		},
		[]string{"mode"}, // "preference", "recovery"
	)

	FeedItemsRanked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_items_ranked_total",
			Help: "Total candidates ranked for the unified feed by source",
		},
		[]string{"source"},
	)

	CatalogErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_errors_total",
			Help: "Catalog reads that degraded to an empty result",
		},
		[]string{"source"},
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ranking_duration_seconds",
			Help:    "Time spent building a ranked response",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"}, // "recommendations", "unified_feed"
	)

	// Side Effect Metrics
	SideEffects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effects_total",
			Help: "Best-effort side effects by kind and outcome",
		},
		[]string{"effect", "result"}, // effect: "publish", "video_stats", "history"; result: "ok", "failed"
	)

	PoisonedMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "side_effect_messages_poisoned_total",
			Help: "Side-effect messages that exhausted their retries",
		},
	)

	ReconcileRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_runs_total",
			Help: "Rolling-stats reconciliation runs by outcome",
		},
		[]string{"result"},
	)

	ReconcileVideos = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reconcile_videos_total",
			Help: "Videos whose rolling stats were recomputed by reconciliation",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// RecordEngagementWrite records the outcome of one engagement sample.
func RecordEngagementWrite(result string, score float64) {
	EngagementWrites.WithLabelValues(result).Inc()
	if result == "created" || result == "updated" {
		EngagementScore.Observe(score)
	}
}

// RecordBatch records the per-item outcome counts of a batch.
func RecordBatch(tracked, total int) {
	EngagementBatchItems.WithLabelValues("tracked").Add(float64(tracked))
	EngagementBatchItems.WithLabelValues("failed").Add(float64(total - tracked))
}

// RecordDisengagement records a disengagement verdict.
func RecordDisengagement(disengaging bool) {
	state := "engaged"
	if disengaging {
		state = "disengaging"
	}
	DisengagementAssessments.WithLabelValues(state).Inc()
}

// RecordRanking records how long a ranked response took to build.
func RecordRanking(operation string, duration time.Duration) {
	RankingDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSideEffect records the outcome of a best-effort side effect.
func RecordSideEffect(effect string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	SideEffects.WithLabelValues(effect, result).Inc()
}

// RecordReconcile records a reconciliation run.
func RecordReconcile(videos int, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	ReconcileRuns.WithLabelValues(result).Inc()
	ReconcileVideos.Add(float64(videos))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBreakerTransition records a circuit breaker state change.
// States are encoded 0=closed, 1=half-open, 2=open.
func RecordBreakerTransition(name, from, to string, toState float64) {
	CircuitBreakerState.WithLabelValues(name).Set(toState)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
