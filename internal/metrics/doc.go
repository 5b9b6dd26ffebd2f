// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

/*
Package metrics holds the Prometheus collectors for the service.

Collectors are registered on the default registry at package init and are
exposed at /metrics:

	curl http://localhost:3857/metrics

# Available Metrics

Engagement:
  - engagement_writes_total{result}: samples created, updated, rejected or failed
  - engagement_score: histogram of stored scores
  - engagement_batch_items_total{result}: batch items tracked or failed

Ranking:
  - disengagement_assessments_total{state}
  - recommendations_served_total{mode}
  - feed_items_ranked_total{source}
  - catalog_errors_total{source}
  - ranking_duration_seconds{operation}

Side effects:
  - side_effects_total{effect,result}
  - side_effect_messages_poisoned_total
  - reconcile_runs_total{result}, reconcile_videos_total

HTTP and resilience:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total
  - circuit_breaker_state, circuit_breaker_state_transitions_total
*/
package metrics
