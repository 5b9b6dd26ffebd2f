// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// getCounterValue extracts the value from a Prometheus counter
func getCounterValue(counter prometheus.Counter) float64 {
	var m io_prometheus_client.Metric
	if err := counter.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestRecordEngagementWrite(t *testing.T) {
	tests := []struct {
		result       string
		wantObserved bool
	}{
		{"created", true},
		{"updated", true},
		{"rejected", false},
	}
	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			before := getCounterValue(EngagementWrites.WithLabelValues(tt.result))
			samplesBefore := histogramCount(t)

			RecordEngagementWrite(tt.result, 42)

			if got := getCounterValue(EngagementWrites.WithLabelValues(tt.result)); got != before+1 {
				t.Errorf("counter = %v, want %v", got, before+1)
			}
			observed := histogramCount(t) > samplesBefore
			if observed != tt.wantObserved {
				t.Errorf("score observed = %v, want %v", observed, tt.wantObserved)
			}
		})
	}
}

func histogramCount(t *testing.T) uint64 {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := EngagementScore.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordBatch(t *testing.T) {
	tracked := getCounterValue(EngagementBatchItems.WithLabelValues("tracked"))
	failed := getCounterValue(EngagementBatchItems.WithLabelValues("failed"))

	RecordBatch(4, 5)

	if got := getCounterValue(EngagementBatchItems.WithLabelValues("tracked")); got != tracked+4 {
		t.Errorf("tracked = %v, want %v", got, tracked+4)
	}
	if got := getCounterValue(EngagementBatchItems.WithLabelValues("failed")); got != failed+1 {
		t.Errorf("failed = %v, want %v", got, failed+1)
	}
}

func TestRecordDisengagement(t *testing.T) {
	before := getCounterValue(DisengagementAssessments.WithLabelValues("disengaging"))
	RecordDisengagement(true)
	if got := getCounterValue(DisengagementAssessments.WithLabelValues("disengaging")); got != before+1 {
		t.Errorf("disengaging = %v, want %v", got, before+1)
	}
}

func TestRecordSideEffect(t *testing.T) {
	okBefore := getCounterValue(SideEffects.WithLabelValues("history", "ok"))
	failBefore := getCounterValue(SideEffects.WithLabelValues("history", "failed"))

	RecordSideEffect("history", nil)
	RecordSideEffect("history", errors.New("disk full"))

	if got := getCounterValue(SideEffects.WithLabelValues("history", "ok")); got != okBefore+1 {
		t.Errorf("ok = %v, want %v", got, okBefore+1)
	}
	if got := getCounterValue(SideEffects.WithLabelValues("history", "failed")); got != failBefore+1 {
		t.Errorf("failed = %v, want %v", got, failBefore+1)
	}
}

func TestRecordReconcile(t *testing.T) {
	before := getCounterValue(ReconcileVideos)
	RecordReconcile(7, nil)
	if got := getCounterValue(ReconcileVideos); got != before+7 {
		t.Errorf("videos = %v, want %v", got, before+7)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/feed", "200"))
	RecordAPIRequest("GET", "/api/v1/feed", "200", 15*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/feed", "200")); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}

func TestRecordBreakerTransition(t *testing.T) {
	RecordBreakerTransition("catalog-uploaded", "closed", "open", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("catalog-uploaded")); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}
}
