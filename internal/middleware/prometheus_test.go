// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"

	"github.com/tomtom215/edufeed/internal/metrics"
)

func requestCount(t *testing.T, method, endpoint, status string) float64 {
	t.Helper()
	var m dto.Metric
	if err := metrics.APIRequestsTotal.WithLabelValues(method, endpoint, status).Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestPrometheusMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return PrometheusMetrics(next.ServeHTTP)
	})
	r.Get("/api/v1/users/{userID}/preferences", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	const pattern = "/api/v1/users/{userID}/preferences"
	before := requestCount(t, "GET", pattern, "200")

	for _, path := range []string{"/api/v1/users/a/preferences", "/api/v1/users/b/preferences"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	}

	if got := requestCount(t, "GET", pattern, "200") - before; got != 2 {
		t.Errorf("requests for %s = %v, want 2", pattern, got)
	}
	if got := requestCount(t, "GET", "/api/v1/users/a/preferences", "200"); got != 0 {
		t.Errorf("raw path label count = %v, want 0", got)
	}
}

func TestPrometheusMetrics_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status string
	}{
		{"implicit 200", func(w http.ResponseWriter) { _, _ = w.Write([]byte("ok")) }, "200"},
		{"explicit 404", func(w http.ResponseWriter) { w.WriteHeader(http.StatusNotFound) }, "404"},
		{"first WriteHeader wins", func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusBadRequest)
			w.WriteHeader(http.StatusInternalServerError)
		}, "400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := requestCount(t, "POST", unmatchedRoute, tt.status)
			handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
				tt.write(w)
			})
			handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/no-router", nil))

			if got := requestCount(t, "POST", unmatchedRoute, tt.status) - before; got != 1 {
				t.Errorf("count for status %s = %v, want 1", tt.status, got)
			}
		})
	}
}

func TestMetricsResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &metricsResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	if rw.Unwrap() != rec {
		t.Error("Unwrap did not return the wrapped writer")
	}
}
