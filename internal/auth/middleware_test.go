// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMiddleware_Identify(t *testing.T) {
	m := newTestManager(t)
	valid, err := m.GenerateToken("user-bob", "bob", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		manager    *JWTManager
		header     string
		wantStatus int
		wantUser   string
	}{
		{"anonymous without header", m, "", http.StatusOK, ""},
		{"valid bearer", m, "Bearer " + valid, http.StatusOK, "user-bob"},
		{"case-insensitive scheme", m, "bearer " + valid, http.StatusOK, "user-bob"},
		{"invalid token rejected", m, "Bearer garbage", http.StatusUnauthorized, ""},
		{"non-bearer scheme rejected", m, "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"empty bearer rejected", m, "Bearer   ", http.StatusUnauthorized, ""},
		{"disabled ignores header", nil, "Bearer garbage", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			handler := NewMiddleware(tt.manager, nil).Identify(func(w http.ResponseWriter, r *http.Request) {
				gotUser, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotUser != tt.wantUser {
				t.Errorf("user = %q, want %q", gotUser, tt.wantUser)
			}
		})
	}
}

func TestMiddleware_CustomReject(t *testing.T) {
	var called bool
	mw := NewMiddleware(newTestManager(t), func(w http.ResponseWriter, r *http.Request, err error) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})
	handler := mw.Identify(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if !called || rec.Code != http.StatusTeapot {
		t.Errorf("custom reject called = %v, status = %d", called, rec.Code)
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id, ok := UserIDFromContext(req.Context()); ok || id != "" {
		t.Errorf("UserIDFromContext() = %q, %v, want \"\", false", id, ok)
	}
}
