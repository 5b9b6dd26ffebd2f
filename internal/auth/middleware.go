// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tomtom215/edufeed/internal/logging"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// RejectFunc writes the response for a request carrying an invalid token.
type RejectFunc func(w http.ResponseWriter, r *http.Request, err error)

// Middleware attaches bearer-token claims to the request context.
type Middleware struct {
	jwtManager *JWTManager
	reject     RejectFunc
}

// NewMiddleware creates the identity middleware. A nil manager disables
// token checks and every request is anonymous. A nil reject writes a plain
// 401.
func NewMiddleware(jwtManager *JWTManager, reject RejectFunc) *Middleware {
	if reject == nil {
		reject = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		}
	}
	return &Middleware{jwtManager: jwtManager, reject: reject}
}

// Identify is optional authentication: no Authorization header means an
// anonymous request; a bearer token must verify or the request is rejected.
func (m *Middleware) Identify(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.jwtManager == nil {
			next(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next(w, r)
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			m.reject(w, r, ErrInvalidToken)
			return
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Bearer token rejected")
			m.reject(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// ClaimsFromContext returns the verified claims, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the caller's user ID from a verified token.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.UserID(), true
}
