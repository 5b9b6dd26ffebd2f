// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/edufeed/internal/auth"
	"github.com/tomtom215/edufeed/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	identity      *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil identity middleware leaves every
// request anonymous.
func NewRouter(handler *Handler, identity *auth.Middleware, chiMW *ChiMiddleware) *Router {
	if identity == nil {
		identity = auth.NewMiddleware(nil, nil)
	}
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, identity: identity, chiMiddleware: chiMW}
}

// rejectToken answers an invalid bearer token with the standard envelope.
func rejectToken(w http.ResponseWriter, r *http.Request, _ error) {
	NewResponseWriter(w, r).Unauthorized("Invalid or expired bearer token")
}

// NewIdentityMiddleware builds the bearer-identity middleware with
// envelope-shaped 401 responses.
func NewIdentityMiddleware(jwtManager *auth.JWTManager) *auth.Middleware {
	return auth.NewMiddleware(jwtManager, rejectToken)
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(Adapt(middleware.RequestID))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	h := router.handler
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(Adapt(middleware.PrometheusMetrics))
		r.Use(Adapt(router.identity.Identify))

		r.Get("/health", h.Health)

		r.Post("/engagement", h.RecordEngagement)
		r.Post("/engagement/batch", h.RecordEngagementBatch)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/preferences", h.GetPreferences)
			r.Get("/sessions/{sessionID}/disengagement", h.GetDisengagement)
			r.Get("/recommendations", h.GetRecommendations)
			r.Get("/history", h.GetHistory)
		})

		r.Get("/feed", h.GetFeed)
		r.Get("/videos/{videoID}/stats", h.GetVideoStats)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
