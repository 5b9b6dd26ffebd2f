// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package api

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"
)

const healthCheckTimeout = 2 * time.Second

// ComponentHealth is one dependency's probe result.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status        string                     `json:"status"` // "healthy" or "degraded"
	Version       string                     `json:"version"`
	UptimeSeconds float64                    `json:"uptime_seconds"`
	Components    map[string]ComponentHealth `json:"components"`
}

// Health handles GET /api/v1/health. Probes run concurrently under a short
// timeout; any failing component marks the service degraded but the
// response is still 200 so the body stays readable to load balancers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.deps.Checks))
	for name := range h.deps.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]ComponentHealth, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.deps.Checks[name](ctx); err != nil {
				results[i] = ComponentHealth{Error: err.Error()}
				return
			}
			results[i] = ComponentHealth{Healthy: true}
		}()
	}
	wg.Wait()

	status := HealthStatus{
		Status:        "healthy",
		Version:       h.deps.Version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Components:    make(map[string]ComponentHealth, len(names)),
	}
	for i, name := range names {
		status.Components[name] = results[i]
		if !results[i].Healthy {
			status.Status = "degraded"
		}
	}

	NewResponseWriter(w, r).Success(status)
}
