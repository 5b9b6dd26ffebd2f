// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// RouterRunner is the lifecycle slice of *eventbus.Router.
type RouterRunner interface {
	Run(ctx context.Context) error
	IsRunning() bool
}

// RouterFactory builds a router with its handlers registered. A Watermill
// router cannot run twice, so each restart builds a fresh one.
type RouterFactory func() (RouterRunner, error)

// EventRouterService supervises the side-effect router.
type EventRouterService struct {
	build RouterFactory
	name  string

	mu      sync.Mutex
	current RouterRunner
}

// NewEventRouterService creates the service.
func NewEventRouterService(build RouterFactory) *EventRouterService {
	return &EventRouterService{build: build, name: "event-router"}
}

// Serve implements suture.Service. A router that stops while ctx is still
// live is reported as a failure so suture restarts it.
func (s *EventRouterService) Serve(ctx context.Context) error {
	router, err := s.build()
	if err != nil {
		return fmt.Errorf("build event router: %w", err)
	}

	s.mu.Lock()
	s.current = router
	s.mu.Unlock()

	err = router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("router exited")
	}
	return fmt.Errorf("event router stopped: %w", err)
}

// IsRunning reports whether the current router is processing messages.
func (s *EventRouterService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && s.current.IsRunning()
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *EventRouterService) String() string {
	return s.name
}
