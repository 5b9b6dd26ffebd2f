// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package services

import (
	"context"
	"fmt"
)

// Scheduler is the Start/Stop lifecycle of *reconcile.Scheduler.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop() error
}

// SchedulerService adapts a Start/Stop scheduler to suture's Serve:
// start, wait for cancellation, stop.
type SchedulerService struct {
	scheduler Scheduler
	name      string
}

// NewSchedulerService creates the service; name identifies it in suture logs.
func NewSchedulerService(name string, scheduler Scheduler) *SchedulerService {
	return &SchedulerService{scheduler: scheduler, name: name}
}

// Serve implements suture.Service. A failed Start is returned so suture
// applies its backoff.
func (s *SchedulerService) Serve(ctx context.Context) error {
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("%s start failed: %w", s.name, err)
	}

	<-ctx.Done()

	if err := s.scheduler.Stop(); err != nil {
		return fmt.Errorf("%s stop failed: %w", s.name, err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *SchedulerService) String() string {
	return s.name
}
