// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

// Package reconcile periodically recomputes every video's rolling
// aggregates from the stored engagement records.
//
// Aggregate refreshes normally ride the event bus after each write and are
// best-effort, so a dropped message leaves a video's averages stale. The
// scheduler repairs that drift on a cron schedule, pacing database work
// with a token-bucket limiter, and compacts the history store afterwards.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/edufeed/internal/config"
	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/metrics"
	"github.com/tomtom215/edufeed/internal/models"
)

// historyGCDiscardRatio is passed to Badger's value-log GC.
const historyGCDiscardRatio = 0.5

// ErrAlreadyRunning is returned by Run when a previous run is still active.
var ErrAlreadyRunning = errors.New("reconcile run already in progress")

// Store is the aggregate source.
type Store interface {
	ListVideoIDs(ctx context.Context) ([]string, error)
	RefreshVideoStats(ctx context.Context, videoID string) (*models.VideoStats, error)
}

// Compactor reclaims space in the history store. Optional.
type Compactor interface {
	RunGC(discardRatio float64) error
}

// Result summarizes one run.
type Result struct {
	Videos   int
	Failed   int
	Duration time.Duration
}

// Scheduler runs the reconciliation on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	store    Store
	history  Compactor
	limiter  *rate.Limiter
	logger   zerolog.Logger

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler. A non-positive rate disables pacing.
func NewScheduler(cfg config.ReconcileConfig, store Store, history Compactor) *Scheduler {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Scheduler{
		cron:     cron.New(),
		schedule: cfg.Schedule,
		store:    store,
		history:  history,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logging.WithComponent("reconcile"),
	}
}

// Start registers the job and starts the cron loop. Runs triggered by the
// schedule use a context derived from ctx that Stop cancels.
func (s *Scheduler) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.Run(runCtx); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			s.logger.Error().Err(err).Msg("Scheduled reconcile failed")
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("invalid reconcile schedule %q: %w", s.schedule, err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Msg("Reconcile scheduler started")
	return nil
}

// Stop halts the schedule, cancels an in-flight run and waits for it.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Reconcile scheduler stopped")
	return nil
}

// Run recomputes every video's aggregates once. A failure on one video is
// logged and the run continues; the run fails only when listing fails or
// ctx ends. Overlapping runs are rejected with ErrAlreadyRunning.
func (s *Scheduler) Run(ctx context.Context) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Result{}, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	start := time.Now()
	ids, err := s.store.ListVideoIDs(ctx)
	if err != nil {
		metrics.RecordReconcile(0, err)
		return Result{}, fmt.Errorf("list videos: %w", err)
	}

	result := Result{}
	for _, id := range ids {
		if err := s.limiter.Wait(ctx); err != nil {
			result.Duration = time.Since(start)
			metrics.RecordReconcile(result.Videos, err)
			return result, fmt.Errorf("reconcile interrupted after %d videos: %w", result.Videos, err)
		}
		if _, err := s.store.RefreshVideoStats(ctx, id); err != nil {
			result.Failed++
			s.logger.Warn().Err(err).Str("video_id", id).Msg("Failed to refresh video stats")
			continue
		}
		result.Videos++
	}

	if s.history != nil {
		if err := s.history.RunGC(historyGCDiscardRatio); err != nil {
			s.logger.Warn().Err(err).Msg("History compaction failed")
		}
	}

	result.Duration = time.Since(start)
	metrics.RecordReconcile(result.Videos, nil)
	s.logger.Info().
		Int("videos", result.Videos).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("Reconcile completed")
	return result, nil
}
