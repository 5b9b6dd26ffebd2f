// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

// Package engagement records behavioral samples and scores them.
//
// Each (user, video, session) owns exactly one stored record. A sample
// merges into it through the store's atomic upsert, after which the
// completion rate and engagement score are recomputed from the merged
// fields. Rolling video stats and the viewing history are updated
// asynchronously through the event bus and never fail a write.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/edufeed/internal/config"
	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/metrics"
	"github.com/tomtom215/edufeed/internal/models"
	"github.com/tomtom215/edufeed/internal/validation"
)

// Store is the persistence the recorder needs.
type Store interface {
	UpsertEngagement(ctx context.Context, patch *models.EngagementPatch, derive func(*models.EngagementEvent)) (*models.EngagementEvent, bool, error)
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
	UserExists(ctx context.Context, userID string) (bool, error)
}

// EventPublisher announces successful writes for side-effect processing.
type EventPublisher interface {
	PublishEngagementRecorded(ctx context.Context, evt *models.EngagementRecorded) error
}

// Recorder is the engagement write path.
type Recorder struct {
	store     Store
	publisher EventPublisher
	cfg       config.EngagementConfig
	now       func() time.Time
	logger    zerolog.Logger
}

// NewRecorder creates a recorder. publisher may be nil, which disables
// side effects.
func NewRecorder(store Store, publisher EventPublisher, cfg config.EngagementConfig) *Recorder {
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 8
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 100
	}
	return &Recorder{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logging.WithComponent("engagement"),
	}
}

// SetClock replaces the time source.
func (r *Recorder) SetClock(now func() time.Time) {
	r.now = now
}

// Record validates one sample, merges it into the stored record and returns
// the recomputed score. It fails with models.ErrValidation for malformed
// input and models.ErrNotFound for an unknown user or video.
func (r *Recorder) Record(ctx context.Context, in *Input) (*models.EngagementResult, error) {
	if in == nil {
		return nil, fmt.Errorf("empty engagement: %w", models.ErrValidation)
	}
	in = in.trimmed()
	if verr := validation.ValidateStruct(in); verr != nil {
		metrics.RecordEngagementWrite("rejected", 0)
		return nil, verr
	}

	exists, err := r.store.UserExists(ctx, in.UserID)
	if err != nil {
		metrics.RecordEngagementWrite("failed", 0)
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if !exists {
		metrics.RecordEngagementWrite("rejected", 0)
		return nil, fmt.Errorf("user %s: %w", in.UserID, models.ErrNotFound)
	}

	video, err := r.store.GetVideo(ctx, in.VideoID)
	if err != nil {
		result := "failed"
		if errors.Is(err, models.ErrNotFound) {
			result = "rejected"
		}
		metrics.RecordEngagementWrite(result, 0)
		return nil, fmt.Errorf("resolve video: %w", err)
	}

	now := r.now()
	patch := in.toPatch(uuid.New().String(), video.Category, now)

	event, created, err := r.store.UpsertEngagement(ctx, patch, deriver(video, now))
	if err != nil {
		metrics.RecordEngagementWrite("failed", 0)
		return nil, fmt.Errorf("record engagement: %w", err)
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.RecordEngagementWrite(outcome, event.EngagementScore)

	r.publish(ctx, event, created, now)

	return &models.EngagementResult{
		EngagementID:    event.ID,
		EngagementScore: event.EngagementScore,
		CompletionRate:  event.CompletionRate,
		Created:         created,
	}, nil
}

// publish hands the write to the side-effect pipeline. Failures are logged
// and counted only.
func (r *Recorder) publish(ctx context.Context, event *models.EngagementEvent, created bool, at time.Time) {
	if r.publisher == nil {
		return
	}
	err := r.publisher.PublishEngagementRecorded(ctx, &models.EngagementRecorded{
		EngagementID:     event.ID,
		UserID:           event.UserID,
		VideoID:          event.VideoID,
		SessionID:        event.SessionID,
		Category:         event.Category,
		WatchTimeSeconds: event.WatchTimeSeconds,
		CompletionRate:   event.CompletionRate,
		EngagementScore:  event.EngagementScore,
		Created:          created,
		RecordedAt:       at,
	})
	metrics.RecordSideEffect("publish", err)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("engagement_id", event.ID).
			Str("video_id", event.VideoID).
			Msg("Failed to publish engagement side effects")
	}
}

// RecordBatch applies each sample independently and concurrently. One bad
// item never fails its siblings; the call itself fails only when the batch
// is empty or exceeds the configured maximum.
func (r *Recorder) RecordBatch(ctx context.Context, inputs []Input) (*models.BatchResult, error) {
	if len(inputs) == 0 {
		return nil, validation.NewFieldError("events", "min", "events must contain at least 1 item", 0)
	}
	if len(inputs) > r.cfg.MaxBatchSize {
		return nil, validation.NewFieldError("events", "max",
			fmt.Sprintf("events must contain at most %d items", r.cfg.MaxBatchSize), len(inputs))
	}

	errs := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(r.cfg.BatchConcurrency)
	for i := range inputs {
		g.Go(func() error {
			_, errs[i] = r.Record(ctx, &inputs[i])
			return nil
		})
	}
	_ = g.Wait()

	result := &models.BatchResult{TotalCount: len(inputs)}
	for i, err := range errs {
		if err == nil {
			result.TrackedCount++
			continue
		}
		result.Failures = append(result.Failures, models.BatchFailure{
			Index:   i,
			Code:    models.ErrorCode(err),
			Message: err.Error(),
		})
	}

	metrics.RecordBatch(result.TrackedCount, result.TotalCount)
	if len(result.Failures) > 0 {
		r.logger.Info().
			Int("tracked", result.TrackedCount).
			Int("total", result.TotalCount).
			Msg("Engagement batch partially failed")
	}
	return result, nil
}
