// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package eventbus

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/metrics"
	"github.com/tomtom215/edufeed/internal/models"
)

// Handler names
const (
	HandlerSideEffects = "engagement-side-effects"
	HandlerPoison      = "engagement-poison-log"
)

// StatsRefresher recomputes a video's rolling aggregates.
type StatsRefresher interface {
	RefreshVideoStats(ctx context.Context, videoID string) (*models.VideoStats, error)
}

// HistoryLog is the per-user viewing history.
type HistoryLog interface {
	Append(ctx context.Context, userID string, entry models.HistoryEntry) error
	Recent(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error)
}

// SideEffects applies the best-effort consequences of an engagement write.
type SideEffects struct {
	stats   StatsRefresher
	history HistoryLog
	logger  zerolog.Logger
}

// NewSideEffects creates the handler. Either dependency may be nil to
// disable that effect.
func NewSideEffects(stats StatsRefresher, history HistoryLog) *SideEffects {
	return &SideEffects{
		stats:   stats,
		history: history,
		logger:  logging.WithComponent("eventbus"),
	}
}

// HandleEngagementRecorded refreshes the video's rolling stats and, for a
// newly created record, appends to the user's history. Both effects are
// safe to repeat, so a retried message converges.
func (s *SideEffects) HandleEngagementRecorded(msg *message.Message) error {
	var evt models.EngagementRecorded
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		// Malformed payloads never succeed; drop instead of retrying.
		s.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed engagement message")
		return nil
	}

	ctx := msg.Context()
	log := s.logger.With().
		Str("engagement_id", evt.EngagementID).
		Str("video_id", evt.VideoID).
		Str("request_id", msg.Metadata.Get(MetadataRequestID)).
		Logger()

	if s.stats != nil {
		_, err := s.stats.RefreshVideoStats(ctx, evt.VideoID)
		metrics.RecordSideEffect("video_stats", err)
		switch {
		case errors.Is(err, models.ErrNotFound):
			log.Warn().Err(err).Msg("Video vanished before stats refresh")
		case err != nil:
			return fmt.Errorf("refresh stats for %s: %w", evt.VideoID, err)
		}
	}

	if evt.Created && s.history != nil {
		err := s.appendOnce(ctx, &evt)
		metrics.RecordSideEffect("history", err)
		if err != nil {
			return fmt.Errorf("append history for %s: %w", evt.UserID, err)
		}
	}

	log.Debug().Bool("created", evt.Created).Msg("Engagement side effects applied")
	return nil
}

// appendOnce skips the append when a redelivered message already put this
// (video, session) at the head of the log.
func (s *SideEffects) appendOnce(ctx context.Context, evt *models.EngagementRecorded) error {
	head, err := s.history.Recent(ctx, evt.UserID, 1)
	if err != nil {
		return err
	}
	if len(head) == 1 && head[0].VideoID == evt.VideoID && head[0].SessionID == evt.SessionID {
		return nil
	}
	return s.history.Append(ctx, evt.UserID, models.HistoryEntry{
		VideoID:   evt.VideoID,
		SessionID: evt.SessionID,
		Category:  evt.Category,
		WatchedAt: evt.RecordedAt,
	})
}

// HandlePoisoned logs a message that exhausted its retries and acks it.
func (s *SideEffects) HandlePoisoned(msg *message.Message) error {
	metrics.PoisonedMessages.Inc()
	s.logger.Warn().
		Str("message_uuid", msg.UUID).
		Str("reason", msg.Metadata.Get(middleware.ReasonForPoisonedKey)).
		Str("topic", msg.Metadata.Get(middleware.PoisonedTopicKey)).
		Str("handler", msg.Metadata.Get(middleware.PoisonedHandlerKey)).
		Str("request_id", msg.Metadata.Get(MetadataRequestID)).
		Msg("Side effect abandoned after retries")
	return nil
}

// Register wires the side-effect and poison handlers onto router.
func Register(router *Router, sub message.Subscriber, effects *SideEffects) {
	router.AddConsumerHandler(HandlerSideEffects, TopicEngagementRecorded, sub, effects.HandleEngagementRecorded)
	router.AddConsumerHandler(HandlerPoison, router.config.PoisonQueueTopic, sub, effects.HandlePoisoned)
}
