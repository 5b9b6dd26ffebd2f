// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/edufeed/internal/config"
	"github.com/tomtom215/edufeed/internal/eventbus"
	"github.com/tomtom215/edufeed/internal/models"
)

type countingStats struct {
	refreshed atomic.Int32
}

func (s *countingStats) RefreshVideoStats(_ context.Context, videoID string) (*models.VideoStats, error) {
	s.refreshed.Add(1)
	return &models.VideoStats{VideoID: videoID}, nil
}

func channelEventsConfig() config.EventsConfig {
	return config.EventsConfig{
		Transport:            eventbus.TransportChannel,
		BufferSize:           16,
		RetryCount:           1,
		RetryInitialInterval: time.Millisecond,
		CloseTimeout:         time.Second,
	}
}

func TestInitEvents_ChannelPipeline(t *testing.T) {
	stats := &countingStats{}
	events, err := InitEvents(channelEventsConfig(), eventbus.NewSideEffects(stats, nil))
	if err != nil {
		t.Fatalf("InitEvents() error = %v", err)
	}
	defer events.Close()

	if events.broker != nil {
		t.Error("broker started without embedded_server")
	}
	if err := events.RouterCheck(context.Background()); err == nil {
		t.Error("RouterCheck() = nil before the router runs")
	}
	if err := events.PublisherCheck(context.Background()); err != nil {
		t.Errorf("PublisherCheck() = %v, want nil", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- events.router.Serve(ctx) }()

	// The channel transport drops messages published before the handler
	// subscribes, so publish until one is processed.
	evt := &models.EngagementRecorded{EngagementID: "e1", UserID: "u1", VideoID: "v1", SessionID: "s1"}
	deadline := time.Now().Add(5 * time.Second)
	for stats.refreshed.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("side effect never ran")
		}
		if err := events.Publisher().PublishEngagementRecorded(context.Background(), evt); err != nil {
			t.Fatalf("PublishEngagementRecorded() error = %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	if err := events.RouterCheck(context.Background()); err != nil {
		t.Errorf("RouterCheck() = %v while running", err)
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("router Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("router did not stop")
	}
}

func TestInitEvents_EmbeddedIgnoredForChannel(t *testing.T) {
	cfg := channelEventsConfig()
	cfg.EmbeddedServer = true

	events, err := InitEvents(cfg, eventbus.NewSideEffects(nil, nil))
	if err != nil {
		t.Fatalf("InitEvents() error = %v", err)
	}
	if events.broker != nil {
		t.Error("embedded broker started for the channel transport")
	}
	if err := events.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestInitEvents_UnknownTransport(t *testing.T) {
	cfg := channelEventsConfig()
	cfg.Transport = "carrier-pigeon"
	if _, err := InitEvents(cfg, eventbus.NewSideEffects(nil, nil)); err == nil {
		t.Error("InitEvents() error = nil, want unknown transport")
	}
}
