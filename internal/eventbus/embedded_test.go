// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nats-server/v2/server"
)

func TestEmbeddedServer_NATSTransportRoundTrip(t *testing.T) {
	cfg := testEventsConfig()
	cfg.Transport = TransportNATS
	cfg.EmbeddedServer = true
	cfg.EmbeddedHost = "127.0.0.1"
	cfg.EmbeddedPort = server.RANDOM_PORT
	cfg.QueueGroup = "test-group"

	srv := NewEmbeddedServer(cfg)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(srv.Shutdown)

	if !srv.IsRunning() || srv.ClientURL() == "" {
		t.Fatalf("IsRunning() = %v, ClientURL() = %q", srv.IsRunning(), srv.ClientURL())
	}
	if err := srv.Start(); err != nil {
		t.Errorf("second Start() error = %v, want no-op", err)
	}

	cfg.NATSURL = srv.ClientURL()
	transport, err := NewTransport(cfg, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewTransport() error = %v", err)
	}
	t.Cleanup(func() { _ = transport.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msgs, err := transport.Subscriber.Subscribe(ctx, TopicEngagementRecorded)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	sent := message.NewMessage(watermill.NewUUID(), []byte(`{"video_id":"v1"}`))
	if err := transport.Publisher.Publish(TopicEngagementRecorded, sent); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-msgs:
		got.Ack()
		if got.UUID != sent.UUID || string(got.Payload) != string(sent.Payload) {
			t.Errorf("received %s %s, want %s %s", got.UUID, got.Payload, sent.UUID, sent.Payload)
		}
	case <-ctx.Done():
		t.Fatal("message not delivered over embedded NATS")
	}
}

func TestEmbeddedServer_ShutdownBeforeStart(t *testing.T) {
	srv := NewEmbeddedServer(testEventsConfig())
	srv.Shutdown()
	if srv.IsRunning() {
		t.Error("IsRunning() = true for a server never started")
	}
}
