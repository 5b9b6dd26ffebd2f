// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package eventbus

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"

	"github.com/tomtom215/edufeed/internal/config"
	"github.com/tomtom215/edufeed/internal/logging"
)

// embeddedReadyTimeout bounds how long startup waits for the listener.
const embeddedReadyTimeout = 30 * time.Second

// EmbeddedServer is an in-process NATS broker for single-node deployments
// that still want the nats transport. Only core NATS is used, so JetStream
// stays off.
type EmbeddedServer struct {
	opts   *server.Options
	server *server.Server
}

// NewEmbeddedServer prepares a server from cfg without starting it.
func NewEmbeddedServer(cfg *config.EventsConfig) *EmbeddedServer {
	return &EmbeddedServer{
		opts: &server.Options{
			ServerName: "edufeed-events",
			Host:       cfg.EmbeddedHost,
			Port:       cfg.EmbeddedPort,
			StoreDir:   cfg.EmbeddedStoreDir,
			JetStream:  false,
			NoLog:      true,
			NoSigs:     true,
			MaxPayload: 1024 * 1024,
		},
	}
}

// Start launches the server and waits until it accepts connections.
// Starting a running server is a no-op; a stopped server is replaced.
func (s *EmbeddedServer) Start() error {
	if s.server != nil && s.server.Running() {
		return nil
	}

	ns, err := server.NewServer(s.opts)
	if err != nil {
		return fmt.Errorf("create NATS server: %w", err)
	}
	go ns.Start()

	if !ns.ReadyForConnections(embeddedReadyTimeout) {
		ns.Shutdown()
		return fmt.Errorf("NATS server not ready within %s", embeddedReadyTimeout)
	}
	s.server = ns

	logging.Info().Str("url", ns.ClientURL()).Msg("Embedded NATS server started")
	return nil
}

// ClientURL returns the connection URL, empty before Start.
func (s *EmbeddedServer) ClientURL() string {
	if s.server == nil {
		return ""
	}
	return s.server.ClientURL()
}

// IsRunning reports whether the server is up.
func (s *EmbeddedServer) IsRunning() bool {
	return s.server != nil && s.server.Running()
}

// Shutdown stops the server and waits for it to exit.
func (s *EmbeddedServer) Shutdown() {
	if s.server == nil || !s.server.Running() {
		return
	}
	s.server.Shutdown()
	s.server.WaitForShutdown()
	logging.Info().Msg("Embedded NATS server stopped")
}
