// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Broker is the lifecycle of *eventbus.EmbeddedServer.
type Broker interface {
	Start() error
	IsRunning() bool
	Shutdown()
}

// BrokerService keeps an embedded broker alive. Start is idempotent, so a
// broker already started during process wiring is adopted as-is; a broker
// found stopped is reported as a failure and suture's restart starts a new
// one.
type BrokerService struct {
	broker        Broker
	checkInterval time.Duration
	name          string
}

// NewBrokerService creates the service. checkInterval defaults to 5s.
func NewBrokerService(broker Broker, checkInterval time.Duration) *BrokerService {
	if checkInterval <= 0 {
		checkInterval = 5 * time.Second
	}
	return &BrokerService{broker: broker, checkInterval: checkInterval, name: "embedded-nats"}
}

// Serve implements suture.Service.
func (s *BrokerService) Serve(ctx context.Context) error {
	if err := s.broker.Start(); err != nil {
		return fmt.Errorf("embedded broker start failed: %w", err)
	}

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.broker.Shutdown()
			return ctx.Err()
		case <-ticker.C:
			if !s.broker.IsRunning() {
				return errors.New("embedded broker stopped unexpectedly")
			}
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *BrokerService) String() string {
	return s.name
}
