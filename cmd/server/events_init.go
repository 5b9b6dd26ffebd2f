// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/edufeed/internal/config"
	"github.com/tomtom215/edufeed/internal/eventbus"
	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/supervisor"
	"github.com/tomtom215/edufeed/internal/supervisor/services"
)

// EventComponents holds the side-effect pipeline for lifecycle management.
type EventComponents struct {
	broker    *eventbus.EmbeddedServer
	transport *eventbus.Transport
	publisher *eventbus.Publisher
	router    *services.EventRouterService
}

// InitEvents starts the embedded broker (NATS transport only), connects the
// transport and prepares a router factory that registers effects on every
// rebuild. Nothing consumes messages until the router service is supervised.
func InitEvents(cfg config.EventsConfig, effects *eventbus.SideEffects) (*EventComponents, error) {
	c := &EventComponents{}

	if cfg.EmbeddedServer {
		if cfg.Transport != eventbus.TransportNATS {
			logging.Warn().
				Str("transport", cfg.Transport).
				Msg("Embedded NATS broker ignored for non-NATS transport")
		} else {
			c.broker = eventbus.NewEmbeddedServer(&cfg)
			// The transport connects immediately, so the broker must be up
			// before the supervisor adopts it.
			if err := c.broker.Start(); err != nil {
				return nil, fmt.Errorf("start embedded broker: %w", err)
			}
			cfg.NATSURL = c.broker.ClientURL()
		}
	}

	transport, err := eventbus.NewTransport(&cfg, logging.NewWatermillLogger())
	if err != nil {
		c.shutdownBroker()
		return nil, fmt.Errorf("create event transport: %w", err)
	}
	c.transport = transport
	c.publisher = eventbus.NewPublisher(transport.Publisher)

	routerCfg := eventbus.RouterConfigFrom(&cfg)
	c.router = services.NewEventRouterService(func() (services.RouterRunner, error) {
		router, err := eventbus.NewRouter(routerCfg, transport.Publisher, logging.NewWatermillLogger())
		if err != nil {
			return nil, err
		}
		eventbus.Register(router, transport.Subscriber, effects)
		return router, nil
	})

	logging.Info().
		Str("transport", transport.Name).
		Str("poison_topic", routerCfg.PoisonQueueTopic).
		Int("retries", routerCfg.RetryMaxRetries).
		Msg("Event pipeline initialized")
	return c, nil
}

// Publisher returns the engagement event publisher.
func (c *EventComponents) Publisher() *eventbus.Publisher {
	return c.publisher
}

// AddToSupervisor registers the broker in the data layer and the router in
// the messaging layer.
func (c *EventComponents) AddToSupervisor(tree *supervisor.SupervisorTree) {
	if c.broker != nil {
		tree.AddDataService(services.NewBrokerService(c.broker, 0))
	}
	tree.AddMessagingService(c.router)
}

// RouterCheck reports an error while the side-effect router is down.
func (c *EventComponents) RouterCheck(context.Context) error {
	if !c.router.IsRunning() {
		return errors.New("event router not running")
	}
	return nil
}

// PublisherCheck reports an error while the publish breaker is open.
func (c *EventComponents) PublisherCheck(context.Context) error {
	if state := c.publisher.State(); state == gobreaker.StateOpen {
		return fmt.Errorf("event publisher circuit %s", state)
	}
	return nil
}

// Close stops publishing and releases the transport. The broker normally
// stops with its supervisor service; stopping it again is a no-op.
func (c *EventComponents) Close() error {
	var errs []error
	if err := c.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.transport.Close(); err != nil {
		errs = append(errs, err)
	}
	c.shutdownBroker()
	return errors.Join(errs...)
}

func (c *EventComponents) shutdownBroker() {
	if c.broker != nil {
		c.broker.Shutdown()
	}
}
