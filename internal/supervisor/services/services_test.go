// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var (
	_ suture.Service = (*EventRouterService)(nil)
	_ suture.Service = (*SchedulerService)(nil)
	_ suture.Service = (*BrokerService)(nil)
)

type mockRouter struct {
	running atomic.Bool
	exitErr error
	exitNow bool
}

func (m *mockRouter) Run(ctx context.Context) error {
	m.running.Store(true)
	defer m.running.Store(false)
	if m.exitNow {
		return m.exitErr
	}
	<-ctx.Done()
	return nil
}

func (m *mockRouter) IsRunning() bool { return m.running.Load() }

func TestEventRouterService(t *testing.T) {
	t.Run("runs until canceled", func(t *testing.T) {
		router := &mockRouter{}
		svc := NewEventRouterService(func() (RouterRunner, error) { return router, nil })

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		deadline := time.Now().Add(2 * time.Second)
		for !svc.IsRunning() {
			if time.Now().After(deadline) {
				t.Fatal("router never reported running")
			}
			time.Sleep(time.Millisecond)
		}
		cancel()
		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
		if svc.IsRunning() {
			t.Error("IsRunning() = true after stop")
		}
	})

	t.Run("unexpected exit is a failure", func(t *testing.T) {
		builds := 0
		svc := NewEventRouterService(func() (RouterRunner, error) {
			builds++
			return &mockRouter{exitNow: true}, nil
		})
		if err := svc.Serve(context.Background()); err == nil {
			t.Error("Serve() error = nil, want failure")
		}
		if err := svc.Serve(context.Background()); err == nil {
			t.Error("second Serve() error = nil, want failure")
		}
		if builds != 2 {
			t.Errorf("builds = %d, want a fresh router per Serve", builds)
		}
	})

	t.Run("build failure", func(t *testing.T) {
		svc := NewEventRouterService(func() (RouterRunner, error) { return nil, errors.New("no subscriber") })
		if err := svc.Serve(context.Background()); err == nil {
			t.Error("Serve() error = nil, want build failure")
		}
		if svc.IsRunning() {
			t.Error("IsRunning() = true without a router")
		}
	})
}

type mockScheduler struct {
	mu       sync.Mutex
	startErr error
	started  int
	stopped  int
}

func (m *mockScheduler) Start(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
	return m.startErr
}

func (m *mockScheduler) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
	return nil
}

func TestSchedulerService(t *testing.T) {
	sched := &mockScheduler{}
	svc := NewSchedulerService("reconcile-scheduler", sched)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
	if sched.started != 1 || sched.stopped != 1 {
		t.Errorf("started/stopped = %d/%d, want 1/1", sched.started, sched.stopped)
	}
	if svc.String() != "reconcile-scheduler" {
		t.Errorf("String() = %q", svc.String())
	}

	failing := &mockScheduler{startErr: errors.New("bad spec")}
	if err := NewSchedulerService("x", failing).Serve(context.Background()); err == nil {
		t.Error("Serve() error = nil, want start failure")
	}
	if failing.stopped != 0 {
		t.Error("Stop called after failed Start")
	}
}

type mockBroker struct {
	running  atomic.Bool
	starts   atomic.Int32
	shutdown atomic.Int32
	startErr error
}

func (m *mockBroker) Start() error {
	m.starts.Add(1)
	if m.startErr != nil {
		return m.startErr
	}
	m.running.Store(true)
	return nil
}

func (m *mockBroker) IsRunning() bool { return m.running.Load() }

func (m *mockBroker) Shutdown() {
	m.shutdown.Add(1)
	m.running.Store(false)
}

func TestBrokerService(t *testing.T) {
	t.Run("shuts down on cancel", func(t *testing.T) {
		broker := &mockBroker{}
		svc := NewBrokerService(broker, 5*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()
		time.Sleep(20 * time.Millisecond)
		cancel()

		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
		if broker.shutdown.Load() != 1 {
			t.Errorf("Shutdown calls = %d, want 1", broker.shutdown.Load())
		}
	})

	t.Run("detects a stopped broker", func(t *testing.T) {
		broker := &mockBroker{}
		svc := NewBrokerService(broker, 5*time.Millisecond)

		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(context.Background()) }()
		deadline := time.Now().Add(2 * time.Second)
		for !broker.IsRunning() {
			if time.Now().After(deadline) {
				t.Fatal("broker never started")
			}
			time.Sleep(time.Millisecond)
		}
		broker.running.Store(false)

		select {
		case err := <-errCh:
			if err == nil {
				t.Error("Serve() error = nil, want failure")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("stopped broker not detected")
		}
	})

	t.Run("start failure", func(t *testing.T) {
		broker := &mockBroker{startErr: errors.New("port in use")}
		if err := NewBrokerService(broker, 0).Serve(context.Background()); !errors.Is(err, broker.startErr) {
			t.Errorf("Serve() error = %v, want start error", err)
		}
	})
}
