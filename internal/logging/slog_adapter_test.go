// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

func TestSlogHandlerWritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.Info("service started",
		"service", "http",
		"attempt", 2,
		"ok", true,
		"wait", time.Second,
		"err", errors.New("boom"),
	)

	out := buf.String()
	for _, want := range []string{
		`"message":"service started"`,
		`"service":"http"`,
		`"attempt":2`,
		`"ok":true`,
		`"err":"boom"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %q", want, out)
		}
	}
}

func TestSlogHandlerGroupsPrefixKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf)))

	logger.WithGroup("supervisor").With("tree", "root").Warn("restart", slog.Group("svc", "name", "http"))

	out := buf.String()
	if !strings.Contains(out, `"supervisor.tree":"root"`) {
		t.Errorf("group prefix missing for With attr: %q", out)
	}
	if !strings.Contains(out, `"supervisor.svc.name":"http"`) {
		t.Errorf("nested group key missing: %q", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("level not mapped: %q", out)
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
		{slog.LevelError + 4, "error"},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in).String(); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestWatermillLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWatermillLoggerWithLogger(NewTestLogger(&buf)).
		With(watermill.LogFields{"topic": "engagement.recorded"})

	logger.Error("handler failed", errors.New("db down"), watermill.LogFields{"attempt": 3})

	out := buf.String()
	for _, want := range []string{
		`"topic":"engagement.recorded"`,
		`"attempt":3`,
		`"error":"db down"`,
		`"message":"handler failed"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %q", want, out)
		}
	}
}
