// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/edufeed/internal/models"
)

type countingExternal struct {
	calls  int
	err    error
	videos []models.ExternalVideo
}

func (c *countingExternal) QueryExternalVideos(_ context.Context, _ models.ExternalQuery) ([]models.ExternalVideo, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.videos, nil
}

func TestCachedExternalCatalog(t *testing.T) {
	ctx := context.Background()
	src := &countingExternal{videos: []models.ExternalVideo{{ID: "e1"}, {ID: "e2"}}}
	cached := NewCachedExternalCatalog(src, time.Minute)

	q := models.ExternalQuery{Subject: "Physics", Limit: 10}
	first, err := cached.QueryExternalVideos(ctx, q)
	if err != nil {
		t.Fatalf("QueryExternalVideos() error = %v", err)
	}
	first[0].ID = "mutated"

	second, err := cached.QueryExternalVideos(ctx, q)
	if err != nil {
		t.Fatalf("QueryExternalVideos() error = %v", err)
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}
	if second[0].ID != "e1" {
		t.Errorf("cached result ID = %q, want e1 (callers must not share the slice)", second[0].ID)
	}

	if _, err := cached.QueryExternalVideos(ctx, models.ExternalQuery{Limit: 10}); err != nil {
		t.Fatal(err)
	}
	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2 for a different query", src.calls)
	}

	stats := cached.Stats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("stats = %+v, want 1 hit, 2 misses", stats)
	}
}

func TestCachedExternalCatalog_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	src := &countingExternal{err: errors.New("index offline")}
	cached := NewCachedExternalCatalog(src, time.Minute)
	q := models.ExternalQuery{Limit: 5}

	if _, err := cached.QueryExternalVideos(ctx, q); err == nil {
		t.Fatal("QueryExternalVideos() error = nil, want source error")
	}

	src.err = nil
	src.videos = []models.ExternalVideo{{ID: "e1"}}
	got, err := cached.QueryExternalVideos(ctx, q)
	if err != nil || len(got) != 1 {
		t.Errorf("QueryExternalVideos() = %v, %v, want the recovered result", got, err)
	}
	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2", src.calls)
	}
}
