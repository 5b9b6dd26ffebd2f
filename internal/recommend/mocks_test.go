// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/edufeed/internal/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fixedRand returns a constant and never shuffles.
type fixedRand struct {
	v float64
}

func (r fixedRand) Float64() float64            { return r.v }
func (r fixedRand) Shuffle(int, func(i, j int)) {}

// reversingRand records each Shuffle call and reverses the slice.
type reversingRand struct {
	shuffled []int
}

func (r *reversingRand) Float64() float64 { return 0 }

func (r *reversingRand) Shuffle(n int, swap func(i, j int)) {
	r.shuffled = append(r.shuffled, n)
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

type mockEngagements struct {
	all     []models.EngagementEvent // newest first
	session map[string][]models.EngagementEvent
	err     error
}

func (m *mockEngagements) RecentEngagements(_ context.Context, _ string, limit int) ([]models.EngagementEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.all[:min(limit, len(m.all))], nil
}

func (m *mockEngagements) RecentSessionEngagements(_ context.Context, _, sessionID string, limit int) ([]models.EngagementEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	events := m.session[sessionID]
	return events[:min(limit, len(events))], nil
}

// mockCatalog filters and orders in memory the way the database does.
type mockCatalog struct {
	mu       sync.Mutex
	videos   []models.Video
	external []models.ExternalVideo
	err      error
	queries  []models.CatalogQuery
}

func (m *mockCatalog) QueryVideos(_ context.Context, q models.CatalogQuery) ([]models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if m.err != nil {
		return nil, m.err
	}

	categories := make(map[string]bool)
	for _, c := range q.Categories {
		categories[c] = true
	}
	excluded := make(map[string]bool)
	for _, id := range q.ExcludeIDs {
		excluded[id] = true
	}

	var out []models.Video
	for _, v := range m.videos {
		if excluded[v.ID] {
			continue
		}
		if len(categories) > 0 {
			inCategory := categories[v.Category]
			if q.MinViews > 0 {
				inCategory = inCategory || v.ViewCount >= q.MinViews
			}
			if !inCategory {
				continue
			}
		}
		if q.MaxDurationSeconds > 0 && v.DurationSeconds > q.MaxDurationSeconds {
			continue
		}
		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Order {
		case models.OrderPopularity:
			if a.ViewCount != b.ViewCount {
				return a.ViewCount > b.ViewCount
			}
			return a.LikeCount > b.LikeCount
		case models.OrderLikes:
			return a.LikeCount > b.LikeCount
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *mockCatalog) QueryExternalVideos(_ context.Context, q models.ExternalQuery) ([]models.ExternalVideo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.ExternalVideo
	for _, v := range m.external {
		if q.Subject != "" && !strings.EqualFold(v.Subject, q.Subject) {
			continue
		}
		out = append(out, v)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *mockCatalog) recorded() []models.CatalogQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CatalogQuery(nil), m.queries...)
}

type mockUsers struct {
	users map[string]*models.User
}

func (m *mockUsers) GetUser(_ context.Context, userID string) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return u, nil
}

type mockHistory struct {
	entries []models.HistoryEntry
	err     error
}

func (m *mockHistory) Recent(_ context.Context, _ string, limit int) ([]models.HistoryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries[:min(limit, len(m.entries))], nil
}

var errCatalogDown = errors.New("catalog down")

type testEnv struct {
	svc         *Service
	engagements *mockEngagements
	catalog     *mockCatalog
	users       *mockUsers
	history     *mockHistory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		engagements: &mockEngagements{session: map[string][]models.EngagementEvent{}},
		catalog:     &mockCatalog{},
		users: &mockUsers{users: map[string]*models.User{
			"user-1": {ID: "user-1", Username: "one", Interests: []string{"math"}},
		}},
		history: &mockHistory{},
	}
	svc, err := NewService(DefaultConfig(), Deps{
		Engagements: env.engagements,
		Videos:      env.catalog,
		External:    env.catalog,
		Users:       env.users,
		History:     env.history,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	svc.SetRandSource(fixedRand{v: 0})
	svc.SetClock(func() time.Time { return testNow })
	env.svc = svc
	return env
}

// video builds an uploaded video created daysAgo before testNow.
func video(id, category string, views, likes int64, duration float64, daysAgo int) models.Video {
	return models.Video{
		ID:              id,
		Title:           id,
		Category:        category,
		DurationSeconds: duration,
		Status:          models.VideoStatusActive,
		ViewCount:       views,
		LikeCount:       likes,
		CreatedAt:       testNow.AddDate(0, 0, -daysAgo),
	}
}

// sessionEvents builds newest-first events spaced gap apart.
func sessionEvents(gap time.Duration, completion []float64, scores []float64, skipped []bool) []models.EngagementEvent {
	events := make([]models.EngagementEvent, len(completion))
	for i := range completion {
		e := models.EngagementEvent{
			ID:             fmt.Sprintf("e%d", i),
			VideoID:        fmt.Sprintf("watched-%d", i),
			CompletionRate: completion[i],
			CreatedAt:      testNow.Add(-time.Duration(i) * gap),
		}
		if scores != nil {
			e.EngagementScore = scores[i]
		}
		if skipped != nil && skipped[i] {
			at := 1.0
			e.SkippedAtSeconds = &at
		}
		events[i] = e
	}
	return events
}
