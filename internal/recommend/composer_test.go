// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/edufeed/internal/models"
)

func TestEntertainmentQuota(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		severity float64
		want     int
	}{
		{"severity seventy", 10, 70, 7},
		{"capped at seventy percent", 10, 100, 7},
		{"forty percent", 10, 40, 4},
		{"floors", 7, 50, 3},
		{"zero severity", 10, 0, 0},
		{"single slot", 1, 60, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntertainmentQuota(tt.n, tt.severity, 0.7); got != tt.want {
				t.Errorf("EntertainmentQuota(%d, %v) = %d, want %d", tt.n, tt.severity, got, tt.want)
			}
		})
	}
}

// recoveryCatalog has plenty of entertainment and recovery material.
func recoveryCatalog() []models.Video {
	var videos []models.Video
	for i, c := range []string{"art", "music", "sports", "cooking"} {
		for j := 0; j < 3; j++ {
			videos = append(videos, video(fmt.Sprintf("fun-%s-%d", c, j), c, int64(500+100*i+j), int64(10+j), 400, j+1))
		}
	}
	for i, c := range []string{"education", "science", "history"} {
		for j := 0; j < 3; j++ {
			videos = append(videos, video(fmt.Sprintf("learn-%s-%d", c, j), c, 50, int64(100-10*i-j), 120, j+1))
		}
	}
	// Long recovery material must never be picked.
	videos = append(videos, video("learn-long", "education", 50, 1000, 900, 1))
	return videos
}

// severitySeventySession fires very-low-completion and excessive-skipping only.
func severitySeventySession() []models.EngagementEvent {
	return sessionEvents(time.Minute,
		[]float64{10, 10, 10, 10, 10},
		[]float64{40, 40, 40, 40, 40},
		[]bool{true, true, true, true, false},
	)
}

func TestRecommendRecoveryMix(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.videos = recoveryCatalog()
	env.engagements.session["s1"] = severitySeventySession()

	feed, err := env.svc.Recommend(context.Background(), "user-1", "s1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if !feed.Disengagement.IsDisengaging || feed.Disengagement.Severity != 70 {
		t.Fatalf("Disengagement = %+v, want disengaging with severity 70", feed.Disengagement)
	}
	if feed.ContentMix.Mode != ModeRecovery {
		t.Errorf("Mode = %q, want %q", feed.ContentMix.Mode, ModeRecovery)
	}
	if feed.ContentMix.EntertainmentQuota != 7 || feed.ContentMix.RecoveryQuota != 3 {
		t.Errorf("quotas = %d/%d, want 7/3", feed.ContentMix.EntertainmentQuota, feed.ContentMix.RecoveryQuota)
	}
	if len(feed.Videos) != 10 {
		t.Fatalf("len(Videos) = %d, want 10", len(feed.Videos))
	}

	reasons := map[string]int{}
	for _, v := range feed.Videos {
		reasons[v.Reason]++
		if v.ID == "learn-long" {
			t.Errorf("recovery mix picked a video longer than the limit")
		}
	}
	if reasons[reasonEntertainment] != 7 || reasons[reasonRecovery] != 3 {
		t.Errorf("reasons = %v, want 7 entertainment and 3 recovery", reasons)
	}

	queries := env.catalog.recorded()
	if len(queries) != 2 {
		t.Fatalf("catalog queries = %d, want 2", len(queries))
	}
	if queries[0].Order != models.OrderPopularity || queries[0].MinViews != 1000 {
		t.Errorf("entertainment query = %+v, want popularity order with min views 1000", queries[0])
	}
	if queries[1].Order != models.OrderLikes || queries[1].MaxDurationSeconds != 180 {
		t.Errorf("recovery query = %+v, want likes order with max duration 180", queries[1])
	}
	if len(queries[1].ExcludeIDs) != 7 {
		t.Errorf("recovery query excludes %d ids, want the 7 entertainment picks", len(queries[1].ExcludeIDs))
	}
}

func TestRecommendPreferenceMix(t *testing.T) {
	env := newTestEnv(t)
	var videos []models.Video
	for _, c := range []string{"math", "art", "coding"} {
		for j := 0; j < 10; j++ {
			videos = append(videos, video(fmt.Sprintf("%s-%d", c, j), c, int64(100*j), int64(j), 300, j))
		}
	}
	env.catalog.videos = videos

	// 60/40 split between math and art; math-0 was just watched.
	env.engagements.all = []models.EngagementEvent{
		{VideoID: "math-0", Category: "math", EngagementScore: 60},
		{VideoID: "art-9", Category: "art", EngagementScore: 40},
	}

	feed, err := env.svc.Recommend(context.Background(), "user-1", "s1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if feed.ContentMix.Mode != ModePreference {
		t.Errorf("Mode = %q, want %q", feed.ContentMix.Mode, ModePreference)
	}
	if feed.ContentMix.CategoryQuotas["math"] != 6 || feed.ContentMix.CategoryQuotas["art"] != 4 {
		t.Errorf("CategoryQuotas = %v, want math=6 art=4", feed.ContentMix.CategoryQuotas)
	}
	if feed.ContentMix.TrendingFill != 0 {
		t.Errorf("TrendingFill = %d, want 0", feed.ContentMix.TrendingFill)
	}
	if len(feed.Videos) != 10 {
		t.Fatalf("len(Videos) = %d, want 10", len(feed.Videos))
	}

	seen := map[string]bool{}
	for _, v := range feed.Videos {
		if v.ID == "math-0" || v.ID == "art-9" {
			t.Errorf("recently watched %s was recommended", v.ID)
		}
		if seen[v.ID] {
			t.Errorf("duplicate %s", v.ID)
		}
		seen[v.ID] = true
	}
	for i := 1; i < len(feed.Videos); i++ {
		if feed.Videos[i].Score > feed.Videos[i-1].Score {
			t.Fatalf("Videos not sorted by predicted score at %d", i)
		}
	}
}

func TestRecommendTrendingFill(t *testing.T) {
	env := newTestEnv(t)
	// Only one math video exists, so the rest must come from trending.
	env.catalog.videos = []models.Video{
		video("math-only", "math", 10, 1, 300, 1),
		video("hit-1", "cooking", 9000, 50, 300, 10),
		video("hit-2", "sports", 8000, 40, 300, 10),
		video("hit-3", "music", 7000, 30, 300, 10),
	}
	env.engagements.all = []models.EngagementEvent{{VideoID: "old", Category: "math", EngagementScore: 50}}

	feed, err := env.svc.Recommend(context.Background(), "user-1", "", 4)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if feed.ContentMix.TrendingFill != 3 {
		t.Errorf("TrendingFill = %d, want 3", feed.ContentMix.TrendingFill)
	}
	if len(feed.Videos) != 4 {
		t.Errorf("len(Videos) = %d, want 4", len(feed.Videos))
	}
}

// Candidates with equal predicted scores keep the shuffled order, since the
// sort is stable and runs after the shuffle.
func TestRecommendShufflesPoolBeforeSort(t *testing.T) {
	setup := func(env *testEnv) {
		env.catalog.videos = []models.Video{
			video("math-a", "math", 100, 10, 300, 1),
			video("math-b", "math", 100, 10, 300, 2),
			video("math-c", "math", 100, 10, 300, 3),
		}
		env.engagements.all = []models.EngagementEvent{{VideoID: "old", Category: "math", EngagementScore: 50}}
	}
	ids := func(feed *RecommendedFeed) []string {
		out := make([]string, len(feed.Videos))
		for i, v := range feed.Videos {
			out[i] = v.ID
		}
		return out
	}

	base := newTestEnv(t)
	setup(base)
	baseline, err := base.svc.Recommend(context.Background(), "user-1", "s1", 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	want := ids(baseline)
	if len(want) != 3 {
		t.Fatalf("baseline returned %d videos, want 3", len(want))
	}
	for i, j := 0, len(want)-1; i < j; i, j = i+1, j-1 {
		want[i], want[j] = want[j], want[i]
	}

	env := newTestEnv(t)
	setup(env)
	rng := &reversingRand{}
	env.svc.SetRandSource(rng)
	feed, err := env.svc.Recommend(context.Background(), "user-1", "s1", 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if len(rng.shuffled) != 1 || rng.shuffled[0] != 3 {
		t.Errorf("Shuffle calls = %v, want one call over the 3-item pool", rng.shuffled)
	}
	if got := ids(feed); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want shuffled order %v", got, want)
	}
}

func TestRecommendNewUserUsesDefaultProfile(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.videos = []models.Video{video("edu-1", "education", 10, 1, 100, 1)}

	feed, err := env.svc.Recommend(context.Background(), "user-1", "s1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if feed.Preferences["education"] != 0.30 {
		t.Errorf("Preferences = %v, want default profile", feed.Preferences)
	}
	if feed.ContentMix.CategoryQuotas["education"] != 3 {
		t.Errorf("education quota = %d, want 3", feed.ContentMix.CategoryQuotas["education"])
	}
	if len(feed.Videos) != 1 {
		t.Errorf("len(Videos) = %d, want 1 (catalog only has one video)", len(feed.Videos))
	}
}

func TestRecommendErrors(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		count   int
		wantErr error
	}{
		{"unknown user", "ghost", 10, models.ErrNotFound},
		{"empty user", "", 10, models.ErrValidation},
		{"negative count", "user-1", -1, models.ErrValidation},
		{"count above max", "user-1", 51, models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.svc.Recommend(context.Background(), tt.userID, "s1", tt.count)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Recommend() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecommendDegradedCatalog(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.err = errCatalogDown

	feed, err := env.svc.Recommend(context.Background(), "user-1", "s1", 5)
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if len(feed.Videos) != 0 {
		t.Errorf("len(Videos) = %d, want 0", len(feed.Videos))
	}
}

func TestRecommendDefaultCount(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 30; i++ {
		env.catalog.videos = append(env.catalog.videos, video(fmt.Sprintf("v-%d", i), "other", int64(i), 0, 60, i))
	}

	feed, err := env.svc.Recommend(context.Background(), "user-1", "s1", 0)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(feed.Videos) != DefaultConfig().DefaultCount {
		t.Errorf("len(Videos) = %d, want %d", len(feed.Videos), DefaultConfig().DefaultCount)
	}
}

func TestPredictDisengagedBonuses(t *testing.T) {
	env := newTestEnv(t)
	prefs := Preferences{"art": 0.5}
	entertainment := toSet(env.svc.cfg.EntertainmentCategories)

	short := models.Candidate{Category: "art", DurationSeconds: 120, ViewCount: 1, LikeCount: 1}
	long := models.Candidate{Category: "art", DurationSeconds: 600, ViewCount: 1, LikeCount: 1}

	if got := env.svc.predict(&short, prefs, false, entertainment); got != 65 {
		t.Errorf("predict(engaged) = %v, want 65", got)
	}
	if got := env.svc.predict(&short, prefs, true, entertainment); got != 85 {
		t.Errorf("predict(disengaged short) = %v, want 85", got)
	}
	if got := env.svc.predict(&long, prefs, true, entertainment); got != 75 {
		t.Errorf("predict(disengaged long) = %v, want 75", got)
	}
}
