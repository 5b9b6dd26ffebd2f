// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package database

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/tomtom215/edufeed/internal/logging"
	"github.com/tomtom215/edufeed/internal/models"
)

// SeedMockData fills an empty database with demo users and both catalogs.
// It is a no-op when any user already exists. Data is generated from a
// fixed seed so demo feeds are reproducible.
func (db *DB) SeedMockData(ctx context.Context) error {
	var existing int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&existing); err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if existing > 0 {
		logging.Info().Int("users", existing).Msg("Database already populated, skipping mock data")
		return nil
	}

	logging.Info().Msg("Seeding database with mock data...")

	const (
		videosPerCategory = 12
		externalPerTopic  = 8
		daysOfCatalog     = 60
	)

	rng := rand.New(rand.NewSource(20260101)) //nolint:gosec // demo data only
	now := time.Now().UTC()

	users := []struct {
		name      string
		interests []string
	}{
		{"alice", []string{"math", "coding"}},
		{"bob", []string{"science", "history"}},
		{"carmen", []string{"music", "art"}},
		{"dev", []string{"coding", "science"}},
		{"emma", []string{"education", "cooking"}},
		{"farid", []string{"sports"}},
		{"grace", nil},
	}
	for _, u := range users {
		user := &models.User{
			ID:        "user-" + u.name,
			Username:  u.name,
			Interests: u.interests,
			CreatedAt: now.AddDate(0, 0, -daysOfCatalog),
		}
		if err := db.UpsertUser(ctx, user); err != nil {
			return err
		}
	}

	categories := []string{
		"education", "science", "math", "coding", "history",
		"art", "music", "sports", "cooking", "other",
	}
	videoCount := 0
	for _, category := range categories {
		for i := 0; i < videosPerCategory; i++ {
			views := int64(rng.Intn(5000))
			v := &models.Video{
				ID:              fmt.Sprintf("vid-%s-%02d", category, i),
				Title:           fmt.Sprintf("%s lesson %d", titleCase(category), i+1),
				CreatorID:       users[rng.Intn(len(users))].name,
				Category:        category,
				DurationSeconds: float64(30 + rng.Intn(570)),
				ViewCount:       views,
				LikeCount:       views / int64(5+rng.Intn(20)),
				CommentCount:    views / int64(20+rng.Intn(60)),
				CreatedAt:       now.Add(-time.Duration(rng.Intn(daysOfCatalog*24)) * time.Hour),
			}
			if err := db.UpsertVideo(ctx, v); err != nil {
				return err
			}
			videoCount++
		}
	}

	topics := []struct {
		subject string
		channel string
	}{
		{"Calculus", "Open Math Lectures"},
		{"Computer Science", "Code Campus"},
		{"Physics", "Lab Notes"},
		{"World History", "Past Forward"},
		{"Music Theory", "Chord Atlas"},
	}
	externalCount := 0
	for _, topic := range topics {
		for i := 0; i < externalPerTopic; i++ {
			v := &models.ExternalVideo{
				ID:              fmt.Sprintf("ext-%s-%02d", strings.ReplaceAll(strings.ToLower(topic.subject), " ", "-"), i),
				Title:           fmt.Sprintf("%s explained, part %d", topic.subject, i+1),
				Channel:         topic.channel,
				Subject:         topic.subject,
				DurationSeconds: float64(120 + rng.Intn(1500)),
				ViewCount:       int64(rng.Intn(2_000_000)),
				PublishedAt:     now.Add(-time.Duration(rng.Intn(daysOfCatalog*24)) * time.Hour),
			}
			if err := db.UpsertExternalVideo(ctx, v); err != nil {
				return err
			}
			externalCount++
		}
	}

	logging.Info().
		Int("users", len(users)).
		Int("videos", videoCount).
		Int("external_videos", externalCount).
		Msg("Mock data seeded")
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
