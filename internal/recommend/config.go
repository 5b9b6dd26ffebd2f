// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the ranking service.
type Config struct {
	// PreferenceWindow is how many recent events feed the preference profile.
	PreferenceWindow int

	// ExcludeWindow is how many recent events form the exclude set.
	ExcludeWindow int

	DefaultCount int
	MaxCount     int

	// CandidateCap bounds every composer catalog read.
	CandidateCap int

	MaxEntertainmentShare   float64
	EntertainmentMinViews   int64
	RecoveryMaxDuration     float64
	EntertainmentCategories []string
	RecoveryCategories      []string

	Disengagement DisengagementConfig
	Feed          FeedConfig

	// Seed fixes the shuffle and jitter source. 0 seeds from the clock.
	Seed int64

	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// DisengagementConfig holds the detector policy. Every clause is additive.
type DisengagementConfig struct {
	Window    int
	MinEvents int

	VeryLowCompletion       float64
	VeryLowCompletionWeight float64
	LowCompletion           float64
	LowCompletionWeight     float64
	SkipRate                float64
	SkipRateWeight          float64
	LowEngagement           float64
	LowEngagementWeight     float64
	RapidScrollSeconds      float64
	RapidScrollWeight       float64

	// Threshold is the severity above which a session is disengaging.
	Threshold float64
}

// FeedConfig holds the unified feed settings.
type FeedConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	UploadedCap     int
	ExternalCap     int
	ViewedPenalty   float64
	MaxJitter       float64
	ViewedWindow    int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		PreferenceWindow:        50,
		ExcludeWindow:           30,
		DefaultCount:            10,
		MaxCount:                50,
		CandidateCap:            200,
		MaxEntertainmentShare:   0.7,
		EntertainmentMinViews:   1000,
		RecoveryMaxDuration:     180,
		EntertainmentCategories: []string{"art", "music", "sports", "cooking"},
		RecoveryCategories:      []string{"education", "science", "history"},
		Disengagement:           DefaultDisengagementConfig(),
		Feed: FeedConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			UploadedCap:     200,
			ExternalCap:     200,
			ViewedPenalty:   0.3,
			MaxJitter:       5,
			ViewedWindow:    200,
		},
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	}
}

// DefaultDisengagementConfig returns the default detector policy.
func DefaultDisengagementConfig() DisengagementConfig {
	return DisengagementConfig{
		Window:                  5,
		MinEvents:               3,
		VeryLowCompletion:       20,
		VeryLowCompletionWeight: 40,
		LowCompletion:           40,
		LowCompletionWeight:     20,
		SkipRate:                0.6,
		SkipRateWeight:          30,
		LowEngagement:           30,
		LowEngagementWeight:     20,
		RapidScrollSeconds:      10,
		RapidScrollWeight:       10,
		Threshold:               30,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.PreferenceWindow <= 0 {
		return fmt.Errorf("preference window must be positive, got %d", c.PreferenceWindow)
	}
	if c.ExcludeWindow < 0 {
		return fmt.Errorf("exclude window must be non-negative, got %d", c.ExcludeWindow)
	}
	if c.DefaultCount <= 0 || c.DefaultCount > c.MaxCount {
		return fmt.Errorf("default count must be in [1, %d], got %d", c.MaxCount, c.DefaultCount)
	}
	if c.CandidateCap <= 0 {
		return fmt.Errorf("candidate cap must be positive, got %d", c.CandidateCap)
	}
	if c.MaxEntertainmentShare < 0 || c.MaxEntertainmentShare > 1 {
		return fmt.Errorf("max entertainment share must be in [0, 1], got %v", c.MaxEntertainmentShare)
	}

	d := c.Disengagement
	if d.Window <= 0 || d.MinEvents <= 0 || d.MinEvents > d.Window {
		return fmt.Errorf("disengagement window %d and min events %d are inconsistent", d.Window, d.MinEvents)
	}
	if d.VeryLowCompletion > d.LowCompletion {
		return fmt.Errorf("very low completion (%v) must not exceed low completion (%v)", d.VeryLowCompletion, d.LowCompletion)
	}

	f := c.Feed
	if f.DefaultPageSize <= 0 || f.DefaultPageSize > f.MaxPageSize {
		return fmt.Errorf("default page size must be in [1, %d], got %d", f.MaxPageSize, f.DefaultPageSize)
	}
	if f.UploadedCap <= 0 || f.ExternalCap <= 0 {
		return fmt.Errorf("feed candidate caps must be positive")
	}
	if f.ViewedPenalty < 0 || f.ViewedPenalty > 1 {
		return fmt.Errorf("viewed penalty must be in [0, 1], got %v", f.ViewedPenalty)
	}
	if f.MaxJitter < 0 {
		return fmt.Errorf("max jitter must be non-negative, got %v", f.MaxJitter)
	}
	return nil
}
