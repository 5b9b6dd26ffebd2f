// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

package recommend

import (
	"strings"

	"github.com/tomtom215/edufeed/internal/models"
)

// NormalizeUploaded projects an uploaded video onto the candidate shape.
func NormalizeUploaded(v *models.Video) models.Candidate {
	return models.Candidate{
		ID:                    v.ID,
		Title:                 v.Title,
		Category:              normalizeCategory(v.Category),
		DurationSeconds:       v.DurationSeconds,
		PublishedAt:           v.CreatedAt,
		ViewCount:             v.ViewCount,
		LikeCount:             v.LikeCount,
		CommentCount:          v.CommentCount,
		AverageCompletionRate: v.AverageCompletionRate,
		Source:                models.SourceUploaded,
	}
}

// NormalizeExternal projects an external video onto the candidate shape.
// The subject becomes the category; likes, comments and completion are
// unknown and read as zero.
func NormalizeExternal(v *models.ExternalVideo) models.Candidate {
	return models.Candidate{
		ID:              v.ID,
		Title:           v.Title,
		Category:        normalizeCategory(v.Subject),
		DurationSeconds: v.DurationSeconds,
		PublishedAt:     v.PublishedAt,
		ViewCount:       v.ViewCount,
		Source:          models.SourceExternal,
	}
}

func normalizeUploadedAll(videos []models.Video) []models.Candidate {
	out := make([]models.Candidate, len(videos))
	for i := range videos {
		out[i] = NormalizeUploaded(&videos[i])
	}
	return out
}

func normalizeExternalAll(videos []models.ExternalVideo) []models.Candidate {
	out := make([]models.Candidate, len(videos))
	for i := range videos {
		out[i] = NormalizeExternal(&videos[i])
	}
	return out
}

// interestSet lowercases and dedupes interests.
func interestSet(interests []string) map[string]struct{} {
	set := make(map[string]struct{}, len(interests))
	for _, i := range interests {
		i = strings.ToLower(strings.TrimSpace(i))
		if i != "" {
			set[i] = struct{}{}
		}
	}
	return set
}
