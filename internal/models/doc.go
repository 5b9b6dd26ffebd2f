// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

/*
Package models holds the records shared across the service.

Persisted records:
  - EngagementEvent: one behavioral sample per (user, video, session)
  - Video: creator-uploaded catalog entry with rolling engagement aggregates
  - ExternalVideo: externally indexed catalog entry
  - User: profile slice with interest tags
  - HistoryEntry: one line of the bounded per-user viewing log

Per-request records:
  - Candidate / ScoredCandidate: canonical ranking shape for both catalogs
  - EngagementPatch: partial sample merged into the stored record

The error taxonomy (ErrNotFound, ErrValidation, ErrDegradedDependency) lives
here so the store, the ranking core and the API layer agree on it.
*/
package models
