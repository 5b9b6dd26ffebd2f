// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

// Package supervisor runs the process's services under a suture v4 tree.
//
// The tree has three layers, each its own supervisor so a failing layer
// backs off without taking the others down:
//
//	edufeed (root)
//	├── data-layer       embedded NATS broker
//	├── messaging-layer  event router, reconcile scheduler
//	└── api-layer        HTTP server
//
// Supervisor events (restarts, backoff, timeouts) are logged through
// sutureslog over the zerolog-backed slog handler.
package supervisor
