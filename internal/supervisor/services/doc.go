// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

// Package services adapts the process's long-running components to
// suture.Service. Each wrapper translates one lifecycle shape into
// Serve(ctx) error:
//
//   - HTTPServerService: ListenAndServe / Shutdown
//   - EventRouterService: Run(ctx), rebuilt on every restart
//   - SchedulerService: Start / Stop
//   - BrokerService: Start / health poll / Shutdown
//
// Wrappers depend on small interfaces rather than concrete types so they
// are tested with mocks and do not import the wrapped packages.
package services
