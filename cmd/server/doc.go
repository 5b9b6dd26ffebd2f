// Edufeed - Video Engagement Tracking and Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/edufeed

/*
Package main is the entry point for the Edufeed server.

Edufeed records per-session video engagement, derives preference profiles
and disengagement verdicts from it, and serves two feeds: a session-aware
recommendation list and a paginated unified feed that mixes uploaded and
external videos.

# Application Architecture

Long-running components run under a Suture v4 tree:

	RootSupervisor ("edufeed")
	├── DataSupervisor ("data-layer")
	│   └── Embedded NATS broker (optional)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event router (stats refresh, history append)
	│   └── Reconcile scheduler (optional)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB engagement store and catalogs
 4. History: BadgerDB viewing-history log
 5. Events: Watermill transport (in-process channel or NATS)
 6. Engagement recorder and recommendation service
 7. HTTP server: Chi router with the middleware stack
 8. Supervisor tree

# Configuration

Common environment variables:

	DUCKDB_PATH          database file (default ./data/edufeed.duckdb)
	HISTORY_PATH         BadgerDB directory
	EVENTS_TRANSPORT     channel or nats
	NATS_URL             external broker URL
	NATS_EMBEDDED        run an in-process broker
	RECONCILE_ENABLED    periodic stats reconciliation
	JWT_SECRET           enables bearer-token identity (32+ characters)
	SEED_MOCK_DATA       seed demo users and videos

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
server (draining in-flight requests), the event router and the scheduler;
the stores are closed after the tree has stopped.
*/
package main
