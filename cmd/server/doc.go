// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

/*
Command server runs the shoprec recommendation service.

Shoprec recommends grocery products from purchase history. A user-based
collaborative filter ranks products bought by similar users; a popularity
ranking covers new users and empty neighborhoods. Orders flow in through the
HTTP API and are turned into update_recommendations tasks that a JetStream
worker processes to keep the stored recommendations consistent.

# Process Layout

	shoprec (root)
	├── model-layer
	│   └── retrain-scheduler
	├── queue-layer
	│   ├── nats-components (embedded server, stream, connections)
	│   └── recommendation-worker
	└── api-layer
	    └── http-server

Initialization order:

 1. Configuration: koanf v2 from defaults, config file and environment
 2. Logging: zerolog, bridged to slog for sutureslog
 3. Database: DuckDB schema, optional demo seed
 4. Recommendation: engine, popularity cache (redis, badger, memory or none) and service
 5. Task queue (optional): embedded NATS, stream, publisher, subscriber and worker
 6. Health: database required; cache, broker and worker optional
 7. HTTP: chi router with CORS, rate limiting and Prometheus metrics
 8. Supervisor tree

# Configuration

	# Server
	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Storage
	DUCKDB_PATH=/data/shoprec.duckdb
	SEED_DEMO_DATA=false

	# Popularity cache
	CACHE_BACKEND=memory         # redis, badger, memory, none
	REDIS_ADDR=127.0.0.1:6379

	# Task queue
	NATS_ENABLED=true
	NATS_EMBEDDED=true
	NATS_URL=nats://127.0.0.1:4222

	# Training
	RECOMMEND_TRAIN_ON_STARTUP=true
	RECOMMEND_TRAIN_INTERVAL=0   # 0 disables scheduled retraining

The config package documents every variable.

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for up
to 10s, the worker finishes or nacks its current task and the broker
connections and embedded server are closed last.
*/
package main
