// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

/*
Package config provides centralized configuration management for Shoprec.

Configuration is layered with Koanf v2:
  - Struct defaults (defaultConfig)
  - An optional YAML file (CONFIG_PATH, config.yaml, /etc/shoprec/config.yaml)
  - Environment variables mapped through an explicit table

Unknown environment variables are ignored.

# Sections

  - server: HTTP listen address and timeout (HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT)
  - database: DuckDB file and tuning (DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS)
  - cache: popularity cache backend (CACHE_BACKEND=redis|badger|memory|none, REDIS_ADDR, BADGER_PATH, POPULAR_CACHE_TTL)
  - nats: JetStream task transport (NATS_ENABLED, NATS_URL, NATS_EMBEDDED, NATS_TASK_TOPIC, NATS_DEAD_LETTER_TOPIC)
  - recommend: ranking constants and training schedule (RECOMMEND_NEIGHBORS, RECOMMEND_DEFAULT_COUNT, RECOMMEND_TRAIN_INTERVAL)
  - worker: retry and gating settings (WORKER_MAX_RETRIES, WORKER_RETRY_DELAY, WORKER_TASK_TIMEOUT)
  - logging: LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - security: CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Validation runs as part of Load and reports the environment variable name of
the first invalid setting.
*/
package config
