// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - Recommendation requests by model kind and serving source
  - Training duration, failures and model size
  - Popularity cache hits, misses and durable fallbacks
  - Replace-wholesale persistence outcomes
  - Consistency worker ack, retry and dead-letter decisions
  - HTTP request latency and throughput
  - DuckDB query performance

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Usage

All collectors are registered with the default registry through promauto.
Call the Record* helpers rather than touching the collectors directly:

	metrics.RecordRecommendation("collaborative", "neighbors")
	metrics.RecordAPIRequest("GET", "/api/v1/recommendations/{userID}", "200", elapsed)
*/
package metrics
