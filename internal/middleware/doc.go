// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

/*
Package middleware provides HTTP middleware for the ops API.

Key Components:

  - RequestID: request and correlation ids for structured logging
  - PrometheusMetrics: request counters, latency histograms and in-flight gauge

Both are chi-compatible (func(http.Handler) http.Handler):

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics labels requests with the matched chi route pattern rather
than the raw path, so /api/v1/recommendations/42 and /api/v1/recommendations/43
share one series. Unmatched requests are labelled "unmatched".
*/
package middleware
