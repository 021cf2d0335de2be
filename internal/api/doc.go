// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

/*
Package api provides the HTTP ops API for Shoprec.

Routes:

	GET    /api/v1/recommendations/{userID}           ranked products (model_kind, count, use_cache, exclude)
	POST   /api/v1/recommendations/{userID}/generate  retrain and persist fresh recommendations
	DELETE /api/v1/recommendations/{userID}/cache     invalidate cached recommendations
	POST   /api/v1/recommendations/retrain            retrain the model
	GET    /api/v1/model/stats                        stats of the current model
	POST   /api/v1/orders                             place an order and enqueue an update task
	POST   /api/v1/tasks                              enqueue a raw recommendation task
	GET    /health, /health/live                      aggregated and liveness health
	GET    /metrics                                   Prometheus metrics

Responses use the APIResponse envelope:

	{"success": true, "data": [...], "meta": {"request_id": "...", "timestamp": "..."}}

Errors map to status codes as follows: unsupported model kinds and
validation failures are 400, a training already in progress is 409, and a
missing model, missing interaction data or a disabled task queue is 503.

There is no authentication. The API is meant for internal networks and is
protected by CORS and IP rate limiting only.
*/
package api
