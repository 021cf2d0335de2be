// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shoprec_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_recommendation_requests_total",
			Help: "Total recommendation requests by model kind and serving source",
		},
		[]string{"kind", "source"}, // source: snapshot, cache, fallback, neighbors, cold_start
	)

	RecommendationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_recommendation_errors_total",
			Help: "Total recommendation requests that failed",
		},
		[]string{"kind"},
	)

	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shoprec_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		},
	)

	TrainingErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shoprec_training_errors_total",
			Help: "Total number of failed training runs",
		},
	)

	ModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoprec_model_users",
			Help: "Number of users in the current model snapshot",
		},
	)

	ModelProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoprec_model_products",
			Help: "Number of products in the current model snapshot",
		},
	)

	ModelLastTrained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoprec_model_last_trained_timestamp",
			Help: "Unix timestamp of the last successful training run",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shoprec_popular_cache_hits_total",
			Help: "Total number of popularity cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shoprec_popular_cache_misses_total",
			Help: "Total number of popularity cache misses",
		},
	)

	CacheFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shoprec_popular_cache_fallbacks_total",
			Help: "Total number of reads served by the durable fallback because the cache was unavailable",
		},
	)

	CacheBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shoprec_cache_breaker_state",
			Help: "Cache circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Persistence Metrics
	PersistenceReplaces = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_persistence_replaces_total",
			Help: "Total replace-wholesale operations by model kind and outcome",
		},
		[]string{"kind", "status"},
	)

	PersistenceRowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shoprec_persistence_rows_written_total",
			Help: "Total recommendation rows inserted",
		},
	)

	// Worker Metrics
	WorkerMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_worker_messages_total",
			Help: "Total task messages handled by the consistency worker by outcome",
		},
		[]string{"outcome"}, // processed, retried, dead_lettered, skipped, dlq_failed
	)

	WorkerTaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shoprec_worker_task_duration_seconds",
			Help:    "Duration of task handling in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"task_type", "status"},
	)

	TasksPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shoprec_tasks_published_total",
			Help: "Total tasks published to the task topic",
		},
	)

	// NATS Metrics
	NATSPublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_nats_publishes_total",
			Help: "Total NATS publish attempts by topic and outcome",
		},
		[]string{"topic", "status"},
	)

	PublisherBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoprec_nats_publisher_breaker_state",
			Help: "NATS publisher circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoprec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shoprec_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shoprec_api_active_requests",
			Help: "Number of active API requests",
		},
	)
)

// Worker outcome labels.
const (
	OutcomeProcessed    = "processed"
	OutcomeRetried      = "retried"
	OutcomeDeadLettered = "dead_lettered"
	OutcomeSkipped      = "skipped"
	OutcomeDLQFailed    = "dlq_failed"
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordRecommendation records a served recommendation request.
func RecordRecommendation(kind, source string) {
	RecommendationRequests.WithLabelValues(kind, source).Inc()
}

// RecordRecommendationError records a failed recommendation request.
func RecordRecommendationError(kind string) {
	RecommendationErrors.WithLabelValues(kind).Inc()
}

// RecordTraining records a training run. Model gauges are only updated on success.
func RecordTraining(duration time.Duration, users, products int, err error) {
	TrainingDuration.Observe(duration.Seconds())
	if err != nil {
		TrainingErrors.Inc()
		return
	}
	ModelUsers.Set(float64(users))
	ModelProducts.Set(float64(products))
	ModelLastTrained.Set(float64(time.Now().Unix()))
}

// RecordCacheHit records a popularity cache hit.
func RecordCacheHit() {
	CacheHits.Inc()
}

// RecordCacheMiss records a popularity cache miss.
func RecordCacheMiss() {
	CacheMisses.Inc()
}

// RecordCacheFallback records a read served by the durable fallback.
func RecordCacheFallback() {
	CacheFallbacks.Inc()
}

// SetCacheBreakerState records the breaker state (0=closed, 1=half-open, 2=open).
func SetCacheBreakerState(name string, state int) {
	CacheBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordPersistence records a replace-wholesale operation.
func RecordPersistence(kind string, rows int, err error) {
	if err != nil {
		PersistenceReplaces.WithLabelValues(kind, "error").Inc()
		return
	}
	PersistenceReplaces.WithLabelValues(kind, "success").Inc()
	PersistenceRowsWritten.Add(float64(rows))
}

// RecordWorkerOutcome records the ack, retry or dead-letter decision for a message.
func RecordWorkerOutcome(outcome string) {
	WorkerMessages.WithLabelValues(outcome).Inc()
}

// RecordTask records how long a task took and its result status.
func RecordTask(taskType, status string, duration time.Duration) {
	WorkerTaskDuration.WithLabelValues(taskType, status).Observe(duration.Seconds())
}

// RecordTaskPublished records a task published to the task topic.
func RecordTaskPublished() {
	TasksPublished.Inc()
}

// RecordNATSPublish records a publish attempt to topic.
func RecordNATSPublish(topic string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	NATSPublishes.WithLabelValues(topic, status).Inc()
}

// SetPublisherBreakerState records the publisher breaker state.
func SetPublisherBreakerState(state int) {
	PublisherBreakerState.Set(float64(state))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
