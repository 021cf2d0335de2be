// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shoprec/internal/eventprocessor"
	"github.com/tomtom215/shoprec/internal/health"
	"github.com/tomtom215/shoprec/internal/metrics"
)

// Dead-letter metadata keys.
const (
	MetadataOriginalUUID  = "original_uuid"
	MetadataOriginalTopic = "original_topic"
	MetadataError         = "error"
	MetadataAttempts      = "attempts"
	MetadataFailedAt      = "failed_at"
)

// DeadLetterPublisher publishes exhausted tasks. It is satisfied by
// *eventprocessor.Publisher.
type DeadLetterPublisher interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
}

// Stats holds runtime counters of a worker.
type Stats struct {
	Processed    int64     `json:"processed"`
	Retried      int64     `json:"retried"`
	DeadLettered int64     `json:"dead_lettered"`
	Skipped      int64     `json:"skipped"`
	DLQFailed    int64     `json:"dlq_failed"`
	LastMessage  time.Time `json:"last_message,omitempty"`
}

// Worker consumes the task topic one message at a time.
type Worker struct {
	subscriber message.Subscriber
	deadLetter DeadLetterPublisher
	handler    *Handler
	cfg        Config
	logger     zerolog.Logger

	// retries is only touched by the consume loop.
	retries map[string]int

	running      atomic.Bool
	processed    atomic.Int64
	retried      atomic.Int64
	deadLettered atomic.Int64
	skipped      atomic.Int64
	dlqFailed    atomic.Int64
	lastMessage  atomic.Int64
}

// New creates a worker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(sub message.Subscriber, deadLetter DeadLetterPublisher, handler *Handler, cfg Config, logger zerolog.Logger) (*Worker, error) {
	if sub == nil {
		return nil, errors.New("subscriber is required")
	}
	if deadLetter == nil {
		return nil, errors.New("dead letter publisher is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid worker config: %w", err)
	}
	return &Worker{
		subscriber: sub,
		deadLetter: deadLetter,
		handler:    handler,
		cfg:        cfg,
		logger:     logger.With().Str("component", "worker").Logger(),
		retries:    make(map[string]int),
	}, nil
}

// Run consumes tasks until ctx is cancelled or the subscription closes.
// Handler errors never escape; they become ack, retry or dead-letter
// decisions.
func (w *Worker) Run(ctx context.Context) error {
	messages, err := w.subscriber.Subscribe(ctx, w.cfg.Topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", w.cfg.Topic, err)
	}

	w.running.Store(true)
	defer w.running.Store(false)

	w.logger.Info().
		Str("topic", w.cfg.Topic).
		Str("dead_letter_topic", w.cfg.DeadLetterTopic).
		Int("max_retries", w.cfg.MaxRetries).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("worker stopped")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				w.logger.Info().Msg("subscription closed, worker exiting")
				return nil
			}
			w.process(ctx, msg)
		}
	}
}

// process handles one message and settles it.
func (w *Worker) process(ctx context.Context, msg *message.Message) {
	start := time.Now()
	w.lastMessage.Store(start.UnixNano())

	result, taskType, err := w.execute(ctx, msg)
	if err == nil {
		delete(w.retries, msg.UUID)
		w.settleSuccess(msg, taskType, result, time.Since(start))
		return
	}

	metrics.RecordTask(taskType, "error", time.Since(start))

	attempts := w.retries[msg.UUID] + 1
	logEvent := w.logger.Warn().
		Err(err).
		Str("message_uuid", msg.UUID).
		Str("task_type", taskType).
		Int("attempt", attempts)

	if !IsPermanent(err) && attempts < w.cfg.MaxRetries {
		w.retries[msg.UUID] = attempts
		logEvent.Msg("task failed, scheduling retry")
		w.retry(ctx, msg)
		return
	}

	delete(w.retries, msg.UUID)
	logEvent.Bool("permanent", IsPermanent(err)).Msg("task failed, dead-lettering")
	w.sendToDeadLetter(ctx, msg, err, attempts)
	msg.Ack()
}

// execute decodes and runs the task under the task timeout. A handler panic
// is returned as an error.
func (w *Worker) execute(ctx context.Context, msg *message.Message) (result *Result, taskType string, err error) {
	taskType = msg.Metadata.Get(eventprocessor.MetadataTaskType)
	if taskType == "" {
		taskType = "unknown"
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	task, err := eventprocessor.UnmarshalTask(msg.Payload)
	if err != nil {
		return nil, taskType, Permanent(err)
	}
	taskType = task.TaskType

	taskCtx := ctx
	if w.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, w.cfg.TaskTimeout)
		defer cancel()
	}

	result, err = w.handler.Handle(taskCtx, task)
	return result, taskType, err
}

func (w *Worker) settleSuccess(msg *message.Message, taskType string, result *Result, elapsed time.Duration) {
	msg.Ack()
	metrics.RecordTask(taskType, result.Status, elapsed)

	if result.Status == StatusSkipped {
		w.skipped.Add(1)
		metrics.RecordWorkerOutcome(metrics.OutcomeSkipped)
	} else {
		w.processed.Add(1)
		metrics.RecordWorkerOutcome(metrics.OutcomeProcessed)
	}

	w.logger.Info().
		Str("message_uuid", msg.UUID).
		Str("task_type", taskType).
		Str("status", result.Status).
		Str("reason", result.Reason).
		Int64("user_id", result.UserID).
		Int64("order_id", result.OrderID).
		Ints64("ordered_products", result.OrderedProducts).
		Int("recommendations_updated", result.RecommendationsUpdated).
		Int("old_deleted", result.OldDeleted).
		Bool("model_retrained", result.ModelRetrained).
		Dur("duration", elapsed).
		Msg("task handled")
}

func (w *Worker) retry(ctx context.Context, msg *message.Message) {
	w.retried.Add(1)
	metrics.RecordWorkerOutcome(metrics.OutcomeRetried)

	if w.cfg.RetryDelay > 0 {
		timer := time.NewTimer(w.cfg.RetryDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}
	msg.Nack()
}

// sendToDeadLetter publishes the payload with failure metadata. A publish
// failure is logged with the payload since the original is acked anyway.
func (w *Worker) sendToDeadLetter(ctx context.Context, msg *message.Message, cause error, attempts int) {
	dead := message.NewMessage(uuid.New().String(), msg.Payload)
	for k, v := range msg.Metadata {
		dead.Metadata.Set(k, v)
	}
	dead.Metadata.Set(MetadataOriginalUUID, msg.UUID)
	dead.Metadata.Set(MetadataOriginalTopic, w.cfg.Topic)
	dead.Metadata.Set(MetadataError, cause.Error())
	dead.Metadata.Set(MetadataAttempts, strconv.Itoa(attempts))
	dead.Metadata.Set(MetadataFailedAt, time.Now().UTC().Format(time.RFC3339))
	// the copied task id would be deduplicated away
	dead.Metadata.Set(natsgo.MsgIdHdr, dead.UUID)

	// Publishing must not be cut short by shutdown.
	pubCtx := context.WithoutCancel(ctx)
	if err := w.deadLetter.Publish(pubCtx, w.cfg.DeadLetterTopic, dead); err != nil {
		w.dlqFailed.Add(1)
		metrics.RecordWorkerOutcome(metrics.OutcomeDLQFailed)
		w.logger.Error().
			Err(err).
			Str("message_uuid", msg.UUID).
			Str("payload", string(msg.Payload)).
			Str("cause", cause.Error()).
			Msg("failed to publish dead letter, task dropped")
		return
	}

	w.deadLettered.Add(1)
	metrics.RecordWorkerOutcome(metrics.OutcomeDeadLettered)
}

// Stats returns the worker counters.
func (w *Worker) Stats() Stats {
	var last time.Time
	if ns := w.lastMessage.Load(); ns != 0 {
		last = time.Unix(0, ns)
	}
	return Stats{
		Processed:    w.processed.Load(),
		Retried:      w.retried.Load(),
		DeadLettered: w.deadLettered.Load(),
		Skipped:      w.skipped.Load(),
		DLQFailed:    w.dlqFailed.Load(),
		LastMessage:  last,
	}
}

// IsRunning reports whether the consume loop is active.
func (w *Worker) IsRunning() bool {
	return w.running.Load()
}

// HealthCheck reports whether the worker is consuming.
func (w *Worker) HealthCheck(_ context.Context) health.ComponentHealth {
	stats := w.Stats()
	details := map[string]interface{}{
		"processed":     stats.Processed,
		"retried":       stats.Retried,
		"dead_lettered": stats.DeadLettered,
		"skipped":       stats.Skipped,
		"dlq_failed":    stats.DLQFailed,
	}
	if !stats.LastMessage.IsZero() {
		details["last_message"] = stats.LastMessage.Format(time.RFC3339)
	}

	if !w.IsRunning() {
		return health.ComponentHealth{
			Healthy: false,
			Error:   "worker is not running",
			Details: details,
		}
	}
	if stats.DLQFailed > 0 {
		return health.ComponentHealth{
			Healthy:  true,
			Degraded: true,
			Message:  "dead letters were lost",
			Details:  details,
		}
	}
	return health.ComponentHealth{
		Healthy: true,
		Message: "worker is consuming",
		Details: details,
	}
}
