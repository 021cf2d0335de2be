// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package eventprocessor

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shoprec/internal/health"
	"github.com/tomtom215/shoprec/internal/metrics"
)

// Publisher sends recommendation tasks. Publishing goes through an optional
// circuit breaker and every message carries a Nats-Msg-Id so JetStream can
// drop duplicates.
type Publisher struct {
	backend message.Publisher
	breaker *gobreaker.CircuitBreaker[interface{}]
	closed  atomic.Bool
}

// NewPublisher dials NATS and publishes to the pre-declared task stream.
func NewPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	backend, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL: cfg.URL,
		NatsOptions: append(
			connectionOptions("publisher", cfg.MaxReconnects, cfg.ReconnectWait, logger),
			natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		),
		Marshaler: &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			// declared by TaskStream
			AutoProvision: false,
			TrackMsgId:    cfg.EnableTrackMsgID,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}
	return NewPublisherFrom(backend), nil
}

// NewPublisherFrom wraps any watermill publisher, such as the gochannel
// pub/sub used in tests and in NATS-less setups.
func NewPublisherFrom(backend message.Publisher) *Publisher {
	return &Publisher{backend: backend}
}

// SetCircuitBreaker guards subsequent publishes with cb.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.breaker = cb
}

// Publish sends msg to topic. A missing Nats-Msg-Id is filled from the
// message UUID.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}
	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}
	msg.SetContext(ctx)

	send := func() (interface{}, error) { return nil, p.backend.Publish(topic, msg) }
	var err error
	if p.breaker != nil {
		_, err = p.breaker.Execute(send)
	} else {
		_, err = send()
	}
	metrics.RecordNATSPublish(topic, err)
	return err
}

// PublishTask validates and publishes task. The task id becomes the message
// UUID, so republishing the same task inside the stream's duplicate window
// is a no-op.
func (p *Publisher) PublishTask(ctx context.Context, topic string, task *RecommendationTask) error {
	data, err := MarshalTask(task)
	if err != nil {
		return err
	}

	msg := message.NewMessage(task.TaskID, data)
	msg.Metadata.Set(MetadataTaskType, task.TaskType)
	msg.Metadata.Set(MetadataUserID, strconv.FormatInt(task.UserID, 10))

	if err := p.Publish(ctx, topic, msg); err != nil {
		return fmt.Errorf("publish task %s: %w", task.TaskID, err)
	}
	metrics.RecordTaskPublished()
	return nil
}

// Close closes the backend once. Later publishes fail with ErrPublisherClosed.
func (p *Publisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.backend.Close()
}

// HealthCheck is unhealthy once closed or while the breaker is open, and
// degraded while it is half-open.
func (p *Publisher) HealthCheck(_ context.Context) health.ComponentHealth {
	if p.closed.Load() {
		return health.ComponentHealth{Healthy: false, Error: "publisher is closed"}
	}
	if p.breaker == nil {
		return health.ComponentHealth{Healthy: true, Message: "publisher is operational"}
	}

	state := p.breaker.State()
	details := map[string]interface{}{"circuit_breaker_state": state.String()}
	switch state {
	case gobreaker.StateOpen:
		return health.ComponentHealth{Healthy: false, Error: "circuit breaker is open", Details: details}
	case gobreaker.StateHalfOpen:
		return health.ComponentHealth{Healthy: true, Degraded: true, Message: "circuit breaker is half-open", Details: details}
	default:
		return health.ComponentHealth{Healthy: true, Message: "publisher is operational", Details: details}
	}
}
