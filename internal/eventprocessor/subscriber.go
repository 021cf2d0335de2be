// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
)

// Subscriber is the worker's durable JetStream consumer. It implements
// message.Subscriber. Acks are synchronous so an acked task is never
// redelivered, and a Nack triggers redelivery by the server.
type Subscriber struct {
	message.Subscriber
	config SubscriberConfig
}

// NewSubscriber creates the durable consumer described by cfg.
func NewSubscriber(cfg *SubscriberConfig, logger watermill.LoggerAdapter) (*Subscriber, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	// a stream declared by TaskStream is bound, otherwise watermill
	// provisions one per topic
	bind := cfg.StreamName != ""

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      connectionOptions("subscriber", cfg.MaxReconnects, cfg.ReconnectWait, logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision:    !bind,
			AckAsync:         false,
			DurablePrefix:    cfg.DurableName,
			SubscribeOptions: consumerOptions(cfg),
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create task subscriber: %w", err)
	}

	return &Subscriber{Subscriber: sub, config: *cfg}, nil
}

func consumerOptions(cfg *SubscriberConfig) []natsgo.SubOpt {
	opts := []natsgo.SubOpt{
		natsgo.DeliverAll(),
		natsgo.AckExplicit(),
		natsgo.AckWait(cfg.AckWaitTimeout),
		natsgo.MaxDeliver(cfg.MaxDeliver),
		natsgo.MaxAckPending(cfg.MaxAckPending),
	}
	if cfg.StreamName != "" {
		opts = append(opts, natsgo.BindStream(cfg.StreamName))
	}
	return opts
}

// connectionOptions are the reconnect settings shared by the publisher and
// the subscriber. role only labels the log records.
func connectionOptions(role string, maxReconnects int, wait time.Duration, logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name("shoprec-" + role),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(maxReconnects),
		natsgo.ReconnectWait(wait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("nats "+role+" disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("nats "+role+" reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

// Subscribe streams the messages of topic until ctx is cancelled or the
// subscriber is closed.
func (s *Subscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	msgs, err := s.Subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s as %s: %w", topic, s.config.DurableName, err)
	}
	return msgs, nil
}

// Config returns the configuration the subscriber was built with.
func (s *Subscriber) Config() SubscriberConfig {
	return s.config
}
