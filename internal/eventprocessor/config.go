// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package eventprocessor

import (
	"fmt"
	"time"
)

// Default topics of the recommendation task stream.
const (
	DefaultTaskTopic       = "recommendations.tasks"
	DefaultDeadLetterTopic = "recommendations.dead_letter"
)

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns production defaults for embedded NATS server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   256 << 20, // 256MB
		JetStreamMaxStore: 1 << 30,   // 1GB
	}
}

// PublisherConfig holds publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns production defaults for publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds subscriber configuration.
type SubscriberConfig struct {
	URL         string
	DurableName string
	QueueGroup  string

	// SubscribersCount is kept at 1 by the worker: tasks are processed
	// one at a time so that retries of a user never interleave.
	SubscribersCount int

	// AckWaitTimeout must exceed the worker task timeout plus retry delay,
	// otherwise JetStream redelivers a task that is still running.
	AckWaitTimeout time.Duration

	// MaxDeliver bounds redeliveries at the server. The worker dead-letters
	// earlier, so this only matters when the worker is misconfigured.
	MaxDeliver    int
	MaxAckPending int
	CloseTimeout  time.Duration
	MaxReconnects int
	ReconnectWait time.Duration

	// StreamName binds the subscription to an existing stream created by
	// TaskStream instead of auto-provisioning one per topic.
	StreamName string
}

// DefaultSubscriberConfig returns production defaults for subscriber.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		DurableName:      "shoprec-worker",
		QueueGroup:       "shoprec-workers",
		SubscribersCount: 1,
		AckWaitTimeout:   5 * time.Minute,
		MaxDeliver:       10,
		MaxAckPending:    1,
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
	}
}

// Validate checks the subscriber configuration.
func (c *SubscriberConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: subscriber URL is required", ErrInvalidConfig)
	}
	if c.SubscribersCount < 1 {
		return fmt.Errorf("%w: subscribers count must be positive", ErrInvalidConfig)
	}
	if c.AckWaitTimeout <= 0 {
		return fmt.Errorf("%w: ack wait must be positive", ErrInvalidConfig)
	}
	return nil
}

// StreamConfig defines the recommendation task stream.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns production stream configuration. The stream
// holds both the task topic and the dead-letter topic.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:            "RECOMMENDATIONS",
		Subjects:        []string{"recommendations.>"},
		MaxAge:          7 * 24 * time.Hour,
		MaxBytes:        1 << 30, // 1GB
		MaxMsgs:         -1,      // Unlimited
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}
