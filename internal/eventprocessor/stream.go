// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// StreamManager is the part of jetstream.JetStream that declares streams.
type StreamManager interface {
	CreateOrUpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// TaskStream declares the stream carrying the task and dead-letter topics.
// Publishers and the subscriber bind to it instead of provisioning their own.
type TaskStream struct {
	js  StreamManager
	cfg StreamConfig
}

// NewTaskStream validates cfg. Nothing is sent to the server until Ensure.
func NewTaskStream(js StreamManager, cfg StreamConfig) (*TaskStream, error) {
	if js == nil {
		return nil, errors.New("jetstream is required")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: stream name is required", ErrInvalidConfig)
	}
	if len(cfg.Subjects) == 0 {
		return nil, fmt.Errorf("%w: stream %s has no subjects", ErrInvalidConfig, cfg.Name)
	}
	return &TaskStream{js: js, cfg: cfg}, nil
}

// Ensure creates the stream or brings an existing one in line with the
// configuration. It is idempotent and safe to call on every restart.
func (s *TaskStream) Ensure(ctx context.Context) (jetstream.Stream, error) {
	stream, err := s.js.CreateOrUpdateStream(ctx, s.jetStreamConfig())
	if err != nil {
		return nil, fmt.Errorf("declare stream %s: %w", s.cfg.Name, err)
	}
	return stream, nil
}

// Name returns the stream name.
func (s *TaskStream) Name() string {
	return s.cfg.Name
}

// Limits retention keeps dead letters readable after the worker acks the
// task that produced them; a work-queue stream would drop them.
func (s *TaskStream) jetStreamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       s.cfg.Name,
		Subjects:   s.cfg.Subjects,
		Retention:  jetstream.LimitsPolicy,
		Discard:    jetstream.DiscardOld,
		Storage:    jetstream.FileStorage,
		MaxAge:     s.cfg.MaxAge,
		MaxBytes:   s.cfg.MaxBytes,
		MaxMsgs:    s.cfg.MaxMsgs,
		Duplicates: s.cfg.DuplicateWindow,
		Replicas:   s.cfg.Replicas,
	}
}
