// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package services

import (
	"context"
	"fmt"
	"time"
)

// NATSComponentsRunner is the lifecycle of the task queue: the optional
// embedded server, its connections and the task stream.
type NATSComponentsRunner interface {
	// Start (re)checks the task stream.
	Start(ctx context.Context) error
	// Shutdown stops the queue; later calls are no-ops.
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// NATSComponentsService keeps the task queue up while the queue layer runs.
// A failed Start is retried by the supervisor without a Shutdown in between.
type NATSComponentsService struct {
	components      NATSComponentsRunner
	shutdownTimeout time.Duration
}

// NewNATSComponentsService supervises components. A non-positive
// shutdownTimeout means DefaultShutdownTimeout.
func NewNATSComponentsService(components NATSComponentsRunner, shutdownTimeout time.Duration) *NATSComponentsService {
	return &NATSComponentsService{
		components:      components,
		shutdownTimeout: shutdownTimeoutOrDefault(shutdownTimeout),
	}
}

func (s *NATSComponentsService) Serve(ctx context.Context) error {
	if err := s.components.Start(ctx); err != nil {
		return fmt.Errorf("start task queue: %w", err)
	}

	<-ctx.Done()
	_ = drain(s.shutdownTimeout, func(dctx context.Context) error {
		s.components.Shutdown(dctx)
		return nil
	})
	return ctx.Err()
}

func (s *NATSComponentsService) String() string { return "nats-components" }
