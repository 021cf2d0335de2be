// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package services

import (
	"context"
	"errors"
	"fmt"
)

// TaskWorker consumes recommendation tasks until ctx is canceled.
// Satisfied by *worker.Worker.
type TaskWorker interface {
	Run(ctx context.Context) error
}

// WorkerService supervises the recommendation worker.
type WorkerService struct {
	worker TaskWorker
	name   string
}

// NewWorkerService wraps w.
func NewWorkerService(w TaskWorker) *WorkerService {
	return &WorkerService{worker: w, name: "recommendation-worker"}
}

// Serve implements suture.Service. A closed subscription ends Run without
// a cancellation; that is reported as an error so suture subscribes again.
func (s *WorkerService) Serve(ctx context.Context) error {
	err := s.worker.Run(ctx)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err == nil:
		return errors.New("task subscription closed")
	default:
		return fmt.Errorf("worker stopped: %w", err)
	}
}

// String implements fmt.Stringer.
func (s *WorkerService) String() string {
	return s.name
}
