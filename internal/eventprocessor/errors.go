// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package eventprocessor

import "errors"

var (
	// ErrNATSNotEnabled means the task queue is not configured.
	ErrNATSNotEnabled = errors.New("NATS task processing not enabled")

	ErrPublisherClosed = errors.New("publisher is closed")
	ErrInvalidConfig   = errors.New("invalid configuration")

	// ErrInvalidTask wraps decode and validation failures of a task payload.
	ErrInvalidTask = errors.New("invalid task")
)
