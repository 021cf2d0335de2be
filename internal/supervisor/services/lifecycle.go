// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package services

import (
	"context"
	"time"
)

// DefaultShutdownTimeout bounds the drain of a service whose constructor
// got no positive timeout.
const DefaultShutdownTimeout = 10 * time.Second

func shutdownTimeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultShutdownTimeout
	}
	return d
}

// drain runs stop with a fresh context bounded by timeout. The Serve
// context is already cancelled when a service drains.
func drain(timeout time.Duration, stop func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return stop(ctx)
}
