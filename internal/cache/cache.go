// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCacheMiss is returned by Get when the key is absent or expired.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable wraps every backend failure. Callers fall back to
	// the durable store when they see it.
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// Cache is a byte-oriented key-value cache with per-entry expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the value stored at key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetEx stores value at key for ttl.
	SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Backend selects a Cache implementation.
type Backend string

const (
	// BackendRedis stores entries in a Redis server.
	BackendRedis Backend = "redis"

	// BackendBadger stores entries in an embedded Badger database.
	BackendBadger Backend = "badger"

	// BackendMemory stores entries in process memory.
	BackendMemory Backend = "memory"

	// BackendNone disables caching. Readers go straight to the durable fallback.
	BackendNone Backend = "none"
)

// unavailable wraps err so that errors.Is(err, ErrCacheUnavailable) holds.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrCacheUnavailable, err)
}

// IsUnavailable reports whether err should trigger the durable fallback.
func IsUnavailable(err error) bool {
	return err != nil && !errors.Is(err, ErrCacheMiss)
}
