// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package cache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Config holds configuration for creating a cache.
type Config struct {
	// Backend selects the implementation (redis, badger, memory or none).
	Backend Backend

	// Redis holds connection settings for the redis backend.
	Redis RedisConfig

	// BadgerPath is the directory of the badger backend. Empty means in-memory.
	BadgerPath string

	// MemoryCapacity bounds the memory backend.
	MemoryCapacity int

	// Breaker configures the circuit breaker around the redis backend.
	Breaker BreakerConfig
}

// Opened is a cache together with the function that releases it.
type Opened struct {
	Cache Cache
	Close func() error
}

// Open creates the configured cache. A nil Cache is returned for
// BackendNone so callers use the durable fallback.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*Opened, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case BackendRedis:
		rc, err := NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		breaker := cfg.Breaker
		if breaker.Name == "" {
			breaker.Name = "redis"
		}
		return &Opened{Cache: NewBreakerCache(rc, breaker, logger), Close: rc.Close}, nil

	case BackendBadger:
		bc, err := NewBadgerCache(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		return &Opened{Cache: bc, Close: bc.Close}, nil

	case BackendMemory:
		return &Opened{Cache: NewMemoryCache(cfg.MemoryCapacity), Close: noop}, nil

	case BackendNone, "":
		return &Opened{Cache: nil, Close: noop}, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
