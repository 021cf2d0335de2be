// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

/*
Package cache provides the key-value cache in front of the popularity ranking.

# Overview

Every backend implements the byte-oriented Cache interface:

	Get(ctx, key) ([]byte, error)            // ErrCacheMiss when absent or expired
	SetEx(ctx, key, ttl, value) error
	Delete(ctx, key) error

Backends:
  - RedisCache: shared cache for multi-instance deployments (go-redis)
  - BadgerCache: embedded cache that survives restarts (BadgerDB)
  - MemoryCache: bounded LRU with per-entry TTL, for tests and single processes

BreakerCache wraps a remote backend with a gobreaker circuit breaker. While
the breaker is open, calls fail fast.

# Failure Semantics

A backend failure is never fatal. Every error other than ErrCacheMiss wraps
ErrCacheUnavailable, and callers respond by reading the durable fallback rows
instead:

	data, err := c.Get(ctx, key)
	switch {
	case err == nil:
	    // decode and serve
	case errors.Is(err, cache.ErrCacheMiss):
	    // compute and SetEx
	default:
	    // cache.ErrCacheUnavailable: use the durable store
	}

# Usage Example

	opened, err := cache.Open(ctx, cache.Config{Backend: cache.BackendRedis, Redis: redisCfg}, logger)
	if err != nil {
	    return err
	}
	defer opened.Close()
*/
package cache
