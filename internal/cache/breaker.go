// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/shoprec/internal/metrics"
)

// BreakerConfig configures the circuit breaker around a remote cache.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "cache",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerCache guards a Cache with a circuit breaker. While the breaker is
// open every call fails fast with ErrCacheUnavailable. Misses count as
// successes.
type BreakerCache struct {
	next Cache
	cb   *gobreaker.CircuitBreaker[[]byte]
}

// NewBreakerCache wraps next.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerCache(next Cache, cfg BreakerConfig, logger zerolog.Logger) *BreakerCache {
	log := logger.With().Str("component", "cache_breaker").Str("breaker", cfg.Name).Logger()

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCacheBreakerState(name, int(to))
			log.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("cache circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCacheMiss)
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
	}
	metrics.SetCacheBreakerState(cfg.Name, int(gobreaker.StateClosed))

	return &BreakerCache{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// Get returns the value stored at key.
func (b *BreakerCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := b.cb.Execute(func() ([]byte, error) {
		return b.next.Get(ctx, key)
	})
	return value, b.translate(err)
}

// SetEx stores value at key for ttl.
func (b *BreakerCache) SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.SetEx(ctx, key, ttl, value)
	})
	return b.translate(err)
}

// Delete removes key.
func (b *BreakerCache) Delete(ctx context.Context, key string) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.next.Delete(ctx, key)
	})
	return b.translate(err)
}

// State returns the breaker state as a string for monitoring.
func (b *BreakerCache) State() string {
	return b.cb.State().String()
}

func (b *BreakerCache) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return unavailable("breaker "+b.cb.Name(), err)
	}
	return err
}
