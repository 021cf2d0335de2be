// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

// Package testinfra starts containers for integration tests. Every file is
// behind the integration build tag:
//
//	go test -tags integration ./internal/cache/...
//
// A test asks for a server and gets back its address:
//
//	redis := testinfra.StartRedis(ctx, t)
//	c, err := cache.Open(ctx, cache.Config{Backend: cache.BackendRedis,
//	    Redis: cache.RedisConfig{Addr: redis.Addr}}, logger)
package testinfra
