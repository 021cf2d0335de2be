// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

// Package service serves recommendations on top of the recommend engine.
//
// It adds what the pure engine leaves out: lazy training, the product
// catalog lookup, the cached popularity list and the durable store the
// generated recommendations are written to.
//
// # Popularity
//
// Popular products are read through two tiers. The cache (redis, badger or
// memory) is consulted first and a miss is recomputed from the current
// snapshot and written back. When the cache is unavailable the rows stored
// under user 0 with kind "popular" are used instead. Every successful train
// rewrites whichever tier is reachable.
//
// # Persistence
//
// Collaborative recommendations requested without the cache are written to
// the store with replace-wholesale semantics: the previous rows of the
// (user, kind) pair are deleted and the new set inserted in one transaction.
//
// # Training
//
// One training run executes at a time. Concurrent lazy trains share a run
// through a singleflight group; that run is detached from the requests that
// triggered it and bounded by the engine's training timeout. An explicit
// retrain waits for any run in flight and then starts its own under the
// caller's context, so it always sees the interactions committed before it
// was called.
package service
