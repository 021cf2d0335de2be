// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// The InteractionSource interface lets the database package feed training
// without creating circular imports.

// Engine holds the current model snapshot and serializes training.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	snapshot atomic.Pointer[ModelSnapshot]
	trainMu  sync.Mutex

	modelVersion atomic.Int32
	trainCount   atomic.Int64
	errorCount   atomic.Int64
	requestCount atomic.Int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Train rebuilds the snapshot from src and swaps it in.
// Returns ErrTrainingInProgress immediately if another train is running.
// On failure the engine is left untrained.
func (e *Engine) Train(ctx context.Context, src InteractionSource) (*TrainStats, error) {
	if !e.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	start := time.Now()
	e.trainCount.Add(1)
	e.logger.Info().Msg("starting model training")

	if e.config.Training.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Training.Timeout)
		defer cancel()
	}

	table, err := LoadInteractions(ctx, src)
	if err != nil {
		e.failTraining(err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		e.failTraining(err)
		return nil, fmt.Errorf("train: %w", err)
	}

	snap := BuildSnapshot(table, e.config.Popularity.Limit)
	e.snapshot.Store(snap)
	version := e.modelVersion.Add(1)

	stats := snapshotStats(snap, int(version))
	stats.TrainingTime = time.Since(start).Seconds()

	e.logger.Info().
		Int("version", int(version)).
		Int("users", stats.Users).
		Int("products", stats.Products).
		Int("interactions", stats.Interactions).
		Float64("sparsity", stats.Sparsity).
		Dur("duration", time.Since(start)).
		Msg("model training complete")

	return stats, nil
}

func (e *Engine) failTraining(err error) {
	e.snapshot.Store(nil)
	e.errorCount.Add(1)
	e.logger.Error().Err(err).Msg("model training failed")
}

// IsTrained reports whether a snapshot is available.
func (e *Engine) IsTrained() bool {
	return e.snapshot.Load() != nil
}

// Snapshot returns the current snapshot, or nil when untrained.
func (e *Engine) Snapshot() *ModelSnapshot {
	return e.snapshot.Load()
}

// Recommend ranks up to n products of the given kind for userID.
func (e *Engine) Recommend(ctx context.Context, userID int64, kind ModelKind, n int) (*Ranking, error) {
	if !kind.Generatable() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModelKind, kind)
	}

	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNotTrained
	}
	e.requestCount.Add(1)

	if kind == KindPopular {
		return &Ranking{
			Items:  snap.PopularScores(n, e.config.Popularity.NewUserScore),
			Source: SourcePopular,
		}, nil
	}

	ranking, err := Rank(ctx, snap, userID, n, e.config)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("rank user %d: %w", userID, err)
	}

	e.logger.Debug().
		Int64("user_id", userID).
		Str("source", string(ranking.Source)).
		Int("count", len(ranking.Items)).
		Msg("ranked recommendations")

	return ranking, nil
}

// Stats returns the stats of the current snapshot.
func (e *Engine) Stats() (*TrainStats, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNotTrained
	}
	stats := snapshotStats(snap, int(e.modelVersion.Load()))
	stats.TrainingTime = snap.BuildDuration().Seconds()
	return stats, nil
}

// Counters returns the number of trains, errors and ranking requests.
func (e *Engine) Counters() (trains, errs, requests int64) {
	return e.trainCount.Load(), e.errorCount.Load(), e.requestCount.Load()
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

func snapshotStats(snap *ModelSnapshot, version int) *TrainStats {
	users, products := snap.Shape()
	return &TrainStats{
		Status:       TrainStatusTrained,
		Users:        users,
		Products:     products,
		Interactions: snap.Interactions(),
		RawRows:      snap.RawRows(),
		Sparsity:     snap.Sparsity(),
		ModelShape:   [2]int{users, products},
		TrainedAt:    snap.BuiltAt(),
		Version:      version,
	}
}
