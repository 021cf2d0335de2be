// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/shoprec/internal/cache"
	"github.com/tomtom215/shoprec/internal/metrics"
	"github.com/tomtom215/shoprec/internal/recommend"
)

// PopularUserID is the user id the durable popularity fallback is stored under.
const PopularUserID int64 = 0

// Store is the durable recommendation store.
type Store interface {
	ReplaceRecommendations(ctx context.Context, userID int64, kind recommend.ModelKind, recs []recommend.ScoredProduct) (int, error)
	GetRecommendations(ctx context.Context, userID int64, kind recommend.ModelKind, limit int) ([]recommend.ScoredProduct, error)
	CountUserOrders(ctx context.Context, userID int64) (int, error)
}

// Catalog resolves product ids to catalog entries.
type Catalog interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]recommend.Product, error)
}

// Config controls request sizing and the popularity cache.
type Config struct {
	// DefaultCount is used when a request asks for zero items.
	DefaultCount int

	// MaxCount caps the number of items per request.
	MaxCount int

	// PopularCacheKey is the cache key of the popularity list.
	PopularCacheKey string

	// PopularTTL is the lifetime of the cached popularity list.
	PopularTTL time.Duration

	// PopularCacheSize is the number of popular products written to the cache
	// and to the durable fallback.
	PopularCacheSize int
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		DefaultCount:     20,
		MaxCount:         100,
		PopularCacheKey:  "popular_products_cache",
		PopularTTL:       time.Hour,
		PopularCacheSize: 50,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DefaultCount < 1 {
		return fmt.Errorf("default count must be positive, got %d", c.DefaultCount)
	}
	if c.MaxCount < c.DefaultCount {
		return fmt.Errorf("max count %d is below default count %d", c.MaxCount, c.DefaultCount)
	}
	if c.PopularCacheKey == "" {
		return errors.New("popular cache key is required")
	}
	if c.PopularTTL <= 0 {
		return fmt.Errorf("popular ttl must be positive, got %v", c.PopularTTL)
	}
	if c.PopularCacheSize < 1 {
		return fmt.Errorf("popular cache size must be positive, got %d", c.PopularCacheSize)
	}
	return nil
}

// Deps are the collaborators of a Service. Cache may be nil, in which case
// popularity reads go to the durable fallback.
type Deps struct {
	Engine  *recommend.Engine
	Source  recommend.InteractionSource
	Store   Store
	Catalog Catalog
	Cache   cache.Cache
}

// Request is a recommendation request.
type Request struct {
	UserID   int64
	Kind     string
	Count    int
	UseCache bool
	Exclude  []int64
}

// Service combines the engine with the popularity cache and the durable store.
// It is safe for concurrent use.
type Service struct {
	engine  *recommend.Engine
	source  recommend.InteractionSource
	store   Store
	catalog Catalog
	cache   cache.Cache
	cfg     Config
	logger  zerolog.Logger

	// trainSem admits one training run at a time
	trainSem   chan struct{}
	trainGroup singleflight.Group
}

// New creates a Service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(deps Deps, cfg Config, logger zerolog.Logger) (*Service, error) {
	if deps.Engine == nil {
		return nil, errors.New("engine is required")
	}
	if deps.Source == nil {
		return nil, errors.New("interaction source is required")
	}
	if deps.Store == nil {
		return nil, errors.New("store is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service config: %w", err)
	}

	return &Service{
		engine:   deps.Engine,
		source:   deps.Source,
		store:    deps.Store,
		catalog:  deps.Catalog,
		cache:    deps.Cache,
		cfg:      cfg,
		logger:   logger.With().Str("component", "recommend-service").Logger(),
		trainSem: make(chan struct{}, 1),
	}, nil
}

// Engine returns the underlying engine.
func (s *Service) Engine() *recommend.Engine {
	return s.engine
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// GetRecommendations returns up to req.Count products of the requested kind.
// The kind is validated before any I/O. An untrained engine is trained first.
func (s *Service) GetRecommendations(ctx context.Context, req Request) ([]recommend.ProductDetails, error) {
	kind, err := recommend.ParseModelKind(req.Kind)
	if err == nil && !kind.Generatable() {
		err = fmt.Errorf("%w: %s", recommend.ErrUnsupportedModelKind, kind)
	}
	if err != nil {
		metrics.RecordRecommendationError(req.Kind)
		return nil, err
	}

	count := s.normalizeCount(req.Count)
	s.logger.Debug().
		Int64("user_id", req.UserID).
		Str("model_kind", kind.String()).
		Int("count", count).
		Bool("use_cache", req.UseCache).
		Msg("recommendations requested")

	var items []recommend.ProductDetails
	if kind == recommend.KindPopular {
		items, err = s.popular(ctx, count, req.UseCache, req.Exclude)
	} else {
		items, _, err = s.collaborative(ctx, req.UserID, count, req.Exclude, !req.UseCache)
	}
	if err != nil {
		metrics.RecordRecommendationError(kind.String())
		return nil, err
	}
	return items, nil
}

// RetrainModel drops the cached popularity list and retrains the engine.
// A run already in flight is waited for, not joined, so the interactions are
// read after the call began. The run is bounded by ctx. On failure the
// returned stats carry the error status.
func (s *Service) RetrainModel(ctx context.Context) (*recommend.TrainStats, error) {
	if err := s.InvalidatePopular(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate popular cache before retrain")
	}

	stats, err := s.runTraining(ctx)
	if err != nil {
		return recommend.ErrorStats(err), err
	}
	return stats, nil
}

// InvalidateCache is called when a user's purchase history changes.
// No per-user entries are cached yet, so it only logs.
func (s *Service) InvalidateCache(_ context.Context, userID int64) {
	s.logger.Debug().Int64("user_id", userID).Msg("invalidate user cache")
}

// InvalidatePopular removes the cached popularity list without recomputing it.
func (s *Service) InvalidatePopular(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, s.cfg.PopularCacheKey); err != nil {
		return fmt.Errorf("delete %s: %w", s.cfg.PopularCacheKey, err)
	}
	return nil
}

// GenerateForUser retrains the model and persists fresh collaborative
// recommendations for userID.
func (s *Service) GenerateForUser(ctx context.Context, userID int64, count int) ([]recommend.ProductDetails, error) {
	if _, err := s.RetrainModel(ctx); err != nil {
		return nil, fmt.Errorf("retrain before generate: %w", err)
	}
	items, _, err := s.collaborative(ctx, userID, s.normalizeCount(count), nil, true)
	return items, err
}

// RecomputeForUser computes and persists collaborative recommendations for
// userID. It returns the number of persisted rows that were replaced.
func (s *Service) RecomputeForUser(ctx context.Context, userID int64, count int) ([]recommend.ProductDetails, int, error) {
	return s.collaborative(ctx, userID, s.normalizeCount(count), nil, true)
}

// CountUserOrders returns the number of orders placed by userID.
func (s *Service) CountUserOrders(ctx context.Context, userID int64) (int, error) {
	return s.store.CountUserOrders(ctx, userID)
}

// ModelStats returns the stats of the current model.
func (s *Service) ModelStats() (*recommend.TrainStats, error) {
	return s.engine.Stats()
}

func (s *Service) normalizeCount(count int) int {
	if count <= 0 {
		return s.cfg.DefaultCount
	}
	if count > s.cfg.MaxCount {
		return s.cfg.MaxCount
	}
	return count
}

// ensureTrained trains the engine once when no snapshot is available.
// Concurrent lazy callers share one run. The shared run is detached from any
// single caller and bounded by the engine's training timeout.
func (s *Service) ensureTrained(ctx context.Context) error {
	if s.engine.IsTrained() {
		return nil
	}
	_, err, shared := s.trainGroup.Do("train", func() (interface{}, error) {
		trainCtx := context.WithoutCancel(ctx)
		if err := s.acquireTraining(trainCtx); err != nil {
			return nil, err
		}
		defer s.releaseTraining()

		// a retrain may have finished while this run waited
		if s.engine.IsTrained() {
			return nil, nil
		}
		return s.train(trainCtx)
	})
	if shared {
		s.logger.Debug().Msg("joined in-flight training")
	}
	return err
}

// runTraining starts a fresh run once no other run is in flight.
func (s *Service) runTraining(ctx context.Context) (*recommend.TrainStats, error) {
	if err := s.acquireTraining(ctx); err != nil {
		return nil, err
	}
	defer s.releaseTraining()
	return s.train(ctx)
}

func (s *Service) acquireTraining(ctx context.Context) error {
	select {
	case s.trainSem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for training slot: %w", ctx.Err())
	}
}

func (s *Service) releaseTraining() {
	<-s.trainSem
}

// train runs the engine and refreshes the popularity list. The caller holds
// the training slot.
func (s *Service) train(ctx context.Context) (*recommend.TrainStats, error) {
	start := time.Now()
	stats, err := s.engine.Train(ctx, s.source)
	if err != nil {
		metrics.RecordTraining(time.Since(start), 0, 0, err)
		return nil, fmt.Errorf("train model: %w", err)
	}
	metrics.RecordTraining(time.Since(start), stats.Users, stats.Products, nil)

	s.refreshPopular(ctx)
	return stats, nil
}

func excludeSet(ids []int64) map[int64]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
