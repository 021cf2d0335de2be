// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shoprec/internal/cache"
	"github.com/tomtom215/shoprec/internal/config"
	"github.com/tomtom215/shoprec/internal/database"
	"github.com/tomtom215/shoprec/internal/recommend"
	"github.com/tomtom215/shoprec/internal/recommend/service"
	"github.com/tomtom215/shoprec/internal/supervisor/services"
)

// RecommendComponents holds the recommendation engine, the service on top of
// it and the popularity cache the service reads through.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Service *service.Service
	Cache   *cache.Opened
}

// Close releases the cache.
func (c *RecommendComponents) Close() error {
	if c == nil || c.Cache == nil {
		return nil
	}
	return c.Cache.Close()
}

// initRecommend creates the engine, opens the cache and builds the service.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, db *database.DB, logger zerolog.Logger) (*RecommendComponents, error) {
	engine, err := recommend.NewEngine(buildEngineConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	opened, err := cache.Open(ctx, buildCacheConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	if opened.Cache == nil {
		logger.Warn().Msg("popularity cache disabled, popular reads use the database fallback")
	}

	svc, err := service.New(service.Deps{
		Engine:  engine,
		Source:  db,
		Store:   db,
		Catalog: db,
		Cache:   opened.Cache,
	}, buildServiceConfig(cfg), logger)
	if err != nil {
		_ = opened.Close()
		return nil, fmt.Errorf("create recommendation service: %w", err)
	}

	logger.Info().
		Str("cache_backend", cfg.Cache.Backend).
		Int("neighbor_k", cfg.Recommend.NeighborK).
		Bool("train_on_startup", cfg.Recommend.TrainOnStartup).
		Dur("train_interval", cfg.Recommend.TrainInterval).
		Msg("recommendation service initialized")

	return &RecommendComponents{Engine: engine, Service: svc, Cache: opened}, nil
}

// buildEngineConfig maps application settings onto the engine configuration.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := recommend.DefaultConfig()
	ec.Ranking.NeighborK = cfg.Recommend.NeighborK
	ec.Ranking.RepeatPurchaseBonus = cfg.Recommend.RepeatPurchaseBonus
	ec.Ranking.SimilarityWeight = cfg.Recommend.SimilarityWeight
	ec.Ranking.PopularityWeight = cfg.Recommend.PopularityWeight
	ec.Popularity.Limit = cfg.Recommend.PopularLimit
	ec.Popularity.NewUserScore = cfg.Recommend.NewUserScore
	ec.Popularity.FallbackScore = cfg.Recommend.FallbackScore
	ec.Compute.ParallelThreshold = cfg.Recommend.ParallelThreshold
	ec.Training.Timeout = cfg.Recommend.TrainTimeout
	return ec
}

func buildCacheConfig(cfg *config.Config) cache.Config {
	breaker := cache.DefaultBreakerConfig()
	breaker.Name = "popular-cache"
	if cfg.Cache.BreakerTimeout > 0 {
		breaker.Timeout = cfg.Cache.BreakerTimeout
	}
	if cfg.Cache.BreakerFailureThreshold > 0 {
		breaker.FailureThreshold = cfg.Cache.BreakerFailureThreshold
	}
	if cfg.Cache.BreakerMaxRequests > 0 {
		breaker.MaxRequests = cfg.Cache.BreakerMaxRequests
	}

	return cache.Config{
		Backend: cache.Backend(cfg.Cache.Backend),
		Redis: cache.RedisConfig{
			Addr:      cfg.Cache.RedisAddr,
			Password:  cfg.Cache.RedisPassword,
			DB:        cfg.Cache.RedisDB,
			KeyPrefix: cfg.Cache.RedisKeyPrefix,
		},
		BadgerPath:     cfg.Cache.BadgerPath,
		MemoryCapacity: cfg.Cache.MemoryCapacity,
		Breaker:        breaker,
	}
}

func buildServiceConfig(cfg *config.Config) service.Config {
	sc := service.DefaultConfig()
	sc.DefaultCount = cfg.Recommend.DefaultCount
	sc.MaxCount = cfg.Recommend.MaxCount
	sc.PopularCacheSize = cfg.Recommend.PopularCacheSize
	if cfg.Cache.PopularTTL > 0 {
		sc.PopularTTL = cfg.Cache.PopularTTL
	}
	return sc
}

func buildRetrainConfig(cfg *config.Config) services.RetrainServiceConfig {
	return services.RetrainServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		TrainInterval:  cfg.Recommend.TrainInterval,
		TrainTimeout:   cfg.Recommend.TrainTimeout,
	}
}
