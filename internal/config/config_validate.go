// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateCache,
		c.validateNATS,
		c.validateRecommend,
		c.validateWorker,
		c.validateSecurity,
		c.validateLogging,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	return nil
}

// validCacheBackends defines the allowed cache backends
var validCacheBackends = map[string]bool{
	"redis":  true,
	"badger": true,
	"memory": true,
	"none":   true,
}

// validateCache validates the cache backend selection and its settings
func (c *Config) validateCache() error {
	if !validCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: redis, badger, memory, none")
	}
	if c.Cache.Backend == "redis" {
		if err := validateRedisAddr(c.Cache.RedisAddr); err != nil {
			return fmt.Errorf("REDIS_ADDR is invalid: %w", err)
		}
		if c.Cache.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must be >= 0")
		}
	}
	if c.Cache.PopularTTL < time.Second {
		return fmt.Errorf("POPULAR_CACHE_TTL must be at least 1s")
	}
	if c.Cache.BreakerFailureThreshold == 0 {
		return fmt.Errorf("CACHE_BREAKER_FAILURES must be at least 1")
	}
	return nil
}

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.TaskTopic == "" || c.NATS.DeadLetterTopic == "" {
		return fmt.Errorf("NATS_TASK_TOPIC and NATS_DEAD_LETTER_TOPIC are required")
	}
	if c.NATS.TaskTopic == c.NATS.DeadLetterTopic {
		return fmt.Errorf("NATS_DEAD_LETTER_TOPIC must differ from NATS_TASK_TOPIC")
	}
	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required for the embedded server")
	}
	if c.NATS.AckWait <= 0 {
		return fmt.Errorf("NATS_ACK_WAIT must be positive")
	}
	return nil
}

// validateRecommend validates recommendation engine settings
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.NeighborK < 1 {
		return fmt.Errorf("RECOMMEND_NEIGHBORS must be at least 1")
	}
	for name, v := range map[string]float64{
		"RECOMMEND_REPEAT_BONUS":      r.RepeatPurchaseBonus,
		"RECOMMEND_SIMILARITY_WEIGHT": r.SimilarityWeight,
		"RECOMMEND_POPULARITY_WEIGHT": r.PopularityWeight,
		"RECOMMEND_NEW_USER_SCORE":    r.NewUserScore,
		"RECOMMEND_FALLBACK_SCORE":    r.FallbackScore,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if r.PopularLimit < 1 || r.PopularCacheSize < 1 {
		return fmt.Errorf("RECOMMEND_POPULAR_LIMIT and RECOMMEND_POPULAR_CACHE_SIZE must be at least 1")
	}
	if r.DefaultCount < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_COUNT must be at least 1")
	}
	if r.MaxCount < r.DefaultCount {
		return fmt.Errorf("RECOMMEND_MAX_COUNT must be >= RECOMMEND_DEFAULT_COUNT")
	}
	if r.TrainInterval < 0 {
		return fmt.Errorf("RECOMMEND_TRAIN_INTERVAL must be >= 0")
	}
	if r.TrainTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_TRAIN_TIMEOUT must be positive")
	}
	return nil
}

// validateWorker validates consistency worker settings
func (c *Config) validateWorker() error {
	if c.Worker.MaxRetries < 1 {
		return fmt.Errorf("WORKER_MAX_RETRIES must be at least 1")
	}
	if c.Worker.RetryDelay < 0 || c.Worker.TaskTimeout < 0 {
		return fmt.Errorf("WORKER_RETRY_DELAY and WORKER_TASK_TIMEOUT must be >= 0")
	}
	if c.Worker.MinOrders < 1 {
		return fmt.Errorf("WORKER_MIN_ORDERS must be at least 1")
	}
	return nil
}

// validateSecurity validates HTTP hardening settings
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
