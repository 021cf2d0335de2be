// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package config

import "time"

// Config holds all application configuration.
//
// Configuration is loaded in layers (see Load):
//  1. Built-in defaults
//  2. Optional YAML file (CONFIG_PATH or a default path)
//  3. Environment variables
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Cache     CacheConfig     `koanf:"cache"`
	NATS      NATSConfig      `koanf:"nats"`
	Recommend RecommendConfig `koanf:"recommend"`
	Worker    WorkerConfig    `koanf:"worker"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SeedDemoData           bool   `koanf:"seed_demo_data"`           // Seed a small demo catalog and order history into an empty database
}

// CacheConfig selects and tunes the popularity cache backend.
//
// Environment Variables:
//   - CACHE_BACKEND: redis, badger, memory or none (default: memory)
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX
//   - BADGER_PATH: directory for the badger backend (empty = in-memory)
//   - POPULAR_CACHE_TTL: popularity entry lifetime (default: 1h)
//   - CACHE_BREAKER_TIMEOUT, CACHE_BREAKER_FAILURES
type CacheConfig struct {
	Backend        string        `koanf:"backend"`
	RedisAddr      string        `koanf:"redis_addr"`
	RedisPassword  string        `koanf:"redis_password"`
	RedisDB        int           `koanf:"redis_db"`
	RedisKeyPrefix string        `koanf:"redis_key_prefix"`
	BadgerPath     string        `koanf:"badger_path"`
	MemoryCapacity int           `koanf:"memory_capacity"`
	PopularTTL     time.Duration `koanf:"popular_ttl"`

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
	// BreakerFailureThreshold is the number of consecutive failures that opens the breaker.
	BreakerFailureThreshold uint32 `koanf:"breaker_failure_threshold"`
	// BreakerMaxRequests is the number of probes allowed while half-open.
	BreakerMaxRequests uint32 `koanf:"breaker_max_requests"`
}

// NATSConfig holds NATS JetStream transport settings for the task queue.
//
// Example - embedded single-node deployment:
//
//	cfg := NATSConfig{
//	    Enabled:        true,
//	    URL:            "nats://127.0.0.1:4222",
//	    EmbeddedServer: true,
//	    StoreDir:       "/data/nats",
//	}
type NATSConfig struct {
	// Enabled controls whether the task worker and publisher are started.
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server.
	// If false, expects an external NATS server at URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory.
	StoreDir string `koanf:"store_dir"`

	// MaxMemory is the maximum memory for JetStream in bytes.
	MaxMemory int64 `koanf:"max_memory"`

	// MaxStore is the maximum disk storage for JetStream in bytes.
	MaxStore int64 `koanf:"max_store"`

	// TaskTopic carries recommendation tasks.
	TaskTopic string `koanf:"task_topic"`

	// DeadLetterTopic receives tasks that exhausted their retries.
	DeadLetterTopic string `koanf:"dead_letter_topic"`

	// DurableName is the consumer durable name for message tracking.
	DurableName string `koanf:"durable_name"`

	// QueueGroup is the queue group for load balancing.
	QueueGroup string `koanf:"queue_group"`

	// AckWait is how long JetStream waits for an ack before redelivering.
	AckWait time.Duration `koanf:"ack_wait"`
}

// RecommendConfig holds the recommendation engine and service settings.
//
// Environment Variables:
//   - RECOMMEND_NEIGHBORS: neighbors consumed per ranking (default: 30)
//   - RECOMMEND_REPEAT_BONUS: weight of repeat purchases (default: 0.3)
//   - RECOMMEND_SIMILARITY_WEIGHT / RECOMMEND_POPULARITY_WEIGHT: score blend (default: 0.7 / 0.3)
//   - RECOMMEND_DEFAULT_COUNT: result size when none is requested (default: 20)
//   - RECOMMEND_TRAIN_ON_STARTUP, RECOMMEND_TRAIN_INTERVAL
type RecommendConfig struct {
	NeighborK           int     `koanf:"neighbor_k"`
	RepeatPurchaseBonus float64 `koanf:"repeat_purchase_bonus"`
	SimilarityWeight    float64 `koanf:"similarity_weight"`
	PopularityWeight    float64 `koanf:"popularity_weight"`
	NewUserScore        float64 `koanf:"new_user_score"`
	FallbackScore       float64 `koanf:"fallback_score"`
	PopularLimit        int     `koanf:"popular_limit"`
	PopularCacheSize    int     `koanf:"popular_cache_size"`
	DefaultCount        int     `koanf:"default_count"`
	MaxCount            int     `koanf:"max_count"`

	TrainOnStartup    bool          `koanf:"train_on_startup"`
	TrainInterval     time.Duration `koanf:"train_interval"` // 0 disables scheduled retraining
	TrainTimeout      time.Duration `koanf:"train_timeout"`
	ParallelThreshold int           `koanf:"parallel_threshold"`
}

// WorkerConfig holds consistency worker settings.
type WorkerConfig struct {
	MaxRetries            int           `koanf:"max_retries"`
	RetryDelay            time.Duration `koanf:"retry_delay"`
	TaskTimeout           time.Duration `koanf:"task_timeout"` // 0 = unbounded
	RetrainOrderThreshold int           `koanf:"retrain_order_threshold"`
	MinOrders             int           `koanf:"min_orders"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// SecurityConfig holds HTTP hardening settings. There is no authentication.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Load reads the configuration. Environment variables override the YAML
// file (CONFIG_PATH or the first of DefaultConfigPaths), which overrides the
// built-in defaults.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
