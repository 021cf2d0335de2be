// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are tried in order when CONFIG_PATH is unset or names
// a missing file.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shoprec/config.yaml",
	"/etc/shoprec/config.yml",
}

// ConfigPathEnvVar names an explicit YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8080,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:                   "/data/shoprec.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Cache: CacheConfig{
			Backend:                 "memory",
			RedisAddr:               "127.0.0.1:6379",
			RedisDB:                 0,
			RedisKeyPrefix:          "shoprec:",
			BadgerPath:              "",
			MemoryCapacity:          1024,
			PopularTTL:              time.Hour,
			BreakerTimeout:          30 * time.Second,
			BreakerFailureThreshold: 5,
			BreakerMaxRequests:      1,
		},
		NATS: NATSConfig{
			Enabled:         true,
			URL:             "nats://127.0.0.1:4222",
			EmbeddedServer:  true,
			StoreDir:        "/data/nats/jetstream",
			MaxMemory:       256 << 20,
			MaxStore:        1 << 30,
			TaskTopic:       "recommendations.tasks",
			DeadLetterTopic: "recommendations.dead_letter",
			DurableName:     "shoprec-worker",
			QueueGroup:      "shoprec-workers",
			AckWait:         5 * time.Minute,
		},
		Recommend: RecommendConfig{
			NeighborK:           30,
			RepeatPurchaseBonus: 0.3,
			SimilarityWeight:    0.7,
			PopularityWeight:    0.3,
			NewUserScore:        0.5,
			FallbackScore:       0.3,
			PopularLimit:        100,
			PopularCacheSize:    50,
			DefaultCount:        20,
			MaxCount:            100,
			TrainOnStartup:      true,
			TrainInterval:       0,
			TrainTimeout:        10 * time.Minute,
			ParallelThreshold:   4096,
		},
		Worker: WorkerConfig{
			MaxRetries:            3,
			RetryDelay:            500 * time.Millisecond,
			TaskTimeout:           2 * time.Minute,
			RetrainOrderThreshold: 3,
			MinOrders:             2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// listPaths hold comma-separated lists when set from the environment.
var listPaths = []string{"security.cors_origins"}

type source struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

// LoadWithKoanf merges defaults, the optional YAML file and the mapped
// environment variables, later sources winning, then validates the result.
func LoadWithKoanf() (*Config, error) {
	sources := []source{{name: "defaults", provider: structs.Provider(defaultConfig(), "koanf")}}
	if path := findConfigFile(); path != "" {
		sources = append(sources, source{name: path, provider: file.Provider(path), parser: yaml.Parser()})
	}
	sources = append(sources, source{name: "environment", provider: env.Provider("", ".", envTransformFunc)})

	k := koanf.New(".")
	for _, src := range sources {
		if err := k.Load(src.provider, src.parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", src.name, err)
		}
	}
	for _, path := range listPaths {
		if err := splitList(k, path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	candidates := DefaultConfigPaths
	if explicit := os.Getenv(ConfigPathEnvVar); explicit != "" {
		candidates = append([]string{explicit}, candidates...)
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// splitList turns a "a, b" string at path into []string{"a", "b"}. Values
// already decoded as lists by the YAML parser are left alone.
func splitList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok || raw == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}
	if err := k.Set(path, items); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",

	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	// Cache mappings
	"cache_backend":          "cache.backend",
	"redis_addr":             "cache.redis_addr",
	"redis_password":         "cache.redis_password",
	"redis_db":               "cache.redis_db",
	"redis_key_prefix":       "cache.redis_key_prefix",
	"badger_path":            "cache.badger_path",
	"cache_memory_capacity":  "cache.memory_capacity",
	"popular_cache_ttl":      "cache.popular_ttl",
	"cache_breaker_timeout":  "cache.breaker_timeout",
	"cache_breaker_failures": "cache.breaker_failure_threshold",

	// NATS mappings
	"nats_enabled":           "nats.enabled",
	"nats_url":               "nats.url",
	"nats_embedded":          "nats.embedded_server",
	"nats_store_dir":         "nats.store_dir",
	"nats_max_memory":        "nats.max_memory",
	"nats_max_store":         "nats.max_store",
	"nats_task_topic":        "nats.task_topic",
	"nats_dead_letter_topic": "nats.dead_letter_topic",
	"nats_durable_name":      "nats.durable_name",
	"nats_queue_group":       "nats.queue_group",
	"nats_ack_wait":          "nats.ack_wait",

	// Recommendation engine mappings
	"recommend_neighbors":          "recommend.neighbor_k",
	"recommend_repeat_bonus":       "recommend.repeat_purchase_bonus",
	"recommend_similarity_weight":  "recommend.similarity_weight",
	"recommend_popularity_weight":  "recommend.popularity_weight",
	"recommend_new_user_score":     "recommend.new_user_score",
	"recommend_fallback_score":     "recommend.fallback_score",
	"recommend_popular_limit":      "recommend.popular_limit",
	"recommend_popular_cache_size": "recommend.popular_cache_size",
	"recommend_default_count":      "recommend.default_count",
	"recommend_max_count":          "recommend.max_count",
	"recommend_train_on_startup":   "recommend.train_on_startup",
	"recommend_train_interval":     "recommend.train_interval",
	"recommend_train_timeout":      "recommend.train_timeout",
	"recommend_parallel_threshold": "recommend.parallel_threshold",

	// Worker mappings
	"worker_max_retries":             "worker.max_retries",
	"worker_retry_delay":             "worker.retry_delay",
	"worker_task_timeout":            "worker.task_timeout",
	"worker_retrain_order_threshold": "worker.retrain_order_threshold",
	"worker_min_orders":              "worker.min_orders",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc maps an environment variable to its koanf path through
// envMappings, so HTTP_PORT becomes server.port. Unknown variables map to
// "" and are dropped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
