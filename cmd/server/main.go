// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/shoprec/internal/api"
	"github.com/tomtom215/shoprec/internal/cache"
	"github.com/tomtom215/shoprec/internal/config"
	"github.com/tomtom215/shoprec/internal/database"
	"github.com/tomtom215/shoprec/internal/health"
	"github.com/tomtom215/shoprec/internal/logging"
	"github.com/tomtom215/shoprec/internal/supervisor"
	"github.com/tomtom215/shoprec/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("shoprec stopped with an error")
	}
	logging.Info().Msg("shoprec stopped gracefully")
}

//nolint:gocyclo // sequential wiring of every component
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)
	logger := logging.Logger()

	logger.Info().
		Str("db_path", cfg.Database.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("starting shoprec")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing database")
		}
	}()

	if cfg.Database.SeedDemoData {
		if err := db.SeedDemoData(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	rec, err := initRecommend(ctx, cfg, db, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing cache")
		}
	}()

	queue, err := InitNATS(cfg, rec.Service, logger)
	if err != nil {
		return fmt.Errorf("initialize task queue: %w", err)
	}

	checker := health.NewChecker(health.DefaultConfig())
	checker.Register("database", health.CheckFunc(db.Ping))
	if c := rec.Cache.Cache; c != nil {
		checker.RegisterOptional("cache", health.CheckFunc(func(ctx context.Context) error {
			return cache.Probe(ctx, c)
		}))
	}
	queue.RegisterHealth(checker)

	handler, err := api.NewHandler(api.Deps{
		Recommender:  rec.Service,
		Catalog:      db,
		Orders:       db,
		Publisher:    queue.TaskPublisher(),
		Health:       checker,
		TaskTopic:    cfg.NATS.TaskTopic,
		TrainTimeout: cfg.Recommend.TrainTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("create API handler: %w", err)
	}

	mwCfg := api.DefaultMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled
	if cfg.Security.RateLimitDisabled {
		logger.Warn().Msg("rate limiting is disabled (RATE_LIMIT_DISABLED=true)")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, mwCfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// retrain and generate may run up to the train timeout
		WriteTimeout: cfg.Recommend.TrainTimeout + cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.Add(supervisor.LayerModel, services.NewRetrainService(rec.Service, buildRetrainConfig(cfg), logger))
	queue.addToSupervisor(tree)
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, 10*time.Second, logger))
	logger.Info().Str("addr", server.Addr).Msg("http server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	treeErr := <-tree.ServeBackground(ctx)
	if errors.Is(treeErr, context.Canceled) {
		treeErr = nil
	}

	// releases a queue whose service never reached Shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	queue.close(shutdownCtx)
	shutdownCancel()

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
		}
	}

	if treeErr != nil {
		return fmt.Errorf("supervisor tree: %w", treeErr)
	}
	return nil
}
