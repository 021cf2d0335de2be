// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shoprec/internal/recommend"
)

// Retrainer retrains the recommendation model.
// Satisfied by *service.Service.
type Retrainer interface {
	RetrainModel(ctx context.Context) (*recommend.TrainStats, error)
}

// RetrainServiceConfig controls startup and scheduled training.
type RetrainServiceConfig struct {
	// TrainOnStartup trains once when the service starts.
	TrainOnStartup bool

	// TrainInterval is the retrain period. Zero disables scheduled
	// retraining; the service then only waits for shutdown.
	TrainInterval time.Duration

	// TrainTimeout bounds one training run. Default: 30m
	TrainTimeout time.Duration
}

// RetrainService keeps the model fresh between order-driven retrains.
type RetrainService struct {
	retrainer Retrainer
	config    RetrainServiceConfig
	logger    zerolog.Logger
	name      string
}

// NewRetrainService creates the retrain scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(retrainer Retrainer, cfg RetrainServiceConfig, logger zerolog.Logger) *RetrainService {
	if cfg.TrainTimeout <= 0 {
		cfg.TrainTimeout = 30 * time.Minute
	}
	return &RetrainService{
		retrainer: retrainer,
		config:    cfg,
		logger:    logger.With().Str("service", "retrain-scheduler").Logger(),
		name:      "retrain-scheduler",
	}
}

// Serve implements suture.Service. Training failures are logged and never
// returned, so a missing dataset does not put the layer into backoff.
func (s *RetrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("retrain scheduler starting")

	if s.config.TrainOnStartup {
		s.train(ctx, "startup")
	}

	if s.config.TrainInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("retrain scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.train(ctx, "scheduled")
		}
	}
}

func (s *RetrainService) train(ctx context.Context, trigger string) {
	trainCtx, cancel := context.WithTimeout(ctx, s.config.TrainTimeout)
	defer cancel()

	start := time.Now()
	stats, err := s.retrainer.RetrainModel(trainCtx)
	switch {
	case errors.Is(err, recommend.ErrNoInteractionData):
		s.logger.Warn().Str("trigger", trigger).Msg("no interaction data yet, skipping training")
	case err != nil:
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("model training failed")
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Int("users", stats.Users).
			Int("products", stats.Products).
			Dur("duration", time.Since(start)).
			Msg("model trained")
	}
}

// String implements fmt.Stringer.
func (s *RetrainService) String() string {
	return s.name
}
