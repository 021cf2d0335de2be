// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package api

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shoprec/internal/database"
	"github.com/tomtom215/shoprec/internal/eventprocessor"
	"github.com/tomtom215/shoprec/internal/health"
	"github.com/tomtom215/shoprec/internal/recommend"
	"github.com/tomtom215/shoprec/internal/recommend/service"
)

// Recommender is the recommendation service as seen by the handlers.
type Recommender interface {
	GetRecommendations(ctx context.Context, req service.Request) ([]recommend.ProductDetails, error)
	GenerateForUser(ctx context.Context, userID int64, count int) ([]recommend.ProductDetails, error)
	RetrainModel(ctx context.Context) (*recommend.TrainStats, error)
	InvalidateCache(ctx context.Context, userID int64)
	InvalidatePopular(ctx context.Context) error
	CountUserOrders(ctx context.Context, userID int64) (int, error)
	ModelStats() (*recommend.TrainStats, error)
}

// TaskPublisher enqueues recommendation tasks.
type TaskPublisher interface {
	PublishTask(ctx context.Context, topic string, task *eventprocessor.RecommendationTask) error
}

// OrderStore records orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order database.Order) (int64, error)
}

// Deps are the collaborators of the handlers. Publisher may be nil when the
// task queue is disabled, in which case enqueue endpoints answer 503 and
// orders are recorded without an update task.
type Deps struct {
	Recommender Recommender
	Catalog     service.Catalog
	Orders      OrderStore
	Publisher   TaskPublisher
	Health      *health.Checker
	TaskTopic   string

	// RequestTimeout bounds read endpoints. Retrain and generate run
	// under TrainTimeout.
	RequestTimeout time.Duration
	TrainTimeout   time.Duration
}

// Handler implements the API endpoints.
type Handler struct {
	rec            Recommender
	catalog        service.Catalog
	orders         OrderStore
	publisher      TaskPublisher
	health         *health.Checker
	taskTopic      string
	requestTimeout time.Duration
	trainTimeout   time.Duration
	logger         zerolog.Logger
}

// NewHandler creates the API handlers.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(deps Deps, logger zerolog.Logger) (*Handler, error) {
	if deps.Recommender == nil {
		return nil, errors.New("recommender is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if deps.Orders == nil {
		return nil, errors.New("order store is required")
	}
	if deps.Health == nil {
		deps.Health = health.NewChecker(health.DefaultConfig())
	}
	if deps.TaskTopic == "" {
		deps.TaskTopic = eventprocessor.DefaultTaskTopic
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 30 * time.Second
	}
	if deps.TrainTimeout <= 0 {
		deps.TrainTimeout = 10 * time.Minute
	}

	return &Handler{
		rec:            deps.Recommender,
		catalog:        deps.Catalog,
		orders:         deps.Orders,
		publisher:      deps.Publisher,
		health:         deps.Health,
		taskTopic:      deps.TaskTopic,
		requestTimeout: deps.RequestTimeout,
		trainTimeout:   deps.TrainTimeout,
		logger:         logger.With().Str("component", "api").Logger(),
	}, nil
}
