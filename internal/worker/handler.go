// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shoprec/internal/eventprocessor"
	"github.com/tomtom215/shoprec/internal/recommend"
)

// Task result statuses.
const (
	StatusSuccess           = "success"
	StatusSkipped           = "skipped"
	StatusNoRecommendations = "no_recommendations"
)

// Recommender is the part of the recommendation service the handler drives.
type Recommender interface {
	CountUserOrders(ctx context.Context, userID int64) (int, error)
	InvalidateCache(ctx context.Context, userID int64)
	RetrainModel(ctx context.Context) (*recommend.TrainStats, error)
	RecomputeForUser(ctx context.Context, userID int64, count int) ([]recommend.ProductDetails, int, error)
}

// Result is the outcome of a handled task.
type Result struct {
	Status                 string  `json:"status"`
	Reason                 string  `json:"reason,omitempty"`
	UserID                 int64   `json:"user_id,omitempty"`
	OrderID                int64   `json:"order_id,omitempty"`
	RecommendationsUpdated int     `json:"recommendations_updated,omitempty"`
	OldDeleted             int     `json:"old_deleted,omitempty"`
	OrderedProducts        []int64 `json:"ordered_products,omitempty"`
	ModelRetrained         bool    `json:"model_retrained,omitempty"`
}

// Handler executes recommendation tasks.
type Handler struct {
	rec    Recommender
	cfg    Config
	logger zerolog.Logger
}

// NewHandler creates a task handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(rec Recommender, cfg Config, logger zerolog.Logger) (*Handler, error) {
	if rec == nil {
		return nil, errors.New("recommender is required")
	}
	return &Handler{
		rec:    rec,
		cfg:    cfg,
		logger: logger.With().Str("component", "task-handler").Logger(),
	}, nil
}

// Handle executes task. Unsupported task types are skipped, not failed.
func (h *Handler) Handle(ctx context.Context, task *eventprocessor.RecommendationTask) (*Result, error) {
	switch task.TaskType {
	case eventprocessor.TaskTypeUpdateRecommendations:
		return h.updateRecommendations(ctx, task)
	default:
		h.logger.Warn().
			Str("task_id", task.TaskID).
			Str("task_type", task.TaskType).
			Msg("unsupported task type")
		return &Result{Status: StatusSkipped, Reason: "unsupported task type"}, nil
	}
}

func (h *Handler) updateRecommendations(ctx context.Context, task *eventprocessor.RecommendationTask) (*Result, error) {
	userID := task.UserID

	orders, err := h.rec.CountUserOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count orders of user %d: %w", userID, err)
	}
	if orders < h.cfg.MinOrders {
		return &Result{
			Status:          StatusSkipped,
			Reason:          fmt.Sprintf("user has less than %d orders", h.cfg.MinOrders),
			UserID:          userID,
			OrderID:         task.OrderID,
			OrderedProducts: task.OrderedProducts,
		}, nil
	}

	h.rec.InvalidateCache(ctx, userID)

	retrained := false
	if orders <= h.cfg.RetrainOrderThreshold {
		if _, err := h.rec.RetrainModel(ctx); err != nil {
			return nil, fmt.Errorf("retrain for user %d: %w", userID, err)
		}
		retrained = true
		h.logger.Info().
			Int64("user_id", userID).
			Int("orders", orders).
			Msg("model retrained for early customer")
	}

	items, deleted, err := h.rec.RecomputeForUser(ctx, userID, h.cfg.RecommendCount)
	if err != nil {
		return nil, fmt.Errorf("recompute user %d: %w", userID, err)
	}
	if len(items) == 0 {
		return &Result{
			Status:          StatusNoRecommendations,
			UserID:          userID,
			OrderID:         task.OrderID,
			OrderedProducts: task.OrderedProducts,
			ModelRetrained:  retrained,
		}, nil
	}

	return &Result{
		Status:                 StatusSuccess,
		UserID:                 userID,
		OrderID:                task.OrderID,
		RecommendationsUpdated: len(items),
		OldDeleted:             deleted,
		OrderedProducts:        task.OrderedProducts,
		ModelRetrained:         retrained,
	}, nil
}
