// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/shoprec/internal/logging"
	"github.com/tomtom215/shoprec/internal/recommend"
	"github.com/tomtom215/shoprec/internal/recommend/service"
)

// GenerateResponse is returned by the generate endpoint.
type GenerateResponse struct {
	Status          string                     `json:"status"`
	Message         string                     `json:"message,omitempty"`
	UserID          int64                      `json:"user_id"`
	ModelKind       string                     `json:"model_kind"`
	Count           int                        `json:"count"`
	Recommendations []recommend.ProductDetails `json:"recommendations"`
}

// RetrainResponse is returned by the retrain endpoint.
type RetrainResponse struct {
	Message string                `json:"message"`
	Details *recommend.TrainStats `json:"details"`
}

// GetRecommendations handles GET /api/v1/recommendations/{userID}.
//
// Query parameters:
//   - model_kind: popular or collaborative (default collaborative)
//   - count: number of products, 0 for the default
//   - use_cache: false recomputes and persists collaborative results (default true)
//   - exclude: comma separated product ids to leave out
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, err := parseRecommendationsRequest(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validateRequest(rw, req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	items, err := h.rec.GetRecommendations(ctx, service.Request{
		UserID:   req.UserID,
		Kind:     req.ModelKind,
		Count:    req.Count,
		UseCache: req.UseCache,
		Exclude:  req.Exclude,
	})
	if err != nil {
		writeServiceError(rw, r, "get recommendations", err)
		return
	}
	rw.SuccessList(items, len(items))
}

// GenerateRecommendations handles POST /api/v1/recommendations/{userID}/generate.
// It retrains the model and persists fresh collaborative recommendations.
// Users without orders get a no_orders status instead.
func (h *Handler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := parseUserID(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	count, err := parseIntQuery(r, "count")
	if err != nil || count < 0 {
		rw.BadRequest("count must be a non-negative integer")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.trainTimeout)
	defer cancel()

	orders, err := h.rec.CountUserOrders(ctx, userID)
	if err != nil {
		writeServiceError(rw, r, "count orders", err)
		return
	}
	resp := GenerateResponse{
		UserID:          userID,
		ModelKind:       recommend.KindCollaborative.String(),
		Recommendations: []recommend.ProductDetails{},
	}
	if orders == 0 {
		resp.Status = "no_orders"
		resp.Message = "user has no orders yet"
		rw.Success(resp)
		return
	}

	items, err := h.rec.GenerateForUser(ctx, userID, count)
	if err != nil {
		writeServiceError(rw, r, "generate recommendations", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("user_id", userID).
		Int("count", len(items)).
		Msg("recommendations generated")

	resp.Status = "success"
	resp.Count = len(items)
	resp.Recommendations = items
	rw.Success(resp)
}

// RetrainModel handles POST /api/v1/recommendations/retrain.
func (h *Handler) RetrainModel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), h.trainTimeout)
	defer cancel()

	stats, err := h.rec.RetrainModel(ctx)
	if err != nil {
		writeServiceError(rw, r, "retrain model", err)
		return
	}
	rw.Success(RetrainResponse{Message: "model retrained", Details: stats})
}

// InvalidateCache handles DELETE /api/v1/recommendations/{userID}/cache.
// User 0 drops the cached popularity list.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := parseUserID(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	if userID == service.PopularUserID {
		if err := h.rec.InvalidatePopular(r.Context()); err != nil {
			writeServiceError(rw, r, "invalidate popular cache", err)
			return
		}
	} else {
		h.rec.InvalidateCache(r.Context(), userID)
	}

	rw.Success(map[string]interface{}{
		"status":  "success",
		"user_id": userID,
	})
}

// ModelStats handles GET /api/v1/model/stats.
func (h *Handler) ModelStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	stats, err := h.rec.ModelStats()
	if err != nil {
		writeServiceError(rw, r, "model stats", err)
		return
	}
	rw.Success(stats)
}
