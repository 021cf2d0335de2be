// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/shoprec/internal/database"
	"github.com/tomtom215/shoprec/internal/eventprocessor"
	"github.com/tomtom215/shoprec/internal/logging"
)

// EnqueueResponse is returned when a task was published.
type EnqueueResponse struct {
	TaskID string `json:"task_id"`
	Topic  string `json:"topic"`
}

// OrderLine is one confirmed order line.
type OrderLine struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// OrderConfirmation is returned by POST /api/v1/orders.
type OrderConfirmation struct {
	OrderID               int64       `json:"order_id"`
	UserID                int64       `json:"user_id"`
	Items                 []OrderLine `json:"items"`
	RecommendationsQueued bool        `json:"recommendations_queued"`
	TaskID                string      `json:"task_id,omitempty"`
}

// EnqueueTask handles POST /api/v1/tasks.
func (h *Handler) EnqueueTask(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.publisher == nil {
		writeServiceError(rw, r, "enqueue task", eventprocessor.ErrNATSNotEnabled)
		return
	}

	var req TaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validateRequest(rw, &req) {
		return
	}

	task := &eventprocessor.RecommendationTask{
		TaskID:          req.TaskID,
		TaskType:        req.TaskType,
		UserID:          req.UserID,
		OrderID:         req.OrderID,
		OrderedProducts: req.OrderedProducts,
		CreatedAt:       time.Now().UTC(),
	}
	task.EnsureID()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	if err := h.publisher.PublishTask(ctx, h.taskTopic, task); err != nil {
		writeServiceError(rw, r, "enqueue task", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("task_id", task.TaskID).
		Str("task_type", task.TaskType).
		Int64("user_id", task.UserID).
		Msg("task enqueued")

	rw.Accepted(EnqueueResponse{TaskID: task.TaskID, Topic: h.taskTopic})
}

// CreateOrder handles POST /api/v1/orders. The order is recorded, the
// user's cached recommendations are invalidated and an
// update_recommendations task is enqueued. A failed enqueue does not fail
// the order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req OrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validateRequest(rw, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	productIDs := make([]int64, 0, len(req.Items))
	items := make([]database.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productIDs = append(productIDs, item.ProductID)
		items = append(items, database.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	products, err := h.catalog.GetProducts(ctx, productIDs)
	if err != nil {
		writeServiceError(rw, r, "look up products", err)
		return
	}
	var missing []int64
	for _, id := range productIDs {
		if _, ok := products[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeBadRequest, ErrUnknownProducts.Error(),
			map[string]interface{}{"product_ids": missing})
		return
	}

	orderID, err := h.orders.CreateOrder(ctx, database.Order{UserID: req.UserID, Items: items})
	if err != nil {
		writeServiceError(rw, r, "create order", err)
		return
	}

	h.rec.InvalidateCache(ctx, req.UserID)

	confirmation := OrderConfirmation{
		OrderID: orderID,
		UserID:  req.UserID,
		Items:   make([]OrderLine, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		confirmation.Items = append(confirmation.Items, OrderLine{
			ProductID:   item.ProductID,
			ProductName: products[item.ProductID].Name,
			Quantity:    item.Quantity,
		})
	}

	if h.publisher != nil {
		task := eventprocessor.NewUpdateTask(req.UserID, orderID, productIDs)
		if err := h.publisher.PublishTask(ctx, h.taskTopic, task); err != nil {
			logging.Ctx(r.Context()).Warn().
				Err(err).
				Int64("order_id", orderID).
				Msg("order recorded but update task not enqueued")
		} else {
			confirmation.RecommendationsQueued = true
			confirmation.TaskID = task.TaskID
		}
	}

	rw.Created(confirmation)
}
