// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/shoprec/internal/recommend"
	"github.com/tomtom215/shoprec/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// RecommendationsRequest holds the validated parameters of
// GET /api/v1/recommendations/{userID}.
type RecommendationsRequest struct {
	UserID    int64   `json:"user_id" validate:"gte=0"`
	ModelKind string  `json:"model_kind" validate:"modelkind"`
	Count     int     `json:"count" validate:"gte=0,lte=1000"`
	UseCache  bool    `json:"use_cache"`
	Exclude   []int64 `json:"exclude" validate:"omitempty,max=1000,dive,gt=0"`
}

// TaskRequest is the body of POST /api/v1/tasks. An empty task_id is
// assigned by the server.
type TaskRequest struct {
	TaskID          string  `json:"task_id" validate:"omitempty,max=128"`
	TaskType        string  `json:"task_type" validate:"required,max=64"`
	UserID          int64   `json:"user_id" validate:"gt=0"`
	OrderID         int64   `json:"order_id" validate:"gte=0"`
	OrderedProducts []int64 `json:"ordered_products" validate:"omitempty,max=1000,dive,gt=0"`
}

// OrderItemRequest is one line of an order.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gt=0,lte=1000"`
}

// OrderRequest is the body of POST /api/v1/orders.
type OrderRequest struct {
	UserID int64              `json:"user_id" validate:"gt=0"`
	Items  []OrderItemRequest `json:"items" validate:"required,min=1,max=500,unique=ProductID,dive"`
}

// parseRecommendationsRequest reads path and query parameters. Absent
// parameters take their defaults: collaborative, count 0 (the service
// default), use_cache true.
func parseRecommendationsRequest(r *http.Request) (*RecommendationsRequest, error) {
	userID, err := parseUserID(r)
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	req := &RecommendationsRequest{
		UserID:    userID,
		ModelKind: recommend.KindCollaborative.String(),
		UseCache:  true,
	}
	if kind := q.Get("model_kind"); kind != "" {
		req.ModelKind = kind
	}
	if req.Count, err = parseIntQuery(r, "count"); err != nil {
		return nil, err
	}
	if v := q.Get("use_cache"); v != "" {
		if req.UseCache, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("use_cache must be a boolean, got %q", v)
		}
	}
	if req.Exclude, err = parseIDList(q.Get("exclude")); err != nil {
		return nil, err
	}
	return req, nil
}

func parseUserID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return id, nil
}

// parseIntQuery returns 0 when the parameter is absent.
func parseIntQuery(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

// parseIDList parses a comma separated id list such as "1,2,3".
func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q in list", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// decodeJSON decodes a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// validateRequest runs struct validation and writes a 400 on failure.
// It reports whether the request is valid.
func validateRequest(rw *ResponseWriter, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	rw.ValidationError(verr.Summary(), verr.Details())
	return false
}
