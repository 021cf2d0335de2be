// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/shoprec/internal/validation"
)

// TaskTypeUpdateRecommendations asks the worker to refresh a user's
// persisted recommendations after an order.
const TaskTypeUpdateRecommendations = "update_recommendations"

// Metadata keys set on task messages.
const (
	MetadataTaskType = "task_type"
	MetadataUserID   = "user_id"
)

// RecommendationTask is the message published on the task topic.
// Task types other than update_recommendations are accepted on the wire and
// skipped by the worker.
type RecommendationTask struct {
	TaskID          string    `json:"task_id" validate:"required,max=128"`
	TaskType        string    `json:"task_type" validate:"required,max=64"`
	UserID          int64     `json:"user_id" validate:"gt=0"`
	OrderID         int64     `json:"order_id" validate:"gte=0"`
	OrderedProducts []int64   `json:"ordered_products" validate:"omitempty,max=1000,dive,gt=0"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// NewUpdateTask creates an update_recommendations task with a fresh id.
func NewUpdateTask(userID, orderID int64, products []int64) *RecommendationTask {
	return &RecommendationTask{
		TaskID:          uuid.New().String(),
		TaskType:        TaskTypeUpdateRecommendations,
		UserID:          userID,
		OrderID:         orderID,
		OrderedProducts: products,
		CreatedAt:       time.Now().UTC(),
	}
}

// EnsureID assigns a task id when none is set.
func (t *RecommendationTask) EnsureID() {
	if t.TaskID == "" {
		t.TaskID = uuid.New().String()
	}
}

// Validate checks the task fields.
func (t *RecommendationTask) Validate() error {
	if verr := validation.ValidateStruct(t); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, verr)
	}
	return nil
}

// MarshalTask validates and encodes a task.
func MarshalTask(task *RecommendationTask) ([]byte, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("marshal task: %w", err)
	}
	return data, nil
}

// UnmarshalTask decodes and validates a task payload.
// Every failure wraps ErrInvalidTask.
func UnmarshalTask(data []byte) (*RecommendationTask, error) {
	var task RecommendationTask
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidTask, err)
	}
	if err := task.Validate(); err != nil {
		return &task, err
	}
	return &task, nil
}
