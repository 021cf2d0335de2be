// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package worker

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/shoprec/internal/eventprocessor"
)

// Config holds worker settings.
type Config struct {
	// Topic is the task topic consumed by the worker.
	Topic string

	// DeadLetterTopic receives tasks that exhausted their retries.
	DeadLetterTopic string

	// MaxRetries is the number of failures after which a task is dead-lettered.
	MaxRetries int

	// RetryDelay is waited before a failed task is nacked.
	RetryDelay time.Duration

	// TaskTimeout bounds a single task. Zero means unbounded.
	TaskTimeout time.Duration

	// MinOrders is the order count below which a user is skipped.
	MinOrders int

	// RetrainOrderThreshold retrains the model when the user's order count
	// is at or below it, so early customers enter the model quickly.
	RetrainOrderThreshold int

	// RecommendCount is the number of recommendations recomputed per task.
	RecommendCount int
}

// DefaultConfig returns the default worker configuration.
func DefaultConfig() Config {
	return Config{
		Topic:                 eventprocessor.DefaultTaskTopic,
		DeadLetterTopic:       eventprocessor.DefaultDeadLetterTopic,
		MaxRetries:            3,
		RetryDelay:            500 * time.Millisecond,
		TaskTimeout:           2 * time.Minute,
		MinOrders:             2,
		RetrainOrderThreshold: 3,
		RecommendCount:        20,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Topic == "" {
		return errors.New("task topic is required")
	}
	if c.DeadLetterTopic == "" {
		return errors.New("dead letter topic is required")
	}
	if c.DeadLetterTopic == c.Topic {
		return fmt.Errorf("dead letter topic must differ from task topic %q", c.Topic)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative, got %v", c.RetryDelay)
	}
	if c.TaskTimeout < 0 {
		return fmt.Errorf("task timeout cannot be negative, got %v", c.TaskTimeout)
	}
	if c.MinOrders < 0 {
		return fmt.Errorf("min orders cannot be negative, got %d", c.MinOrders)
	}
	if c.RecommendCount < 1 {
		return fmt.Errorf("recommend count must be positive, got %d", c.RecommendCount)
	}
	return nil
}
