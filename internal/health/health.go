// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

// Package health aggregates component health checks for the /health endpoint.
package health

import (
	"context"
	"sync"
	"time"
)

// Status is the aggregated health status.
type Status string

const (
	// StatusHealthy indicates all components are functioning normally.
	StatusHealthy Status = "healthy"
	// StatusDegraded indicates an optional component is failing or a
	// component reports degraded operation.
	StatusDegraded Status = "degraded"
	// StatusUnhealthy indicates a required component is failing.
	StatusUnhealthy Status = "unhealthy"
)

// Config holds configuration for health checking.
type Config struct {
	// Timeout is the maximum time to wait for a single check.
	Timeout time.Duration
}

// DefaultConfig returns the default health configuration.
func DefaultConfig() Config {
	return Config{Timeout: 5 * time.Second}
}

// ComponentHealth is the health of a single component.
type ComponentHealth struct {
	Healthy   bool                   `json:"healthy"`
	Degraded  bool                   `json:"degraded,omitempty"`
	Optional  bool                   `json:"optional,omitempty"`
	Name      string                 `json:"name"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
	LastCheck time.Time              `json:"last_check"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Checkable is implemented by components that support health checking.
type Checkable interface {
	HealthCheck(ctx context.Context) ComponentHealth
}

// CheckFunc adapts a plain error-returning probe to Checkable. A nil error
// reports healthy.
type CheckFunc func(ctx context.Context) error

// HealthCheck implements Checkable.
func (f CheckFunc) HealthCheck(ctx context.Context) ComponentHealth {
	if err := f(ctx); err != nil {
		return ComponentHealth{Healthy: false, Error: err.Error()}
	}
	return ComponentHealth{Healthy: true}
}

// Overall is the aggregated health of all registered components.
type Overall struct {
	Healthy    bool                       `json:"healthy"`
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

type registration struct {
	check    Checkable
	optional bool
}

// Checker runs the registered health checks.
type Checker struct {
	config     Config
	mu         sync.RWMutex
	components map[string]registration
}

// NewChecker creates a new health checker.
func NewChecker(cfg Config) *Checker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Checker{
		config:     cfg,
		components: make(map[string]registration),
	}
}

// Register adds a required component. A failing required component makes
// the overall status unhealthy.
func (h *Checker) Register(name string, component Checkable) {
	h.register(name, component, false)
}

// RegisterOptional adds a component whose failure only degrades the
// overall status, such as the cache or the task queue.
func (h *Checker) RegisterOptional(name string, component Checkable) {
	h.register(name, component, true)
}

func (h *Checker) register(name string, component Checkable, optional bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[name] = registration{check: component, optional: optional}
}

// Unregister removes a component.
func (h *Checker) Unregister(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.components, name)
}

// CheckAll runs every registered check concurrently.
func (h *Checker) CheckAll(ctx context.Context) Overall {
	h.mu.RLock()
	components := make(map[string]registration, len(h.components))
	for name, reg := range h.components {
		components[name] = reg
	}
	h.mu.RUnlock()

	overall := Overall{
		Healthy:    true,
		Status:     StatusHealthy,
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth, len(components)),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, reg := range components {
		wg.Add(1)
		go func(name string, reg registration) {
			defer wg.Done()
			result := h.run(ctx, name, reg)

			mu.Lock()
			defer mu.Unlock()
			overall.Components[name] = result

			switch {
			case !result.Healthy && !reg.optional:
				overall.Healthy = false
				overall.Status = StatusUnhealthy
			case (!result.Healthy || result.Degraded) && overall.Status == StatusHealthy:
				overall.Status = StatusDegraded
			}
		}(name, reg)
	}

	wg.Wait()
	return overall
}

// CheckComponent runs the check of a single component.
func (h *Checker) CheckComponent(ctx context.Context, name string) ComponentHealth {
	h.mu.RLock()
	reg, exists := h.components[name]
	h.mu.RUnlock()

	if !exists {
		return ComponentHealth{
			Name:      name,
			Healthy:   false,
			Error:     "component not found",
			LastCheck: time.Now(),
		}
	}
	return h.run(ctx, name, reg)
}

func (h *Checker) run(ctx context.Context, name string, reg registration) ComponentHealth {
	checkCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	resultCh := make(chan ComponentHealth, 1)
	go func() {
		resultCh <- reg.check.HealthCheck(checkCtx)
	}()

	var result ComponentHealth
	select {
	case result = <-resultCh:
	case <-checkCtx.Done():
		result = ComponentHealth{
			Healthy: false,
			Error:   "health check timeout",
		}
	}
	result.Name = name
	result.Optional = reg.optional
	result.LastCheck = time.Now()
	return result
}
