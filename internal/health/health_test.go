// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockComponent struct {
	healthy  bool
	degraded bool
	err      string
	delay    time.Duration
	calls    atomic.Int32
}

func (m *mockComponent) HealthCheck(ctx context.Context) ComponentHealth {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ComponentHealth{Healthy: false, Error: ctx.Err().Error()}
		}
	}
	return ComponentHealth{Healthy: m.healthy, Degraded: m.degraded, Error: m.err}
}

func TestChecker_CheckAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		required    map[string]*mockComponent
		optional    map[string]*mockComponent
		wantHealthy bool
		wantStatus  Status
	}{
		{
			name:        "no components",
			wantHealthy: true,
			wantStatus:  StatusHealthy,
		},
		{
			name: "all healthy",
			required: map[string]*mockComponent{
				"database": {healthy: true},
				"model":    {healthy: true},
			},
			optional:    map[string]*mockComponent{"cache": {healthy: true}},
			wantHealthy: true,
			wantStatus:  StatusHealthy,
		},
		{
			name: "required failing",
			required: map[string]*mockComponent{
				"database": {healthy: false, err: "connection refused"},
				"model":    {healthy: true},
			},
			wantHealthy: false,
			wantStatus:  StatusUnhealthy,
		},
		{
			name:        "optional failing",
			required:    map[string]*mockComponent{"database": {healthy: true}},
			optional:    map[string]*mockComponent{"cache": {healthy: false, err: "redis down"}},
			wantHealthy: true,
			wantStatus:  StatusDegraded,
		},
		{
			name:        "degraded component",
			required:    map[string]*mockComponent{"nats": {healthy: true, degraded: true}},
			wantHealthy: true,
			wantStatus:  StatusDegraded,
		},
		{
			name:        "unhealthy wins over degraded",
			required:    map[string]*mockComponent{"database": {healthy: false}},
			optional:    map[string]*mockComponent{"cache": {healthy: true, degraded: true}},
			wantHealthy: false,
			wantStatus:  StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewChecker(DefaultConfig())
			for name, c := range tt.required {
				checker.Register(name, c)
			}
			for name, c := range tt.optional {
				checker.RegisterOptional(name, c)
			}

			got := checker.CheckAll(context.Background())
			if got.Healthy != tt.wantHealthy {
				t.Errorf("Healthy = %v, want %v", got.Healthy, tt.wantHealthy)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", got.Status, tt.wantStatus)
			}
			if len(got.Components) != len(tt.required)+len(tt.optional) {
				t.Errorf("got %d components, want %d", len(got.Components), len(tt.required)+len(tt.optional))
			}
			for name := range tt.optional {
				if !got.Components[name].Optional {
					t.Errorf("component %s not marked optional", name)
				}
			}
			for name, c := range got.Components {
				if c.Name != name {
					t.Errorf("component name = %q, want %q", c.Name, name)
				}
				if c.LastCheck.IsZero() {
					t.Errorf("component %s has zero LastCheck", name)
				}
			}
		})
	}
}

func TestChecker_Timeout(t *testing.T) {
	t.Parallel()

	checker := NewChecker(Config{Timeout: 50 * time.Millisecond})
	checker.Register("slow", &mockComponent{healthy: true, delay: time.Second})

	start := time.Now()
	got := checker.CheckAll(context.Background())
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("CheckAll took %v, expected the timeout to cut it short", elapsed)
	}
	if got.Healthy {
		t.Error("expected unhealthy after timeout")
	}
	if c := got.Components["slow"]; c.Healthy || c.Error == "" {
		t.Errorf("slow component = %+v, want unhealthy with error", c)
	}
}

func TestChecker_CheckComponent(t *testing.T) {
	t.Parallel()

	checker := NewChecker(DefaultConfig())
	db := &mockComponent{healthy: true}
	checker.Register("database", db)

	if got := checker.CheckComponent(context.Background(), "database"); !got.Healthy || got.Name != "database" {
		t.Errorf("CheckComponent(database) = %+v", got)
	}
	if db.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", db.calls.Load())
	}

	got := checker.CheckComponent(context.Background(), "missing")
	if got.Healthy || got.Error != "component not found" {
		t.Errorf("CheckComponent(missing) = %+v", got)
	}
}

func TestChecker_Unregister(t *testing.T) {
	t.Parallel()

	checker := NewChecker(DefaultConfig())
	checker.Register("database", &mockComponent{healthy: false})
	checker.Unregister("database")

	got := checker.CheckAll(context.Background())
	if !got.Healthy || len(got.Components) != 0 {
		t.Errorf("CheckAll after Unregister = %+v", got)
	}
}

func TestCheckFunc(t *testing.T) {
	t.Parallel()

	ok := CheckFunc(func(context.Context) error { return nil }).HealthCheck(context.Background())
	if !ok.Healthy {
		t.Error("nil error should report healthy")
	}

	failed := CheckFunc(func(context.Context) error { return errors.New("ping failed") }).HealthCheck(context.Background())
	if failed.Healthy || failed.Error != "ping failed" {
		t.Errorf("failing probe = %+v", failed)
	}
}
