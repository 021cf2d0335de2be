// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shoprec/internal/config"
	"github.com/tomtom215/shoprec/internal/health"
)

func TestInitNATS_Disabled(t *testing.T) {
	cfg := &config.Config{NATS: config.NATSConfig{Enabled: false}}

	c, err := InitNATS(cfg, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("InitNATS() error: %v", err)
	}
	if c != nil {
		t.Fatal("expected nil components when NATS is disabled")
	}

	// a disabled queue must not leak a typed nil into the API
	if pub := c.TaskPublisher(); pub != nil {
		t.Errorf("TaskPublisher() = %#v, want nil interface", pub)
	}
}

func TestNATSComponents_NilSafe(t *testing.T) {
	var c *NATSComponents

	if err := c.Start(context.Background()); err != nil {
		t.Errorf("Start() = %v, want nil", err)
	}
	if c.IsRunning() {
		t.Error("nil components report running")
	}
	c.Shutdown(context.Background())
	c.close(context.Background())

	checker := health.NewChecker(health.DefaultConfig())
	c.RegisterHealth(checker)
	if overall := checker.CheckAll(context.Background()); len(overall.Components) != 0 {
		t.Errorf("registered %d components for a disabled queue", len(overall.Components))
	}
}

func TestNATSComponents_Lifecycle(t *testing.T) {
	c := &NATSComponents{}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !c.IsRunning() {
		t.Fatal("not running after Start")
	}

	done := make(chan struct{})
	go func() {
		c.Shutdown(context.Background())
		c.Shutdown(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown blocked")
	}
	if c.IsRunning() {
		t.Error("running after Shutdown")
	}
	if c.TaskPublisher() != nil {
		t.Error("TaskPublisher() should be nil without a publisher")
	}
}

func TestBuildWorkerConfig(t *testing.T) {
	cfg := &config.Config{
		NATS: config.NATSConfig{TaskTopic: "recommendations.tasks", DeadLetterTopic: "recommendations.dead_letter"},
		Worker: config.WorkerConfig{
			MaxRetries:            5,
			RetryDelay:            time.Second,
			TaskTimeout:           time.Minute,
			RetrainOrderThreshold: 4,
			MinOrders:             1,
		},
		Recommend: config.RecommendConfig{DefaultCount: 15},
	}

	wc := buildWorkerConfig(cfg)
	if wc.Topic != "recommendations.tasks" || wc.DeadLetterTopic != "recommendations.dead_letter" {
		t.Errorf("topics = %q, %q", wc.Topic, wc.DeadLetterTopic)
	}
	if wc.MaxRetries != 5 || wc.RetryDelay != time.Second || wc.TaskTimeout != time.Minute {
		t.Errorf("retry settings = %+v", wc)
	}
	if wc.MinOrders != 1 || wc.RetrainOrderThreshold != 4 || wc.RecommendCount != 15 {
		t.Errorf("task settings = %+v", wc)
	}
	if err := wc.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}
