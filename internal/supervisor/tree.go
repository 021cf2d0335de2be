// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names a child supervisor of the tree.
type Layer string

const (
	// LayerModel runs scheduled retraining.
	LayerModel Layer = "model-layer"
	// LayerQueue runs the NATS components and the task worker.
	LayerQueue Layer = "queue-layer"
	// LayerAPI runs the HTTP server.
	LayerAPI Layer = "api-layer"
)

var layers = []Layer{LayerModel, LayerQueue, LayerAPI}

// TreeConfig is the restart policy shared by every supervisor in the tree.
// Zero fields take the DefaultTreeConfig value.
type TreeConfig struct {
	// FailureThreshold failures, decaying at FailureDecay per second, put a
	// supervisor into FailureBackoff.
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration

	// ShutdownTimeout bounds how long a service may take to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig matches suture's defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	def := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = def.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = def.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = def.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec() suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// Tree is the process supervisor of the shoprec server: a root with one
// child supervisor per Layer. A service restarting in one layer leaves the
// others running, so the API keeps serving the last trained snapshot while
// a worker recovers.
type Tree struct {
	root     *suture.Supervisor
	children map[Layer]*suture.Supervisor
	config   TreeConfig
}

// NewTree builds the tree. Suture events are logged through logger.
func NewTree(logger *slog.Logger, config TreeConfig) (*Tree, error) {
	if logger == nil {
		return nil, fmt.Errorf("supervisor: logger is required")
	}
	config = config.withDefaults()

	// MustHook has a pointer receiver
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()

	rootSpec := config.spec()
	rootSpec.EventHook = hook
	t := &Tree{
		root:     suture.New("shoprec", rootSpec),
		children: make(map[Layer]*suture.Supervisor, len(layers)),
		config:   config,
	}
	// children inherit the event hook from the root
	for _, l := range layers {
		child := suture.New(string(l), config.spec())
		t.root.Add(child)
		t.children[l] = child
	}
	return t, nil
}

// Add runs svc in layer. It panics on an unknown layer.
func (t *Tree) Add(layer Layer, svc suture.Service) suture.ServiceToken {
	return t.child(layer).Add(svc)
}

// Remove stops and removes a service added with Add.
func (t *Tree) Remove(layer Layer, token suture.ServiceToken) error {
	return t.child(layer).Remove(token)
}

func (t *Tree) child(layer Layer) *suture.Supervisor {
	s, ok := t.children[layer]
	if !ok {
		panic(fmt.Sprintf("supervisor: unknown layer %q", layer))
	}
	return s
}

// ServeBackground runs the tree until ctx is canceled. The channel receives
// the tree's result once it has stopped.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
