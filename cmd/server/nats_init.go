// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shoprec/internal/api"
	"github.com/tomtom215/shoprec/internal/config"
	"github.com/tomtom215/shoprec/internal/eventprocessor"
	"github.com/tomtom215/shoprec/internal/health"
	"github.com/tomtom215/shoprec/internal/logging"
	"github.com/tomtom215/shoprec/internal/supervisor"
	"github.com/tomtom215/shoprec/internal/supervisor/services"
	"github.com/tomtom215/shoprec/internal/worker"
)

// NATSComponents holds the task queue: the optional embedded server, the
// JetStream stream, the publisher used by the API and the worker, and the
// worker's durable subscriber.
type NATSComponents struct {
	server            *eventprocessor.EmbeddedServer
	natsConn          *natsgo.Conn
	stream            *eventprocessor.TaskStream
	publisher         *eventprocessor.Publisher
	subscriber        *eventprocessor.Subscriber
	worker            *worker.Worker

	mu        sync.Mutex
	running   bool
	closeOnce sync.Once
}

// InitNATS connects the task queue. It returns nil, nil when NATS is
// disabled; the API then answers 503 on POST /api/v1/tasks and orders are
// recorded without an update task.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func InitNATS(cfg *config.Config, rec worker.Recommender, logger zerolog.Logger) (*NATSComponents, error) {
	if !cfg.NATS.Enabled {
		logger.Info().Msg("task queue disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	components := &NATSComponents{}
	natsURL := cfg.NATS.URL

	if cfg.NATS.EmbeddedServer {
		serverCfg := eventprocessor.DefaultServerConfig()
		serverCfg.StoreDir = cfg.NATS.StoreDir
		serverCfg.JetStreamMaxMem = cfg.NATS.MaxMemory
		serverCfg.JetStreamMaxStore = cfg.NATS.MaxStore

		server, err := eventprocessor.NewEmbeddedServer(serverCfg, logger)
		if err != nil {
			return nil, err
		}
		components.server = server
		natsURL = server.ClientURL()
		logger.Info().Str("url", natsURL).Msg("embedded NATS server started")
	} else {
		logger.Info().Str("url", natsURL).Msg("using external NATS server")
	}

	nc, err := natsgo.Connect(natsURL,
		natsgo.Name("shoprec-stream-admin"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		components.close(context.Background())
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	components.natsConn = nc

	js, err := jetstream.New(nc)
	if err != nil {
		components.close(context.Background())
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	streamCfg := eventprocessor.DefaultStreamConfig()
	stream, err := eventprocessor.NewTaskStream(js, streamCfg)
	if err != nil {
		components.close(context.Background())
		return nil, fmt.Errorf("task stream: %w", err)
	}
	components.stream = stream

	// the stream must exist before the first publish
	if _, err := stream.Ensure(context.Background()); err != nil {
		components.close(context.Background())
		return nil, err
	}

	wmLogger := logging.NewWatermillAdapter(logger)

	publisher, err := eventprocessor.NewPublisher(eventprocessor.DefaultPublisherConfig(natsURL), wmLogger)
	if err != nil {
		components.close(context.Background())
		return nil, err
	}
	publisher.SetCircuitBreaker(eventprocessor.NewCircuitBreaker(
		eventprocessor.DefaultCircuitBreakerConfig("nats-publisher"), logger))
	components.publisher = publisher

	subCfg := eventprocessor.DefaultSubscriberConfig(natsURL)
	subCfg.DurableName = cfg.NATS.DurableName
	subCfg.QueueGroup = cfg.NATS.QueueGroup
	subCfg.AckWaitTimeout = cfg.NATS.AckWait
	subCfg.StreamName = streamCfg.Name
	subscriber, err := eventprocessor.NewSubscriber(&subCfg, wmLogger)
	if err != nil {
		components.close(context.Background())
		return nil, err
	}
	components.subscriber = subscriber

	handler, err := worker.NewHandler(rec, buildWorkerConfig(cfg), logger)
	if err != nil {
		components.close(context.Background())
		return nil, err
	}
	w, err := worker.New(subscriber, publisher, handler, buildWorkerConfig(cfg), logger)
	if err != nil {
		components.close(context.Background())
		return nil, err
	}
	components.worker = w

	logger.Info().
		Str("task_topic", cfg.NATS.TaskTopic).
		Str("dead_letter_topic", cfg.NATS.DeadLetterTopic).
		Str("durable", subCfg.DurableName).
		Msg("task queue initialized")

	return components, nil
}

func buildWorkerConfig(cfg *config.Config) worker.Config {
	wc := worker.DefaultConfig()
	wc.Topic = cfg.NATS.TaskTopic
	wc.DeadLetterTopic = cfg.NATS.DeadLetterTopic
	wc.MaxRetries = cfg.Worker.MaxRetries
	wc.RetryDelay = cfg.Worker.RetryDelay
	wc.TaskTimeout = cfg.Worker.TaskTimeout
	wc.MinOrders = cfg.Worker.MinOrders
	wc.RetrainOrderThreshold = cfg.Worker.RetrainOrderThreshold
	wc.RecommendCount = cfg.Recommend.DefaultCount
	return wc
}

// Start checks the task stream again, recreating it if it was deleted. It
// is called by the supervisor on every (re)start of the NATS service.
func (c *NATSComponents) Start(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.stream != nil {
		stream, err := c.stream.Ensure(ctx)
		if err != nil {
			return err
		}
		info := stream.CachedInfo()
		logging.Info().
			Str("name", info.Config.Name).
			Strs("subjects", info.Config.Subjects).
			Dur("max_age", info.Config.MaxAge).
			Msg("JetStream stream ready")
	}

	c.mu.Lock()
	c.running = true
	c.mu.Unlock()
	return nil
}

// Shutdown closes the subscriber, publisher and connection, then stops the
// embedded server. It runs once.
func (c *NATSComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}

	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	logging.Info().Msg("shutting down task queue")
	c.close(ctx)
	logging.Info().Msg("task queue shutdown complete")
}

// close releases whatever was created, in reverse order. Only the first
// call has an effect.
func (c *NATSComponents) close(ctx context.Context) {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() { c.closeAll(ctx) })
}

func (c *NATSComponents) closeAll(ctx context.Context) {
	if c.subscriber != nil {
		if err := c.subscriber.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing subscriber")
		}
	}
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing publisher")
		}
	}
	if c.natsConn != nil {
		c.natsConn.Close()
	}
	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("error shutting down embedded NATS server")
		}
	}
}

// IsRunning reports whether Start succeeded and Shutdown has not run.
func (c *NATSComponents) IsRunning() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// TaskPublisher returns the publisher as an api.TaskPublisher. The result
// is a nil interface, not a typed nil, when the queue is disabled.
func (c *NATSComponents) TaskPublisher() api.TaskPublisher {
	if c == nil || c.publisher == nil {
		return nil
	}
	return c.publisher
}

// RegisterHealth adds the queue components to the checker. They are
// optional: a broker outage degrades the service but recommendations are
// still served.
func (c *NATSComponents) RegisterHealth(checker *health.Checker) {
	if c == nil {
		return
	}
	if c.server != nil {
		checker.RegisterOptional("nats_server", c.server)
	}
	if c.publisher != nil {
		checker.RegisterOptional("nats_publisher", c.publisher)
	}
	if c.worker != nil {
		checker.RegisterOptional("worker", c.worker)
	}
}

// addToSupervisor registers the queue services. It does nothing when the
// queue is disabled.
func (c *NATSComponents) addToSupervisor(tree *supervisor.Tree) {
	if c == nil {
		return
	}
	tree.Add(supervisor.LayerQueue, services.NewNATSComponentsService(c, 10*time.Second))
	if c.worker != nil {
		tree.Add(supervisor.LayerQueue, services.NewWorkerService(c.worker))
	}
	logging.Info().Msg("task queue added to supervisor tree")
}
