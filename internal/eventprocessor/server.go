// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shoprec/internal/health"
)

const (
	embeddedReadyTimeout = 30 * time.Second
	embeddedMaxPayload   = 1 << 20
)

// EmbeddedServer is an in-process NATS server with JetStream, used when no
// external broker is configured.
type EmbeddedServer struct {
	ns *server.Server
}

// NewEmbeddedServer starts the server and blocks until it accepts clients.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewEmbeddedServer(cfg ServerConfig, logger zerolog.Logger) (*EmbeddedServer, error) {
	ns, err := server.NewServer(&server.Options{
		ServerName:         "shoprec",
		Host:               cfg.Host,
		Port:               cfg.Port,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.JetStreamMaxMem,
		JetStreamMaxStore:  cfg.JetStreamMaxStore,
		MaxPayload:         embeddedMaxPayload,
		NoSigs:             true,
	})
	if err != nil {
		return nil, fmt.Errorf("configure embedded nats: %w", err)
	}
	ns.SetLogger(serverLogger{logger.With().Str("component", "nats-server").Logger()}, false, false)

	go ns.Start()
	if !ns.ReadyForConnections(embeddedReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded nats not ready after %s", embeddedReadyTimeout)
	}
	return &EmbeddedServer{ns: ns}, nil
}

// ClientURL is the address local clients dial.
func (s *EmbeddedServer) ClientURL() string {
	return s.ns.ClientURL()
}

// Shutdown stops the server. It returns ctx.Err() if the server has not
// exited by the time ctx is done.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.ns.Shutdown()
		s.ns.WaitForShutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HealthCheck fails when the server stopped or JetStream is off.
func (s *EmbeddedServer) HealthCheck(_ context.Context) health.ComponentHealth {
	details := map[string]interface{}{"client_url": s.ClientURL()}
	switch {
	case !s.ns.Running():
		return health.ComponentHealth{Error: "embedded NATS server is not running", Details: details}
	case !s.ns.JetStreamEnabled():
		return health.ComponentHealth{Error: "JetStream is disabled", Details: details}
	default:
		return health.ComponentHealth{Healthy: true, Message: "embedded NATS server is running", Details: details}
	}
}

// serverLogger routes nats-server output through zerolog.
type serverLogger struct {
	log zerolog.Logger
}

func (l serverLogger) Noticef(format string, v ...interface{}) { l.log.Info().Msgf(format, v...) }
func (l serverLogger) Warnf(format string, v ...interface{})   { l.log.Warn().Msgf(format, v...) }
func (l serverLogger) Errorf(format string, v ...interface{})  { l.log.Error().Msgf(format, v...) }
func (l serverLogger) Debugf(format string, v ...interface{})  { l.log.Debug().Msgf(format, v...) }
func (l serverLogger) Tracef(format string, v ...interface{})  { l.log.Trace().Msgf(format, v...) }

// Fatalf is logged at error level; the server must not exit the process.
func (l serverLogger) Fatalf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
