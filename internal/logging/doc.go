// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

/*
Package logging provides zero-allocation structured logging on zerolog.

A global logger is configured once from main with Init and used through the
package helpers:

	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
	logging.Info().Str("addr", addr).Msg("HTTP server listening")
	logging.Err(err).Msg("Training failed")

Components receive a zerolog.Logger in their constructors and tag it:

	logger := logging.WithComponent("worker")

# Context

Ctx(ctx) adds correlation_id (the task id in the worker) and request_id
(set by the HTTP middleware) to every entry.

# Adapters

  - SlogHandler bridges log/slog to zerolog for sutureslog.
  - WatermillAdapter implements watermill.LoggerAdapter for the NATS
    publisher and subscriber.
*/
package logging
