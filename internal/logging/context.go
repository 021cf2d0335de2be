// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	idsKey ctxKey = iota
	loggerKey
)

// traceIDs are the ids Ctx adds to every record. The HTTP layer sets the
// request id, the worker sets the task id as correlation id.
type traceIDs struct {
	correlation string
	request     string
}

func idsFrom(ctx context.Context) traceIDs {
	ids, _ := ctx.Value(idsKey).(traceIDs)
	return ids
}

// GenerateCorrelationID returns a short random id (8 hex characters).
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	ids := idsFrom(ctx)
	ids.correlation = id
	return context.WithValue(ctx, idsKey, ids)
}

func CorrelationIDFromContext(ctx context.Context) string {
	return idsFrom(ctx).correlation
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	ids := idsFrom(ctx)
	ids.request = id
	return context.WithValue(ctx, idsKey, ids)
}

func RequestIDFromContext(ctx context.Context) string {
	return idsFrom(ctx).request
}

// ContextWithLogger makes Ctx start from logger instead of the global one.
//
//nolint:gocritic // zerolog.Logger is passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns a logger carrying the correlation and request ids of ctx.
//
//	logging.Ctx(r.Context()).Info().Int64("user_id", id).Msg("order recorded")
func Ctx(ctx context.Context) *zerolog.Logger {
	base, ok := ctx.Value(loggerKey).(zerolog.Logger)
	if !ok {
		base = Logger()
	}

	ids := idsFrom(ctx)
	if ids.correlation == "" && ids.request == "" {
		return &base
	}

	zc := base.With()
	if ids.correlation != "" {
		zc = zc.Str("correlation_id", ids.correlation)
	}
	if ids.request != "" {
		zc = zc.Str("request_id", ids.request)
	}
	l := zc.Logger()
	return &l
}
