// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/shoprec/internal/eventprocessor"
	"github.com/tomtom215/shoprec/internal/logging"
	"github.com/tomtom215/shoprec/internal/recommend"
)

// ErrUnknownProducts is returned when an order references products missing
// from the catalog.
var ErrUnknownProducts = errors.New("one or more products not found")

// writeServiceError maps service errors to responses. Unknown errors are
// logged and reported as 500 without their details.
func writeServiceError(rw *ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, recommend.ErrUnsupportedModelKind):
		rw.BadRequest(err.Error())
	case errors.Is(err, eventprocessor.ErrInvalidTask):
		rw.ValidationError(err.Error(), nil)
	case errors.Is(err, recommend.ErrTrainingInProgress):
		rw.Conflict("training already in progress")
	case errors.Is(err, recommend.ErrNoInteractionData):
		rw.ServiceUnavailable("no interaction data available")
	case errors.Is(err, recommend.ErrNotTrained):
		rw.ServiceUnavailable("model is not trained")
	case errors.Is(err, eventprocessor.ErrNATSNotEnabled):
		rw.ServiceUnavailable("task queue is disabled")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, op+" timed out")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")
		rw.InternalError(op + " failed")
	}
}
