// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/shoprec/internal/logging"
)

const (
	RequestIDHeader     = "X-Request-ID"
	CorrelationIDHeader = "X-Correlation-ID"

	maxRequestIDLength = 128
)

// RequestID tags the request with a request id and a correlation id, both
// taken from upstream headers when usable and generated otherwise. The ids
// are echoed in the response and stored in the logging context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := headerID(r, RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		correlationID := headerID(r, CorrelationIDHeader)
		if correlationID == "" {
			correlationID = logging.GenerateCorrelationID()
		}

		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := logging.ContextWithCorrelationID(
			logging.ContextWithRequestID(r.Context(), requestID), correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// headerID returns the header value if it is short and printable ASCII,
// so forged ids cannot inject control characters into log lines.
func headerID(r *http.Request, name string) string {
	v := r.Header.Get(name)
	if len(v) > maxRequestIDLength {
		return ""
	}
	for i := 0; i < len(v); i++ {
		if v[i] < 0x21 || v[i] > 0x7e {
			return ""
		}
	}
	return v
}
