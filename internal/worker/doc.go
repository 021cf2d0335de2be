// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

// Package worker consumes recommendation tasks and keeps the persisted
// recommendations consistent with the order history.
//
// The loop is single-threaded: one message is fetched, handled and then
// acked, retried or dead-lettered before the next one is read.
//
// # Retry and dead letters
//
// Failures are counted per message UUID. Below MaxRetries the worker waits
// RetryDelay and nacks the message for redelivery. At the limit the payload
// is published to the dead-letter topic with failure metadata, the original
// is acked and the counter is reset. Failures wrapping ErrPermanent, such as
// an undecodable payload, are dead-lettered on the first attempt. A panic in
// the handler counts as an ordinary failure.
//
// Delivery is at-least-once, so handlers are idempotent: recomputation
// replaces the stored rows wholesale.
package worker
