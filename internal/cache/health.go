// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package cache

import (
	"context"
	"errors"
)

// probeKey is never written.
const probeKey = "__shoprec_health_probe__"

// Probe reads a key that never exists. A miss proves the backend answers;
// any other error, including an open breaker, is returned.
func Probe(ctx context.Context, c Cache) error {
	_, err := c.Get(ctx, probeKey)
	if err == nil || errors.Is(err, ErrCacheMiss) {
		return nil
	}
	return err
}
