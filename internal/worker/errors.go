// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package worker

import (
	"errors"
	"fmt"
)

// ErrPermanent marks a failure that no retry can fix. Such tasks are
// dead-lettered on the first attempt.
var ErrPermanent = errors.New("permanent failure")

// Permanent wraps err so that errors.Is(err, ErrPermanent) holds.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// IsPermanent reports whether err should skip the retry budget.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrPermanent)
}
