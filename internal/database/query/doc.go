// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

// Package query builds the parameterized WHERE clauses of the database
// package. Values are always bound; column names are trusted identifiers
// written in code.
package query
