// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

/*
Package database is the DuckDB store behind the recommendation service.

It owns the schema (catalog, orders, order items and persisted
recommendations) and implements the ports the rest of the system consumes:

  - recommend.InteractionSource: InteractionRows joins orders with order_items
  - the service catalog: GetProducts with aisle and department names
  - the service store: ReplaceRecommendations, GetRecommendations, CountUserOrders

# Replace Semantics

ReplaceRecommendations counts, deletes and inserts the set for one
(user_id, model_kind) inside a single transaction. Any failure rolls back,
leaving the previous rows in place, and the returned error wraps
recommend.ErrPersistence. The popularity fallback is stored the same way
under user_id 0.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    return err
	}
	defer db.Close()

Tests open ":memory:" databases and serialize DuckDB access with a semaphore.
*/
package database
