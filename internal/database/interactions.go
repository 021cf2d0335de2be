// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/shoprec/internal/metrics"
	"github.com/tomtom215/shoprec/internal/recommend"
)

// InteractionRows returns every order line joined with its order's user.
// It implements recommend.InteractionSource.
func (db *DB) InteractionRows(ctx context.Context) (rows []recommend.RawInteraction, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "order_items", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	const q = `
		SELECT oi.order_id, oi.product_id, oi.quantity, o.user_id
		FROM order_items oi
		JOIN orders o ON o.order_id = oi.order_id
		ORDER BY o.user_id, oi.product_id, oi.order_id
	`

	result, err := db.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer logClose(result, "rows")

	for result.Next() {
		var r recommend.RawInteraction
		if err := result.Scan(&r.OrderID, &r.ProductID, &r.Quantity, &r.UserID); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		rows = append(rows, r)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return rows, nil
}

// CountUserOrders returns the number of orders placed by a user.
func (db *DB) CountUserOrders(ctx context.Context, userID int64) (count int, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "orders", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM orders WHERE user_id = ?`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders for user %d: %w", userID, err)
	}
	return count, nil
}
