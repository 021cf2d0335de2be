// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/shoprec/internal/metrics"
)

// ErrEmptyOrder is returned when an order has no line with a positive quantity.
var ErrEmptyOrder = errors.New("order has no items")

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID int64
	Quantity  int
}

// Order is a placed order. A zero OrderID is assigned by CreateOrder.
type Order struct {
	OrderID   int64
	UserID    int64
	Items     []OrderItem
	CreatedAt time.Time
}

// CreateOrder records an order and its lines in one transaction and returns
// the order id. Lines with a non-positive quantity are rejected.
func (db *DB) CreateOrder(ctx context.Context, order Order) (orderID int64, err error) {
	if len(order.Items) == 0 {
		return 0, ErrEmptyOrder
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return 0, fmt.Errorf("product %d: quantity must be positive, got %d", item.ProductID, item.Quantity)
		}
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "orders", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	orderID = order.OrderID
	err = db.inTx(ctx, func(tx *sql.Tx) error {
		if orderID == 0 {
			if err := tx.QueryRowContext(ctx, `SELECT coalesce(max(order_id), 0) + 1 FROM orders`).Scan(&orderID); err != nil {
				return fmt.Errorf("allocate order id: %w", err)
			}
		}

		var orderNumber int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) + 1 FROM orders WHERE user_id = ?`, order.UserID).Scan(&orderNumber); err != nil {
			return fmt.Errorf("count orders for user %d: %w", order.UserID, err)
		}

		createdAt := order.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (order_id, user_id, order_number, created_at) VALUES (?, ?, ?, ?)`,
			orderID, order.UserID, orderNumber, createdAt); err != nil {
			return fmt.Errorf("insert order %d: %w", orderID, err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, add_to_cart_order) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare order items: %w", err)
		}
		defer logClose(stmt, "statement")

		for i, item := range order.Items {
			if _, err := stmt.ExecContext(ctx, orderID, item.ProductID, item.Quantity, i+1); err != nil {
				return fmt.Errorf("insert item %d of order %d: %w", item.ProductID, orderID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	return orderID, nil
}
