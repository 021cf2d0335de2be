// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaTimeout bounds schema creation at startup.
const schemaTimeout = 60 * time.Second

// initialize creates tables and indexes. Every statement is idempotent.
func (db *DB) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()

	if err := db.createTables(ctx); err != nil {
		return err
	}
	if err := db.migrate(ctx); err != nil {
		return err
	}
	return db.createIndexes(ctx)
}

func (db *DB) createTables(ctx context.Context) error {
	for _, q := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	for _, q := range migrationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

func (db *DB) createIndexes(ctx context.Context) error {
	for _, q := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// tableCreationQueries define the catalog, the order history the model is
// trained from, and the persisted recommendation sets.
var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS departments (
		department_id BIGINT PRIMARY KEY,
		department VARCHAR NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS aisles (
		aisle_id BIGINT PRIMARY KEY,
		aisle VARCHAR NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id BIGINT PRIMARY KEY,
		product_name VARCHAR NOT NULL,
		aisle_id BIGINT,
		department_id BIGINT
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		order_number INTEGER,
		created_at TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INTEGER NOT NULL,
		add_to_cart_order INTEGER
	);`,
	// user_id 0 holds the durable popularity fallback
	`CREATE TABLE IF NOT EXISTS recommendations (
		user_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		score DOUBLE NOT NULL,
		rank_position INTEGER NOT NULL DEFAULT 0,
		model_kind VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, product_id, model_kind)
	);`,
}

// migrationQueries bring databases created by earlier releases up to date.
var migrationQueries = []string{
	`ALTER TABLE recommendations ADD COLUMN IF NOT EXISTS rank_position INTEGER DEFAULT 0;`,
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);`,
	`CREATE INDEX IF NOT EXISTS idx_recommendations_user_kind ON recommendations(user_id, model_kind);`,
}
