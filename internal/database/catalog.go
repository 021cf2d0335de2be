// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/shoprec/internal/database/query"
	"github.com/tomtom215/shoprec/internal/metrics"
	"github.com/tomtom215/shoprec/internal/recommend"
)

// CatalogProduct is a product row as written by AddProduct.
// Zero aisle or department ids are stored as NULL.
type CatalogProduct struct {
	ID           int64
	Name         string
	AisleID      int64
	DepartmentID int64
}

// GetProducts returns catalog entries for the given ids, keyed by product id.
// Ids missing from the catalog are absent from the map.
func (db *DB) GetProducts(ctx context.Context, ids []int64) (products map[int64]recommend.Product, err error) {
	products = make(map[int64]recommend.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "products", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := query.Where().In("p.product_id", ids).Clause()
	q := `
		SELECT p.product_id, p.product_name, a.aisle, d.department
		FROM products p
		LEFT JOIN aisles a ON a.aisle_id = p.aisle_id
		LEFT JOIN departments d ON d.department_id = p.department_id
		` + where

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer logClose(rows, "rows")

	for rows.Next() {
		var (
			p          recommend.Product
			aisle      sql.NullString
			department sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &aisle, &department); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if aisle.Valid {
			p.AisleName = &aisle.String
		}
		if department.Valid {
			p.DepartmentName = &department.String
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// AddDepartment inserts or renames a department.
func (db *DB) AddDepartment(ctx context.Context, id int64, name string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO departments (department_id, department) VALUES (?, ?)`, id, name)
	if err != nil {
		return fmt.Errorf("insert department %d: %w", id, err)
	}
	return nil
}

// AddAisle inserts or renames an aisle.
func (db *DB) AddAisle(ctx context.Context, id int64, name string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO aisles (aisle_id, aisle) VALUES (?, ?)`, id, name)
	if err != nil {
		return fmt.Errorf("insert aisle %d: %w", id, err)
	}
	return nil
}

// AddProduct inserts or replaces a catalog product.
func (db *DB) AddProduct(ctx context.Context, p CatalogProduct) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO products (product_id, product_name, aisle_id, department_id) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, nullableID(p.AisleID), nullableID(p.DepartmentID))
	if err != nil {
		return fmt.Errorf("insert product %d: %w", p.ID, err)
	}
	return nil
}

// CountProducts returns the catalog size.
func (db *DB) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func nullableID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}
