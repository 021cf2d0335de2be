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

// ReplaceRecommendations replaces the persisted set for (userID, kind) with
// recs and returns how many rows were deleted. The position of each entry in
// recs is stored with it and breaks score ties on read, so a list of equal
// scores comes back in the order it was saved. Count, delete and insert run
// in one transaction; on any failure the previous rows are left intact and
// the error wraps recommend.ErrPersistence.
func (db *DB) ReplaceRecommendations(ctx context.Context, userID int64, kind recommend.ModelKind, recs []recommend.ScoredProduct) (deleted int, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("replace", "recommendations", time.Since(start), err)
		metrics.RecordPersistence(kind.String(), len(recs), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.inTx(ctx, func(tx *sql.Tx) error {
		where, args := recommendationKey(userID, kind).Clause()
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM recommendations `+where, args...).Scan(&deleted); err != nil {
			return fmt.Errorf("count: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations `+where, args...); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		if len(recs) == 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO recommendations (user_id, product_id, score, rank_position, model_kind, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare: %w", err)
		}
		defer logClose(stmt, "statement")

		now := time.Now().UTC()
		for i, rec := range recs {
			if _, err := stmt.ExecContext(ctx, userID, rec.ProductID, rec.Score, i, kind.String(), now); err != nil {
				return fmt.Errorf("insert product %d: %w", rec.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: replace %s recommendations for user %d: %w", recommend.ErrPersistence, kind, userID, err)
	}
	return deleted, nil
}

// GetRecommendations returns the persisted set for (userID, kind) ordered by
// score descending, then by the position they were saved at. A limit <= 0
// returns every row.
func (db *DB) GetRecommendations(ctx context.Context, userID int64, kind recommend.ModelKind, limit int) (recs []recommend.ScoredProduct, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", "recommendations", time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	where, args := recommendationKey(userID, kind).Clause()

	q := `SELECT product_id, score FROM recommendations ` + where + ` ORDER BY score DESC, rank_position ASC, product_id ASC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer logClose(rows, "rows")

	for rows.Next() {
		var rec recommend.ScoredProduct
		if err := rows.Scan(&rec.ProductID, &rec.Score); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return recs, nil
}

// recommendationKey selects the rows replaced together.
func recommendationKey(userID int64, kind recommend.ModelKind) *query.Filter {
	return query.Where().Eq("user_id", userID).Eq("model_kind", kind.String())
}
