// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import (
	"context"
	"fmt"
	"sort"
)

// InteractionSource supplies raw order lines for training.
// This is typically implemented by the database layer.
type InteractionSource interface {
	InteractionRows(ctx context.Context) ([]RawInteraction, error)
}

// LoadInteractions reads all order lines from src and aggregates them.
func LoadInteractions(ctx context.Context, src InteractionSource) (*InteractionTable, error) {
	rows, err := src.InteractionRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load interaction rows: %w", err)
	}
	return AggregateInteractions(rows)
}

type userProduct struct {
	user    int64
	product int64
}

// AggregateInteractions sums quantities per (user, product) pair. Pairs
// whose sum is not positive are dropped.
func AggregateInteractions(rows []RawInteraction) (*InteractionTable, error) {
	if len(rows) == 0 {
		return nil, ErrNoInteractionData
	}

	sums := make(map[userProduct]int64, len(rows))
	for i := range rows {
		sums[userProduct{user: rows[i].UserID, product: rows[i].ProductID}] += rows[i].Quantity
	}

	records := make([]InteractionRecord, 0, len(sums))
	totals := make(map[int64]int64)
	for key, qty := range sums {
		if qty <= 0 {
			continue
		}
		records = append(records, InteractionRecord{UserID: key.user, ProductID: key.product, Quantity: qty})
		totals[key.product] += qty
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: all %d rows have non-positive quantity", ErrNoInteractionData, len(rows))
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].UserID != records[j].UserID {
			return records[i].UserID < records[j].UserID
		}
		return records[i].ProductID < records[j].ProductID
	})

	return &InteractionTable{
		Records:       records,
		ProductTotals: totals,
		RawRows:       len(rows),
	}, nil
}
