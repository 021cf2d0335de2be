// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import (
	"context"
	"errors"
	"testing"
)

// staticSource implements InteractionSource for testing.
type staticSource struct {
	rows  []RawInteraction
	err   error
	calls int
}

func (s *staticSource) InteractionRows(ctx context.Context) ([]RawInteraction, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func row(order, user, product, qty int64) RawInteraction {
	return RawInteraction{OrderID: order, UserID: user, ProductID: product, Quantity: qty}
}

// scenarioRows is the two-user example used across the package tests:
// u1 bought p1 x2 and p2 x1, u2 bought p1 x1 and p3 x3.
func scenarioRows() []RawInteraction {
	return []RawInteraction{
		row(10, 1, 1, 2),
		row(10, 1, 2, 1),
		row(20, 2, 1, 1),
		row(20, 2, 3, 3),
	}
}

func TestAggregateInteractions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		rows        []RawInteraction
		wantRecords []InteractionRecord
		wantTotals  map[int64]int64
		wantErr     error
	}{
		{
			name:    "no rows",
			rows:    nil,
			wantErr: ErrNoInteractionData,
		},
		{
			name: "sums repeated pairs across orders",
			rows: []RawInteraction{
				row(1, 7, 3, 2),
				row(2, 7, 3, 5),
				row(2, 7, 1, 1),
			},
			wantRecords: []InteractionRecord{
				{UserID: 7, ProductID: 1, Quantity: 1},
				{UserID: 7, ProductID: 3, Quantity: 7},
			},
			wantTotals: map[int64]int64{1: 1, 3: 7},
		},
		{
			name: "drops non-positive sums",
			rows: []RawInteraction{
				row(1, 1, 1, 2),
				row(2, 1, 1, -2),
				row(3, 1, 2, 1),
				row(4, 2, 5, 0),
			},
			wantRecords: []InteractionRecord{
				{UserID: 1, ProductID: 2, Quantity: 1},
			},
			wantTotals: map[int64]int64{2: 1},
		},
		{
			name: "all rows non-positive",
			rows: []RawInteraction{
				row(1, 1, 1, 0),
				row(2, 2, 1, -1),
			},
			wantErr: ErrNoInteractionData,
		},
		{
			name: "sorted by user then product",
			rows: []RawInteraction{
				row(1, 3, 9, 1),
				row(2, 1, 8, 1),
				row(3, 3, 2, 1),
				row(4, 1, 4, 1),
			},
			wantRecords: []InteractionRecord{
				{UserID: 1, ProductID: 4, Quantity: 1},
				{UserID: 1, ProductID: 8, Quantity: 1},
				{UserID: 3, ProductID: 2, Quantity: 1},
				{UserID: 3, ProductID: 9, Quantity: 1},
			},
			wantTotals: map[int64]int64{2: 1, 4: 1, 8: 1, 9: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table, err := AggregateInteractions(tt.rows)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AggregateInteractions() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AggregateInteractions() unexpected error: %v", err)
			}

			if len(table.Records) != len(tt.wantRecords) {
				t.Fatalf("got %d records, want %d", len(table.Records), len(tt.wantRecords))
			}
			for i, want := range tt.wantRecords {
				if table.Records[i] != want {
					t.Errorf("record[%d] = %+v, want %+v", i, table.Records[i], want)
				}
			}
			if len(table.ProductTotals) != len(tt.wantTotals) {
				t.Fatalf("got %d totals, want %d", len(table.ProductTotals), len(tt.wantTotals))
			}
			for id, want := range tt.wantTotals {
				if got := table.ProductTotals[id]; got != want {
					t.Errorf("total[%d] = %d, want %d", id, got, want)
				}
			}
			if table.RawRows != len(tt.rows) {
				t.Errorf("RawRows = %d, want %d", table.RawRows, len(tt.rows))
			}
		})
	}
}

func TestLoadInteractions_SourceError(t *testing.T) {
	t.Parallel()

	sourceErr := errors.New("connection refused")
	_, err := LoadInteractions(context.Background(), &staticSource{err: sourceErr})
	if !errors.Is(err, sourceErr) {
		t.Fatalf("LoadInteractions() error = %v, want wrapped %v", err, sourceErr)
	}
}
