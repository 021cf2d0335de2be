// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import (
	"testing"
)

func mustTable(t *testing.T, rows []RawInteraction) *InteractionTable {
	t.Helper()
	table, err := AggregateInteractions(rows)
	if err != nil {
		t.Fatalf("AggregateInteractions() error: %v", err)
	}
	return table
}

func TestBuildMatrix_Layout(t *testing.T) {
	t.Parallel()

	table := mustTable(t, []RawInteraction{
		row(1, 30, 500, 1),
		row(1, 30, 100, 4),
		row(2, 10, 300, 2),
		row(3, 20, 100, 1),
		row(3, 20, 300, 1),
		row(3, 20, 500, 6),
	})

	m := BuildMatrix(table, 100)

	if m.Users.Len() != 3 || m.Products.Len() != 3 {
		t.Fatalf("shape = %dx%d, want 3x3", m.Users.Len(), m.Products.Len())
	}

	// indices follow ascending id order
	for i, id := range []int64{10, 20, 30} {
		if got, ok := m.Users.Index(id); !ok || got != i {
			t.Errorf("Users.Index(%d) = %d, %v; want %d", id, got, ok, i)
		}
	}
	for i, id := range []int64{100, 300, 500} {
		if got, ok := m.Products.Index(id); !ok || got != i {
			t.Errorf("Products.Index(%d) = %d, %v; want %d", id, got, ok, i)
		}
		if m.Products.ID(i) != id {
			t.Errorf("Products.ID(%d) = %d, want %d", i, m.Products.ID(i), id)
		}
	}

	if m.Counts.NNZ() != 6 {
		t.Fatalf("NNZ = %d, want 6", m.Counts.NNZ())
	}

	wantRowPtr := []int{0, 1, 4, 6}
	for i, want := range wantRowPtr {
		if m.Counts.RowPtr[i] != want {
			t.Errorf("RowPtr[%d] = %d, want %d", i, m.Counts.RowPtr[i], want)
		}
	}

	for r := 0; r < m.Counts.Rows; r++ {
		cols, _ := m.Counts.Row(r)
		for k := 1; k < len(cols); k++ {
			if cols[k] <= cols[k-1] {
				t.Errorf("row %d columns not ascending: %v", r, cols)
			}
		}
	}

	tests := []struct {
		row, col int
		want     float64
	}{
		{0, 1, 2},
		{1, 0, 1},
		{1, 2, 6},
		{2, 0, 4},
		{2, 2, 1},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := m.Counts.At(tt.row, tt.col); got != tt.want {
			t.Errorf("At(%d, %d) = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestPopularityRanking(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		totals map[int64]int64
		limit  int
		want   []int64
	}{
		{
			name:   "descending by total",
			totals: map[int64]int64{1: 5, 2: 9, 3: 1},
			limit:  10,
			want:   []int64{2, 1, 3},
		},
		{
			name:   "ties broken by ascending id",
			totals: map[int64]int64{9: 4, 3: 4, 5: 4, 1: 2},
			limit:  10,
			want:   []int64{3, 5, 9, 1},
		},
		{
			name:   "truncated to limit",
			totals: map[int64]int64{1: 1, 2: 2, 3: 3, 4: 4},
			limit:  2,
			want:   []int64{4, 3},
		},
		{
			name:   "empty",
			totals: map[int64]int64{},
			limit:  5,
			want:   []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := PopularityRanking(tt.totals, tt.limit)
			if !equalIDs(got, tt.want) {
				t.Errorf("PopularityRanking() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildMatrix_PopularityLimit(t *testing.T) {
	t.Parallel()

	rows := make([]RawInteraction, 0, 150)
	for p := int64(1); p <= 150; p++ {
		rows = append(rows, row(p, 1, p, p))
	}
	m := BuildMatrix(mustTable(t, rows), 100)

	if len(m.Popular) != 100 {
		t.Fatalf("len(Popular) = %d, want 100", len(m.Popular))
	}
	if m.Popular[0] != 150 || m.Popular[99] != 51 {
		t.Errorf("Popular bounds = %d..%d, want 150..51", m.Popular[0], m.Popular[99])
	}
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
