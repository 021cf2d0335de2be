// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import "sort"

// IDIndex maps sparse external ids onto contiguous indices assigned in
// ascending id order.
type IDIndex struct {
	ids   []int64
	index map[int64]int
}

// newIDIndex builds an index from ids, which must be sorted and unique.
func newIDIndex(ids []int64) IDIndex {
	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return IDIndex{ids: ids, index: index}
}

// Len returns the number of ids.
func (x IDIndex) Len() int { return len(x.ids) }

// Index returns the index of id.
func (x IDIndex) Index(id int64) (int, bool) {
	i, ok := x.index[id]
	return i, ok
}

// ID returns the id at index i.
func (x IDIndex) ID(i int) int64 { return x.ids[i] }

// CSRMatrix is a compressed sparse row matrix. Within a row, column
// indices are strictly ascending.
type CSRMatrix struct {
	Rows   int
	Cols   int
	RowPtr []int
	ColIdx []int
	Values []float64
}

// NNZ returns the number of stored entries.
func (m *CSRMatrix) NNZ() int { return len(m.ColIdx) }

// Row returns the column indices and values of row i.
func (m *CSRMatrix) Row(i int) ([]int, []float64) {
	lo, hi := m.RowPtr[i], m.RowPtr[i+1]
	return m.ColIdx[lo:hi], m.Values[lo:hi]
}

// At returns the value at (i, j), or zero when nothing is stored there.
func (m *CSRMatrix) At(i, j int) float64 {
	cols, vals := m.Row(i)
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return vals[k]
	}
	return 0
}

// CountMatrix is the user by product count matrix with its index maps.
type CountMatrix struct {
	Users    IDIndex
	Products IDIndex
	Counts   *CSRMatrix

	// Popular holds product ids by descending total quantity.
	Popular []int64
}

// BuildMatrix lays out table as a CSR matrix and computes the popularity
// ranking, keeping at most popularLimit products.
func BuildMatrix(table *InteractionTable, popularLimit int) *CountMatrix {
	users := distinctSorted(table.Records, func(r *InteractionRecord) int64 { return r.UserID })
	products := distinctSorted(table.Records, func(r *InteractionRecord) int64 { return r.ProductID })

	userIdx := newIDIndex(users)
	productIdx := newIDIndex(products)

	counts := &CSRMatrix{
		Rows:   len(users),
		Cols:   len(products),
		RowPtr: make([]int, len(users)+1),
		ColIdx: make([]int, len(table.Records)),
		Values: make([]float64, len(table.Records)),
	}

	// records are sorted by (user, product) and indices follow id order,
	// so a single pass yields ascending columns within each row
	for k := range table.Records {
		rec := &table.Records[k]
		row, _ := userIdx.Index(rec.UserID)
		col, _ := productIdx.Index(rec.ProductID)
		counts.RowPtr[row+1]++
		counts.ColIdx[k] = col
		counts.Values[k] = float64(rec.Quantity)
	}
	for i := 0; i < counts.Rows; i++ {
		counts.RowPtr[i+1] += counts.RowPtr[i]
	}

	return &CountMatrix{
		Users:    userIdx,
		Products: productIdx,
		Counts:   counts,
		Popular:  PopularityRanking(table.ProductTotals, popularLimit),
	}
}

// PopularityRanking orders products by total quantity descending with ties
// broken by ascending product id, keeping at most limit entries.
func PopularityRanking(totals map[int64]int64, limit int) []int64 {
	ids := make([]int64, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := totals[ids[i]], totals[ids[j]]
		if ti != tj {
			return ti > tj
		}
		return ids[i] < ids[j]
	})
	if limit >= 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

func distinctSorted(records []InteractionRecord, key func(*InteractionRecord) int64) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for i := range records {
		id := key(&records[i])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
