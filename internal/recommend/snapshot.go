// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import (
	"time"
)

// ModelSnapshot is an immutable trained model. It is built wholesale and
// never mutated after BuildSnapshot returns.
type ModelSnapshot struct {
	matrix   *CountMatrix
	weighted *Weighted

	productTotals map[int64]int64
	maxTotal      int64

	rawRows       int
	buildDuration time.Duration
	builtAt       time.Time
}

// BuildSnapshot runs the matrix builder and the weighting stage over table.
func BuildSnapshot(table *InteractionTable, popularLimit int) *ModelSnapshot {
	start := time.Now()

	matrix := BuildMatrix(table, popularLimit)
	weighted := ApplyWeights(matrix.Counts)

	totals := make(map[int64]int64, len(table.ProductTotals))
	var maxTotal int64
	for id, total := range table.ProductTotals {
		totals[id] = total
		if total > maxTotal {
			maxTotal = total
		}
	}

	return &ModelSnapshot{
		matrix:        matrix,
		weighted:      weighted,
		productTotals: totals,
		maxTotal:      maxTotal,
		rawRows:       table.RawRows,
		buildDuration: time.Since(start),
		builtAt:       time.Now(),
	}
}

// Shape returns the number of users and products.
func (s *ModelSnapshot) Shape() (users, products int) {
	return s.matrix.Counts.Rows, s.matrix.Counts.Cols
}

// Interactions returns the number of stored (user, product) pairs.
func (s *ModelSnapshot) Interactions() int {
	return s.matrix.Counts.NNZ()
}

// Sparsity returns the percentage of empty cells in the count matrix.
func (s *ModelSnapshot) Sparsity() float64 {
	users, products := s.Shape()
	cells := float64(users) * float64(products)
	if cells == 0 {
		return 0
	}
	return (1 - float64(s.Interactions())/cells) * 100
}

// UserRow returns the row index of userID.
func (s *ModelSnapshot) UserRow(userID int64) (int, bool) {
	return s.matrix.Users.Index(userID)
}

// RowNorm returns the L2 norm of a weighted row.
func (s *ModelSnapshot) RowNorm(row int) float64 {
	return s.weighted.Norms[row]
}

// RowProducts returns the product ids bought by the user at row, ascending.
func (s *ModelSnapshot) RowProducts(row int) []int64 {
	cols, _ := s.matrix.Counts.Row(row)
	ids := make([]int64, len(cols))
	for i, col := range cols {
		ids[i] = s.matrix.Products.ID(col)
	}
	return ids
}

// Count returns the summed quantity userID bought of productID.
func (s *ModelSnapshot) Count(userID, productID int64) float64 {
	row, ok := s.matrix.Users.Index(userID)
	if !ok {
		return 0
	}
	col, ok := s.matrix.Products.Index(productID)
	if !ok {
		return 0
	}
	return s.matrix.Counts.At(row, col)
}

// Weight returns the TF-IDF weight of (userID, productID).
func (s *ModelSnapshot) Weight(userID, productID int64) float64 {
	row, ok := s.matrix.Users.Index(userID)
	if !ok {
		return 0
	}
	col, ok := s.matrix.Products.Index(productID)
	if !ok {
		return 0
	}
	cols, _ := s.matrix.Counts.Row(row)
	lo := s.matrix.Counts.RowPtr[row]
	for k, c := range cols {
		if c == col {
			return s.weighted.Values[lo+k]
		}
	}
	return 0
}

// ProductTotal returns the total quantity sold of productID.
func (s *ModelSnapshot) ProductTotal(productID int64) (int64, bool) {
	total, ok := s.productTotals[productID]
	return total, ok
}

// MaxTotal returns the largest product total.
func (s *ModelSnapshot) MaxTotal() int64 {
	return s.maxTotal
}

// Popular returns up to n product ids from the popularity ranking.
// A negative n returns the whole ranking.
func (s *ModelSnapshot) Popular(n int) []int64 {
	ids := s.matrix.Popular
	if n >= 0 && n < len(ids) {
		ids = ids[:n]
	}
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}

// PopularScores returns up to n popular products, all scored with score.
func (s *ModelSnapshot) PopularScores(n int, score float64) []CandidateScore {
	ids := s.Popular(n)
	items := make([]CandidateScore, len(ids))
	for i, id := range ids {
		items[i] = CandidateScore{ProductID: id, FinalScore: score}
	}
	return items
}

// BuiltAt returns the time the snapshot finished building.
func (s *ModelSnapshot) BuiltAt() time.Time {
	return s.builtAt
}

// BuildDuration returns how long the matrix and weighting stages took.
func (s *ModelSnapshot) BuildDuration() time.Duration {
	return s.buildDuration
}

// RawRows returns the number of source rows the snapshot was built from.
func (s *ModelSnapshot) RawRows() int {
	return s.rawRows
}
