// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import "math"

// Weighted holds TF-IDF weights aligned with a count matrix.
type Weighted struct {
	// Values are aligned with the count matrix ColIdx.
	Values []float64

	// Norms holds the L2 norm of each weighted row.
	Norms []float64

	// IDF holds the inverse document frequency of each column.
	IDF []float64
}

// ApplyWeights computes weight(u,p) = sqrt(count(u,p)) * ln(N / (1 + df(p))).
// Weights may be zero or negative when a product is bought by nearly every user.
func ApplyWeights(counts *CSRMatrix) *Weighted {
	df := make([]int, counts.Cols)
	for _, col := range counts.ColIdx {
		df[col]++
	}

	n := float64(counts.Rows)
	idf := make([]float64, counts.Cols)
	for col, d := range df {
		idf[col] = math.Log(n / (1 + float64(d)))
	}

	values := make([]float64, len(counts.Values))
	norms := make([]float64, counts.Rows)
	for row := 0; row < counts.Rows; row++ {
		var sumSq float64
		for k := counts.RowPtr[row]; k < counts.RowPtr[row+1]; k++ {
			w := math.Sqrt(counts.Values[k]) * idf[counts.ColIdx[k]]
			values[k] = w
			sumSq += w * w
		}
		norms[row] = math.Sqrt(sumSq)
	}

	return &Weighted{Values: values, Norms: norms, IDF: idf}
}
