// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	// ErrNoInteractionData is returned when the interaction source yields no usable rows.
	ErrNoInteractionData = errors.New("no interaction data")

	// ErrUnsupportedModelKind is returned for model kinds the engine cannot generate.
	ErrUnsupportedModelKind = errors.New("unsupported model kind")

	// ErrNotTrained is returned when a ranking is requested before the first successful train.
	ErrNotTrained = errors.New("model not trained")

	// ErrTrainingInProgress is returned when a train is attempted while another is running.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrPersistence wraps failures of the replace-wholesale persistence path.
	ErrPersistence = errors.New("persistence failure")
)

// ModelKind tags a recommendation set by how it was produced.
type ModelKind string

const (
	// KindPopular ranks products by total purchased quantity.
	KindPopular ModelKind = "popular"

	// KindTFIDF is accepted as a storage tag but never generated.
	KindTFIDF ModelKind = "tfidf"

	// KindCollaborative ranks products bought by similar users.
	KindCollaborative ModelKind = "collaborative"
)

// ParseModelKind converts a string into a ModelKind.
func ParseModelKind(s string) (ModelKind, error) {
	switch k := ModelKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPopular, KindTFIDF, KindCollaborative:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedModelKind, s)
	}
}

// String returns the model kind as stored.
func (k ModelKind) String() string {
	return string(k)
}

// Generatable reports whether the engine can produce recommendations of this kind.
func (k ModelKind) Generatable() bool {
	return k == KindPopular || k == KindCollaborative
}

// RawInteraction is one order line as read from the durable store.
type RawInteraction struct {
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	UserID    int64 `json:"user_id"`
}

// InteractionRecord is the summed quantity a user bought of a product.
type InteractionRecord struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// InteractionTable is the aggregated interaction set a snapshot is built from.
type InteractionTable struct {
	// Records are sorted by user id, then product id. Every quantity is positive.
	Records []InteractionRecord

	// ProductTotals maps product id to the total quantity across all users.
	ProductTotals map[int64]int64

	// RawRows is the number of source rows read.
	RawRows int
}

// CandidateScore is one ranked product.
type CandidateScore struct {
	ProductID int64 `json:"product_id"`

	// AggregatedSimilarity is the mean of the neighbor contributions.
	AggregatedSimilarity float64 `json:"aggregated_similarity"`

	// PopularityScore is the product total divided by the largest total.
	PopularityScore float64 `json:"popularity_score"`

	// FinalScore is in [0, 1].
	FinalScore float64 `json:"final_score"`
}

// RankSource describes which path produced a ranking.
type RankSource string

const (
	// SourceNeighbors means the ranking came from similar users.
	SourceNeighbors RankSource = "neighbors"

	// SourceColdStart means the user had no usable history.
	SourceColdStart RankSource = "cold_start"

	// SourceFallback means no neighbor produced a candidate.
	SourceFallback RankSource = "fallback"

	// SourcePopular means popularity was requested directly.
	SourcePopular RankSource = "popular"
)

// Ranking is the result of a ranking request.
type Ranking struct {
	Items  []CandidateScore `json:"items"`
	Source RankSource       `json:"source"`
}

// ProductIDs returns the ranked product ids in order.
func (r *Ranking) ProductIDs() []int64 {
	ids := make([]int64, len(r.Items))
	for i := range r.Items {
		ids[i] = r.Items[i].ProductID
	}
	return ids
}

// Product is a catalog entry.
type Product struct {
	ID             int64   `json:"product_id"`
	Name           string  `json:"product_name"`
	AisleName      *string `json:"aisle_name,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`
}

// ProductDetails is a recommended product enriched with catalog data.
type ProductDetails struct {
	ProductID      int64   `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Score          float64 `json:"score"`
	AisleName      *string `json:"aisle_name"`
	DepartmentName *string `json:"department_name"`
}

// ScoredProduct is the persisted form of a recommendation.
type ScoredProduct struct {
	ProductID int64   `json:"product_id"`
	Score     float64 `json:"score"`
}

// RoundScore rounds a score to three decimals.
func RoundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}

// TrainStatus values reported by TrainStats.
const (
	TrainStatusTrained = "trained"
	TrainStatusError   = "error"
)

// TrainStats summarizes a training run.
type TrainStats struct {
	Status       string    `json:"status"`
	Users        int       `json:"users,omitempty"`
	Products     int       `json:"products,omitempty"`
	Interactions int       `json:"interactions,omitempty"`
	RawRows      int       `json:"raw_rows,omitempty"`
	Sparsity     float64   `json:"sparsity,omitempty"`
	TrainingTime float64   `json:"training_time,omitempty"`
	ModelShape   [2]int    `json:"model_shape"`
	TrainedAt    time.Time `json:"trained_at,omitempty"`
	Version      int       `json:"version,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// ErrorStats builds the stats returned for a failed train.
func ErrorStats(err error) *TrainStats {
	return &TrainStats{Status: TrainStatusError, Error: err.Error()}
}
