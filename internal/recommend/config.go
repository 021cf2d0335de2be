// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Ranking contains the neighbor walk and score blending parameters.
	Ranking RankingConfig `json:"ranking"`

	// Popularity contains the popularity ranking parameters.
	Popularity PopularityConfig `json:"popularity"`

	// Compute contains parallelism parameters for similarity scoring.
	Compute ComputeConfig `json:"compute"`

	// Training contains training limits.
	Training TrainingConfig `json:"training"`
}

// RankingConfig controls collaborative ranking.
type RankingConfig struct {
	// NeighborK is the number of positive-similarity neighbors consumed.
	// Twice this many rows are examined before the walk stops.
	// Default: 30.
	NeighborK int `json:"neighbor_k"`

	// RepeatPurchaseBonus multiplies the neighbor similarity appended a second
	// time for products the target user already bought.
	// Default: 0.3.
	RepeatPurchaseBonus float64 `json:"repeat_purchase_bonus"`

	// SimilarityWeight is the weight of the averaged neighbor similarity.
	// Default: 0.7.
	SimilarityWeight float64 `json:"similarity_weight"`

	// PopularityWeight is the weight of the normalized product total.
	// Default: 0.3.
	PopularityWeight float64 `json:"popularity_weight"`
}

// PopularityConfig controls the popularity ranking and the fallback scores.
type PopularityConfig struct {
	// Limit is the number of products kept in the popularity ranking.
	// Default: 100.
	Limit int `json:"limit"`

	// NewUserScore is the score given to popular products for users with
	// no usable purchase history.
	// Default: 0.5.
	NewUserScore float64 `json:"new_user_score"`

	// FallbackScore is the score given to popular products when no
	// neighbor produced a candidate.
	// Default: 0.3.
	FallbackScore float64 `json:"fallback_score"`
}

// ComputeConfig controls parallel similarity scoring.
type ComputeConfig struct {
	// ParallelThreshold is the user count at which similarity scoring is
	// split into chunks scored concurrently.
	// Default: 4096.
	ParallelThreshold int `json:"parallel_threshold"`

	// Workers is the number of concurrent chunks. Zero uses GOMAXPROCS.
	Workers int `json:"workers"`
}

// TrainingConfig contains training limits.
type TrainingConfig struct {
	// Timeout bounds a single training run. Zero means unbounded.
	// Default: 10m.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Ranking: RankingConfig{
			NeighborK:           30,
			RepeatPurchaseBonus: 0.3,
			SimilarityWeight:    0.7,
			PopularityWeight:    0.3,
		},
		Popularity: PopularityConfig{
			Limit:         100,
			NewUserScore:  0.5,
			FallbackScore: 0.3,
		},
		Compute: ComputeConfig{
			ParallelThreshold: 4096,
		},
		Training: TrainingConfig{
			Timeout: 10 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Ranking.NeighborK <= 0 {
		return fmt.Errorf("ranking.neighbor_k must be positive, got %d", c.Ranking.NeighborK)
	}
	if c.Ranking.RepeatPurchaseBonus < 0 {
		return fmt.Errorf("ranking.repeat_purchase_bonus must be non-negative, got %f", c.Ranking.RepeatPurchaseBonus)
	}
	if !inUnitInterval(c.Ranking.SimilarityWeight) {
		return fmt.Errorf("ranking.similarity_weight must be in [0, 1], got %f", c.Ranking.SimilarityWeight)
	}
	if !inUnitInterval(c.Ranking.PopularityWeight) {
		return fmt.Errorf("ranking.popularity_weight must be in [0, 1], got %f", c.Ranking.PopularityWeight)
	}
	if c.Popularity.Limit <= 0 {
		return fmt.Errorf("popularity.limit must be positive, got %d", c.Popularity.Limit)
	}
	if !inUnitInterval(c.Popularity.NewUserScore) {
		return fmt.Errorf("popularity.new_user_score must be in [0, 1], got %f", c.Popularity.NewUserScore)
	}
	if !inUnitInterval(c.Popularity.FallbackScore) {
		return fmt.Errorf("popularity.fallback_score must be in [0, 1], got %f", c.Popularity.FallbackScore)
	}
	if c.Compute.ParallelThreshold <= 0 {
		return fmt.Errorf("compute.parallel_threshold must be positive, got %d", c.Compute.ParallelThreshold)
	}
	if c.Compute.Workers < 0 {
		return fmt.Errorf("compute.workers must be non-negative, got %d", c.Compute.Workers)
	}
	if c.Training.Timeout < 0 {
		return fmt.Errorf("training.timeout must be non-negative, got %v", c.Training.Timeout)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// all nested structs hold value types only
	clone := *c
	return &clone
}

func inUnitInterval(v float64) bool {
	return v >= 0 && v <= 1
}
