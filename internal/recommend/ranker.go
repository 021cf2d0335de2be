// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import (
	"context"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// selfSimilarity keeps the target user out of its own neighborhood.
const selfSimilarity = -1.0

// neighbor represents a similar user with their similarity score.
type neighbor struct {
	Row        int
	Similarity float64
}

// Rank returns up to n products for userID from snap.
//
// Users missing from the snapshot, and users whose weighted row is all zero,
// receive the popularity ranking at NewUserScore. Otherwise products bought
// by the most similar users are scored by
//
//	final = SimilarityWeight*mean(contributions) + PopularityWeight*total/maxTotal
//
// and clamped to 1. When no neighbor contributes a product the popularity
// ranking is returned at FallbackScore.
func Rank(ctx context.Context, snap *ModelSnapshot, userID int64, n int, cfg *Config) (*Ranking, error) {
	row, ok := snap.UserRow(userID)
	if !ok || snap.RowNorm(row) == 0 {
		return &Ranking{
			Items:  snap.PopularScores(n, cfg.Popularity.NewUserScore),
			Source: SourceColdStart,
		}, nil
	}

	sims, err := similarities(ctx, snap, row, cfg.Compute)
	if err != nil {
		return nil, err
	}

	neighbors := topNeighbors(sims, 2*cfg.Ranking.NeighborK)
	contributions := collectContributions(snap, row, neighbors, &cfg.Ranking)
	if len(contributions) == 0 {
		return &Ranking{
			Items:  snap.PopularScores(n, cfg.Popularity.FallbackScore),
			Source: SourceFallback,
		}, nil
	}

	items := scoreCandidates(snap, contributions, &cfg.Ranking)
	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return &Ranking{Items: items, Source: SourceNeighbors}, nil
}

// similarities computes the cosine similarity of row against every row.
// Rows with a zero norm score 0 and the target row scores selfSimilarity.
func similarities(ctx context.Context, snap *ModelSnapshot, target int, cfg ComputeConfig) ([]float64, error) {
	counts := snap.matrix.Counts
	weights := snap.weighted.Values
	norms := snap.weighted.Norms

	dense := make([]float64, counts.Cols)
	for k := counts.RowPtr[target]; k < counts.RowPtr[target+1]; k++ {
		dense[counts.ColIdx[k]] = weights[k]
	}
	targetNorm := norms[target]

	sims := make([]float64, counts.Rows)
	scoreRange := func(lo, hi int) {
		for r := lo; r < hi; r++ {
			if norms[r] == 0 {
				continue
			}
			var dot float64
			for k := counts.RowPtr[r]; k < counts.RowPtr[r+1]; k++ {
				dot += weights[k] * dense[counts.ColIdx[k]]
			}
			sims[r] = dot / (targetNorm * norms[r])
		}
	}

	if counts.Rows < cfg.ParallelThreshold {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scoreRange(0, counts.Rows)
	} else {
		workers := cfg.Workers
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		chunk := (counts.Rows + workers - 1) / workers

		g, gctx := errgroup.WithContext(ctx)
		for lo := 0; lo < counts.Rows; lo += chunk {
			hi := min(lo+chunk, counts.Rows)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				scoreRange(lo, hi)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	sims[target] = selfSimilarity
	return sims, nil
}

// topNeighbors returns the limit most similar rows, bounded by the number of
// other users, sorted by similarity descending and then by row index.
func topNeighbors(sims []float64, limit int) []neighbor {
	limit = min(limit, len(sims)-1)
	if limit <= 0 {
		return nil
	}

	neighbors := make([]neighbor, len(sims))
	for r, sim := range sims {
		neighbors[r] = neighbor{Row: r, Similarity: sim}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].Row < neighbors[j].Row
	})
	return neighbors[:limit]
}

// collectContributions walks neighbors in order and records, per product,
// every similarity contributed to it.
func collectContributions(snap *ModelSnapshot, target int, neighbors []neighbor, cfg *RankingConfig) map[int64][]float64 {
	owned := make(map[int64]struct{})
	for _, id := range snap.RowProducts(target) {
		owned[id] = struct{}{}
	}

	contributions := make(map[int64][]float64)
	consumed := 0
	for _, nb := range neighbors {
		if nb.Similarity <= 0 {
			continue
		}
		products := snap.RowProducts(nb.Row)
		if len(products) == 0 {
			continue
		}
		for _, id := range products {
			contributions[id] = append(contributions[id], nb.Similarity)
			if _, ok := owned[id]; ok {
				contributions[id] = append(contributions[id], nb.Similarity*cfg.RepeatPurchaseBonus)
			}
		}
		consumed++
		if consumed >= cfg.NeighborK {
			break
		}
	}
	return contributions
}

// scoreCandidates blends averaged similarity with popularity and sorts the
// result by final score descending, then by product id.
func scoreCandidates(snap *ModelSnapshot, contributions map[int64][]float64, cfg *RankingConfig) []CandidateScore {
	maxTotal := float64(snap.MaxTotal())
	items := make([]CandidateScore, 0, len(contributions))
	for id, contribs := range contributions {
		var sum float64
		for _, c := range contribs {
			sum += c
		}
		avg := sum / float64(len(contribs))

		item := CandidateScore{ProductID: id, AggregatedSimilarity: avg, FinalScore: avg}
		if total, ok := snap.ProductTotal(id); ok && maxTotal > 0 {
			item.PopularityScore = float64(total) / maxTotal
			item.FinalScore = cfg.SimilarityWeight*avg + cfg.PopularityWeight*item.PopularityScore
		}
		item.FinalScore = math.Min(item.FinalScore, 1.0)
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].FinalScore != items[j].FinalScore {
			return items[i].FinalScore > items[j].FinalScore
		}
		return items[i].ProductID < items[j].ProductID
	})
	return items
}
