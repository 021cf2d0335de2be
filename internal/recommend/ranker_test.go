// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
)

func TestRank_Scenario(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	snap := BuildSnapshot(mustTable(t, scenarioRows()), cfg.Popularity.Limit)

	t.Run("unknown user gets popularity at new user score", func(t *testing.T) {
		t.Parallel()

		ranking, err := Rank(context.Background(), snap, 3, 2, cfg)
		if err != nil {
			t.Fatalf("Rank() error: %v", err)
		}
		if ranking.Source != SourceColdStart {
			t.Errorf("Source = %q, want %q", ranking.Source, SourceColdStart)
		}
		if !equalIDs(ranking.ProductIDs(), []int64{1, 3}) {
			t.Errorf("ProductIDs() = %v, want [1 3]", ranking.ProductIDs())
		}
		for _, item := range ranking.Items {
			if item.FinalScore != 0.5 {
				t.Errorf("score for %d = %v, want 0.5", item.ProductID, item.FinalScore)
			}
		}
	})

	t.Run("known user blends similarity and popularity", func(t *testing.T) {
		t.Parallel()

		ranking, err := Rank(context.Background(), snap, 1, 10, cfg)
		if err != nil {
			t.Fatalf("Rank() error: %v", err)
		}
		if ranking.Source != SourceNeighbors {
			t.Fatalf("Source = %q, want %q", ranking.Source, SourceNeighbors)
		}
		if !equalIDs(ranking.ProductIDs(), []int64{3, 1}) {
			t.Fatalf("ProductIDs() = %v, want [3 1]", ranking.ProductIDs())
		}

		// u2 is the only neighbor with similarity 1. p1 is owned by u1 so
		// it receives the repeat purchase bonus: mean(1, 0.3) = 0.65.
		wantP3 := 0.7*1 + 0.3*1
		wantP1 := 0.7*0.65 + 0.3*1
		if math.Abs(ranking.Items[0].FinalScore-wantP3) > epsilon {
			t.Errorf("p3 score = %v, want %v", ranking.Items[0].FinalScore, wantP3)
		}
		if math.Abs(ranking.Items[1].FinalScore-wantP1) > epsilon {
			t.Errorf("p1 score = %v, want %v", ranking.Items[1].FinalScore, wantP1)
		}
		if math.Abs(ranking.Items[1].AggregatedSimilarity-0.65) > epsilon {
			t.Errorf("p1 aggregated = %v, want 0.65", ranking.Items[1].AggregatedSimilarity)
		}
	})
}

func TestRank_ZeroNormUser(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	// each product is bought by exactly half of the users, so every idf is ln(2/2) = 0
	snap := BuildSnapshot(mustTable(t, []RawInteraction{
		row(1, 1, 1, 5),
		row(2, 2, 2, 1),
	}), cfg.Popularity.Limit)

	ranking, err := Rank(context.Background(), snap, 1, 5, cfg)
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}
	if ranking.Source != SourceColdStart {
		t.Errorf("Source = %q, want %q", ranking.Source, SourceColdStart)
	}
	if !equalIDs(ranking.ProductIDs(), []int64{1, 2}) {
		t.Errorf("ProductIDs() = %v, want [1 2]", ranking.ProductIDs())
	}
	for _, item := range ranking.Items {
		if item.FinalScore != cfg.Popularity.NewUserScore {
			t.Errorf("score = %v, want %v", item.FinalScore, cfg.Popularity.NewUserScore)
		}
	}
}

func TestRank_NoPositiveNeighbors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	// disjoint baskets give every pair a similarity of zero
	snap := BuildSnapshot(mustTable(t, []RawInteraction{
		row(1, 1, 1, 1),
		row(2, 2, 2, 2),
		row(3, 3, 3, 3),
	}), cfg.Popularity.Limit)

	ranking, err := Rank(context.Background(), snap, 1, 2, cfg)
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}
	if ranking.Source != SourceFallback {
		t.Errorf("Source = %q, want %q", ranking.Source, SourceFallback)
	}
	if !equalIDs(ranking.ProductIDs(), []int64{3, 2}) {
		t.Errorf("ProductIDs() = %v, want [3 2]", ranking.ProductIDs())
	}
	for _, item := range ranking.Items {
		if item.FinalScore != cfg.Popularity.FallbackScore {
			t.Errorf("score = %v, want %v", item.FinalScore, cfg.Popularity.FallbackScore)
		}
	}
}

// neighborhoodRows builds a target user 1 sharing product 100 with users
// 2..6. User 2 is the closest neighbor and each later user is less similar.
// Every product is bought by a minority of users so all weights are positive.
func neighborhoodRows() []RawInteraction {
	rows := []RawInteraction{
		row(1, 1, 100, 1),
		row(1, 1, 101, 1),
	}
	for u := int64(2); u <= 6; u++ {
		rows = append(rows, row(u, u, 100, 1), row(u, u, 200+u, u))
	}
	// padding users keep idf(100) positive
	for u := int64(7); u <= 20; u++ {
		rows = append(rows, row(u, u, 900+u, 1))
	}
	return rows
}

func TestRank_NeighborLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Ranking.NeighborK = 1
	snap := BuildSnapshot(mustTable(t, neighborhoodRows()), cfg.Popularity.Limit)

	ranking, err := Rank(context.Background(), snap, 1, 10, cfg)
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}
	if ranking.Source != SourceNeighbors {
		t.Fatalf("Source = %q, want %q", ranking.Source, SourceNeighbors)
	}

	// only the closest neighbor (user 2) is consumed
	got := map[int64]bool{}
	for _, id := range ranking.ProductIDs() {
		got[id] = true
	}
	if len(got) != 2 || !got[100] || !got[202] {
		t.Errorf("ProductIDs() = %v, want products of user 2 only", ranking.ProductIDs())
	}
}

func TestRank_ScoresInUnitInterval(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	snap := BuildSnapshot(mustTable(t, neighborhoodRows()), cfg.Popularity.Limit)

	for u := int64(1); u <= 21; u++ {
		ranking, err := Rank(context.Background(), snap, u, 50, cfg)
		if err != nil {
			t.Fatalf("Rank(u%d) error: %v", u, err)
		}
		for _, item := range ranking.Items {
			if item.FinalScore < 0 || item.FinalScore > 1 {
				t.Errorf("Rank(u%d) product %d score %v outside [0, 1]", u, item.ProductID, item.FinalScore)
			}
		}
		if ranking.Source != SourceNeighbors {
			// fallbacks keep the popularity order, not id order
			want := snap.Popular(50)
			if got := ranking.ProductIDs(); !slices.Equal(got, want) {
				t.Errorf("Rank(u%d) %s ids = %v, want popularity ranking %v", u, ranking.Source, got, want)
			}
			continue
		}
		for i := 1; i < len(ranking.Items); i++ {
			prev, cur := ranking.Items[i-1], ranking.Items[i]
			if prev.FinalScore < cur.FinalScore ||
				(prev.FinalScore == cur.FinalScore && prev.ProductID > cur.ProductID) {
				t.Errorf("Rank(u%d) not ordered at %d: %+v before %+v", u, i, prev, cur)
			}
		}
	}
}

func TestRank_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	seq := DefaultConfig()
	par := DefaultConfig()
	par.Compute.ParallelThreshold = 1
	par.Compute.Workers = 3

	snap := BuildSnapshot(mustTable(t, neighborhoodRows()), seq.Popularity.Limit)

	for u := int64(1); u <= 6; u++ {
		want, err := Rank(context.Background(), snap, u, 20, seq)
		if err != nil {
			t.Fatalf("sequential Rank(u%d) error: %v", u, err)
		}
		got, err := Rank(context.Background(), snap, u, 20, par)
		if err != nil {
			t.Fatalf("parallel Rank(u%d) error: %v", u, err)
		}
		if len(got.Items) != len(want.Items) {
			t.Fatalf("u%d: parallel returned %d items, want %d", u, len(got.Items), len(want.Items))
		}
		for i := range want.Items {
			if got.Items[i] != want.Items[i] {
				t.Errorf("u%d item %d = %+v, want %+v", u, i, got.Items[i], want.Items[i])
			}
		}
	}
}

func TestRank_CancelledContext(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	snap := BuildSnapshot(mustTable(t, neighborhoodRows()), cfg.Popularity.Limit)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Rank(ctx, snap, 1, 10, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Rank() error = %v, want context.Canceled", err)
	}
}

func TestTopNeighbors(t *testing.T) {
	t.Parallel()

	sims := []float64{0.2, selfSimilarity, 0.9, 0.2, 0}

	got := topNeighbors(sims, 3)
	wantRows := []int{2, 0, 3}
	if len(got) != len(wantRows) {
		t.Fatalf("topNeighbors() returned %d, want %d", len(got), len(wantRows))
	}
	for i, r := range wantRows {
		if got[i].Row != r {
			t.Errorf("neighbor[%d].Row = %d, want %d", i, got[i].Row, r)
		}
	}

	// bounded by the number of other users
	if n := len(topNeighbors(sims, 60)); n != 4 {
		t.Errorf("len(topNeighbors(60)) = %d, want 4", n)
	}
	if n := len(topNeighbors([]float64{selfSimilarity}, 60)); n != 0 {
		t.Errorf("single user topNeighbors = %d, want 0", n)
	}
}
