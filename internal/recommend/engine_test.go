// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	return engine
}

// blockingSource blocks InteractionRows until release is closed.
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
	rows    []RawInteraction
}

func (b *blockingSource) InteractionRows(ctx context.Context) ([]RawInteraction, error) {
	close(b.entered)
	<-b.release
	return b.rows, nil
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		engine, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine(nil) error: %v", err)
		}
		if engine.Config().Ranking.NeighborK != 30 {
			t.Errorf("NeighborK = %d, want 30", engine.Config().Ranking.NeighborK)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Ranking.NeighborK = 0
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() expected error for neighbor_k = 0")
		}
	})
}

func TestEngine_Train(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	if engine.IsTrained() {
		t.Fatal("new engine reports trained")
	}

	stats, err := engine.Train(context.Background(), &staticSource{rows: scenarioRows()})
	if err != nil {
		t.Fatalf("Train() error: %v", err)
	}
	if !engine.IsTrained() {
		t.Fatal("engine not trained after successful Train()")
	}

	if stats.Status != TrainStatusTrained {
		t.Errorf("Status = %q, want %q", stats.Status, TrainStatusTrained)
	}
	if stats.Users != 2 || stats.Products != 3 || stats.Interactions != 4 {
		t.Errorf("stats = %+v, want 2 users, 3 products, 4 interactions", stats)
	}
	if stats.ModelShape != [2]int{2, 3} {
		t.Errorf("ModelShape = %v, want [2 3]", stats.ModelShape)
	}
	if stats.Version != 1 {
		t.Errorf("Version = %d, want 1", stats.Version)
	}

	current, err := engine.Stats()
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if current.Users != stats.Users || current.Version != stats.Version {
		t.Errorf("Stats() = %+v, want users/version of %+v", current, stats)
	}
}

func TestEngine_TrainFailureLeavesUntrained(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	if _, err := engine.Train(context.Background(), &staticSource{rows: scenarioRows()}); err != nil {
		t.Fatalf("Train() error: %v", err)
	}

	_, err := engine.Train(context.Background(), &staticSource{})
	if !errors.Is(err, ErrNoInteractionData) {
		t.Fatalf("Train() error = %v, want ErrNoInteractionData", err)
	}
	if engine.IsTrained() {
		t.Error("engine still trained after failed Train()")
	}
	if _, err := engine.Recommend(context.Background(), 1, KindPopular, 5); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Recommend() error = %v, want ErrNotTrained", err)
	}
	if _, err := engine.Stats(); !errors.Is(err, ErrNotTrained) {
		t.Errorf("Stats() error = %v, want ErrNotTrained", err)
	}
}

func TestEngine_ConcurrentTrainRejected(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	src := &blockingSource{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		rows:    scenarioRows(),
	}

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = engine.Train(context.Background(), src)
	}()

	<-src.entered
	_, err := engine.Train(context.Background(), &staticSource{rows: scenarioRows()})
	close(src.release)
	wg.Wait()

	if !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("concurrent Train() error = %v, want ErrTrainingInProgress", err)
	}
	if firstErr != nil {
		t.Errorf("first Train() error: %v", firstErr)
	}
}

func TestEngine_Recommend(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	if _, err := engine.Train(context.Background(), &staticSource{rows: scenarioRows()}); err != nil {
		t.Fatalf("Train() error: %v", err)
	}

	tests := []struct {
		name       string
		user       int64
		kind       ModelKind
		n          int
		wantIDs    []int64
		wantSource RankSource
		wantErr    error
	}{
		{"popular", 1, KindPopular, 3, []int64{1, 3, 2}, SourcePopular, nil},
		{"collaborative", 1, KindCollaborative, 5, []int64{3, 1}, SourceNeighbors, nil},
		{"collaborative unknown user", 3, KindCollaborative, 2, []int64{1, 3}, SourceColdStart, nil},
		{"tfidf is storage only", 1, KindTFIDF, 5, nil, "", ErrUnsupportedModelKind},
		{"unknown kind", 1, ModelKind("bogus"), 5, nil, "", ErrUnsupportedModelKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranking, err := engine.Recommend(context.Background(), tt.user, tt.kind, tt.n)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Recommend() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Recommend() error: %v", err)
			}
			if ranking.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", ranking.Source, tt.wantSource)
			}
			if !equalIDs(ranking.ProductIDs(), tt.wantIDs) {
				t.Errorf("ProductIDs() = %v, want %v", ranking.ProductIDs(), tt.wantIDs)
			}
		})
	}
}

func TestEngine_RetrainIsDeterministic(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	src := &staticSource{rows: neighborhoodRows()}

	if _, err := engine.Train(context.Background(), src); err != nil {
		t.Fatalf("first Train() error: %v", err)
	}
	first := engine.Snapshot().Popular(-1)

	if _, err := engine.Train(context.Background(), src); err != nil {
		t.Fatalf("second Train() error: %v", err)
	}
	second := engine.Snapshot().Popular(-1)

	if !equalIDs(first, second) {
		t.Errorf("popularity changed across retrains: %v vs %v", first, second)
	}
	if trains, _, _ := engine.Counters(); trains != 2 {
		t.Errorf("train count = %d, want 2", trains)
	}
}

func TestParseModelKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ModelKind
		wantErr bool
	}{
		{"popular", KindPopular, false},
		{"Collaborative", KindCollaborative, false},
		{" tfidf ", KindTFIDF, false},
		{"", "", true},
		{"content", "", true},
	}

	for _, tt := range tests {
		got, err := ParseModelKind(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedModelKind) {
				t.Errorf("ParseModelKind(%q) error = %v, want ErrUnsupportedModelKind", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseModelKind(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRoundScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want float64
	}{
		{0.75549, 0.755},
		{0.12351, 0.124},
		{1, 1},
		{0, 0},
	}
	for _, tt := range tests {
		if got := RoundScore(tt.in); got != tt.want {
			t.Errorf("RoundScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
