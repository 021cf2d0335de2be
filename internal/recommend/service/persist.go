// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package service

import (
	"context"
	"fmt"

	"github.com/tomtom215/shoprec/internal/metrics"
	"github.com/tomtom215/shoprec/internal/recommend"
)

// collaborative ranks count products for userID. When persist is set and the
// result is non-empty, the stored collaborative rows of the user are replaced
// and the number of replaced rows is returned.
func (s *Service) collaborative(ctx context.Context, userID int64, count int, exclude []int64, persist bool) ([]recommend.ProductDetails, int, error) {
	if err := s.ensureTrained(ctx); err != nil {
		return nil, 0, err
	}

	ranking, err := s.engine.Recommend(ctx, userID, recommend.KindCollaborative, count*2)
	if err != nil {
		return nil, 0, err
	}

	skip := excludeSet(exclude)
	ids := make([]int64, 0, count)
	scores := make([]float64, 0, count)
	for _, item := range ranking.Items {
		if len(ids) == count {
			break
		}
		if _, ok := skip[item.ProductID]; ok {
			continue
		}
		ids = append(ids, item.ProductID)
		scores = append(scores, item.FinalScore)
	}

	items, err := s.ProductDetails(ctx, ids, scores)
	if err != nil {
		return nil, 0, err
	}
	metrics.RecordRecommendation(recommend.KindCollaborative.String(), string(ranking.Source))

	s.logger.Debug().
		Int64("user_id", userID).
		Str("source", string(ranking.Source)).
		Int("count", len(items)).
		Msg("collaborative recommendations ranked")

	if !persist || len(items) == 0 {
		return items, 0, nil
	}

	deleted, err := s.SaveRecommendations(ctx, userID, recommend.KindCollaborative, items)
	if err != nil {
		return nil, 0, err
	}
	return items, deleted, nil
}

// SaveRecommendations replaces the stored recommendations of (userID, kind)
// with items and returns the number of rows replaced.
func (s *Service) SaveRecommendations(ctx context.Context, userID int64, kind recommend.ModelKind, items []recommend.ProductDetails) (int, error) {
	recs := make([]recommend.ScoredProduct, len(items))
	for i := range items {
		recs[i] = recommend.ScoredProduct{ProductID: items[i].ProductID, Score: items[i].Score}
	}

	deleted, err := s.store.ReplaceRecommendations(ctx, userID, kind, recs)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("user_id", userID).
		Str("model_kind", kind.String()).
		Int("saved", len(recs)).
		Int("deleted", deleted).
		Msg("recommendations saved")
	return deleted, nil
}

// ProductDetails looks up ids in the catalog and pairs them with scores.
// Order is preserved, ids missing from the catalog are dropped and scores
// are rounded to three decimals.
func (s *Service) ProductDetails(ctx context.Context, ids []int64, scores []float64) ([]recommend.ProductDetails, error) {
	if len(ids) != len(scores) {
		return nil, fmt.Errorf("product details: %d ids but %d scores", len(ids), len(scores))
	}
	if len(ids) == 0 {
		return []recommend.ProductDetails{}, nil
	}

	products, err := s.catalog.GetProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("product details: %w", err)
	}

	items := make([]recommend.ProductDetails, 0, len(ids))
	for i, id := range ids {
		p, ok := products[id]
		if !ok {
			continue
		}
		items = append(items, recommend.ProductDetails{
			ProductID:      p.ID,
			ProductName:    p.Name,
			Score:          recommend.RoundScore(scores[i]),
			AisleName:      p.AisleName,
			DepartmentName: p.DepartmentName,
		})
	}
	return items, nil
}
