// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package service

import (
	"context"
	"errors"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shoprec/internal/cache"
	"github.com/tomtom215/shoprec/internal/metrics"
	"github.com/tomtom215/shoprec/internal/recommend"
)

// Popularity sources reported to metrics.
const (
	sourceCache    = "cache"
	sourceFallback = "fallback"
	sourceSnapshot = "snapshot"
)

func (s *Service) popular(ctx context.Context, count int, useCache bool, exclude []int64) ([]recommend.ProductDetails, error) {
	var (
		items  []recommend.ProductDetails
		source string
		err    error
	)
	if useCache {
		items, source, err = s.readPopular(ctx, count*2)
	} else {
		// fetch enough that excluded products cannot shorten the result
		items, err = s.computePopular(ctx, count+len(exclude))
		source = sourceSnapshot
	}
	if errors.Is(err, recommend.ErrNoInteractionData) {
		s.logger.Warn().Msg("no interaction data, returning empty popular list")
		return []recommend.ProductDetails{}, nil
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(recommend.KindPopular.String(), source)
	return filterDetails(items, excludeSet(exclude), count), nil
}

// readPopular reads up to n popular products. The cache is consulted first,
// a miss is recomputed and written back, and an unavailable cache falls back
// to the durable rows stored under PopularUserID.
func (s *Service) readPopular(ctx context.Context, n int) ([]recommend.ProductDetails, string, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, s.cfg.PopularCacheKey)
		switch {
		case err == nil:
			var items []recommend.ProductDetails
			decodeErr := json.Unmarshal(data, &items)
			if decodeErr == nil {
				metrics.RecordCacheHit()
				return truncateDetails(items, n), sourceCache, nil
			}
			s.logger.Warn().Err(decodeErr).Msg("discarding undecodable popular cache entry")
			metrics.RecordCacheMiss()
			return s.computeAndCachePopular(ctx, n)
		case errors.Is(err, cache.ErrCacheMiss):
			metrics.RecordCacheMiss()
			return s.computeAndCachePopular(ctx, n)
		default:
			s.logger.Warn().Err(err).Msg("popular cache unavailable, using durable fallback")
		}
	}

	metrics.RecordCacheFallback()
	rows, err := s.store.GetRecommendations(ctx, PopularUserID, recommend.KindPopular, n)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read durable popular fallback")
	} else if len(rows) > 0 {
		items, err := s.ProductDetails(ctx, productIDs(rows), scores(rows))
		if err != nil {
			return nil, "", err
		}
		return items, sourceFallback, nil
	}

	items, err := s.computePopular(ctx, n)
	return items, sourceSnapshot, err
}

func (s *Service) computeAndCachePopular(ctx context.Context, n int) ([]recommend.ProductDetails, string, error) {
	size := s.cfg.PopularCacheSize
	if n > size {
		size = n
	}
	items, err := s.computePopular(ctx, size)
	if err != nil {
		return nil, "", err
	}
	if err := s.writePopularCache(ctx, items); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write popular cache")
	}
	return truncateDetails(items, n), sourceSnapshot, nil
}

// computePopular ranks popularity from the current snapshot, training first
// when needed.
func (s *Service) computePopular(ctx context.Context, n int) ([]recommend.ProductDetails, error) {
	if err := s.ensureTrained(ctx); err != nil {
		return nil, err
	}
	return s.snapshotPopular(ctx, n)
}

func (s *Service) snapshotPopular(ctx context.Context, n int) ([]recommend.ProductDetails, error) {
	ranking, err := s.engine.Recommend(ctx, PopularUserID, recommend.KindPopular, n)
	if err != nil {
		return nil, err
	}
	ids, scores := rankingColumns(ranking)
	return s.ProductDetails(ctx, ids, scores)
}

func (s *Service) writePopularCache(ctx context.Context, items []recommend.ProductDetails) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.cache.SetEx(ctx, s.cfg.PopularCacheKey, s.cfg.PopularTTL, payload)
}

// refreshPopular rewrites the popularity list after a successful train.
// The cache is preferred; when it is unavailable the durable fallback is
// replaced instead. Failures are logged.
func (s *Service) refreshPopular(ctx context.Context) {
	items, err := s.snapshotPopular(ctx, s.cfg.PopularCacheSize)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to compute popular products for refresh")
		return
	}

	if s.cache != nil {
		err := s.writePopularCache(ctx, items)
		if err == nil {
			s.logger.Info().Int("count", len(items)).Msg("popular products cached")
			return
		}
		s.logger.Warn().Err(err).Msg("popular cache unavailable, writing durable fallback")
	}

	deleted, err := s.SaveRecommendations(ctx, PopularUserID, recommend.KindPopular, items)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to persist popular fallback")
		return
	}
	s.logger.Info().
		Int("count", len(items)).
		Int("replaced", deleted).
		Msg("popular products saved to durable fallback")
}

func filterDetails(items []recommend.ProductDetails, exclude map[int64]struct{}, n int) []recommend.ProductDetails {
	out := make([]recommend.ProductDetails, 0, min(n, len(items)))
	for _, item := range items {
		if len(out) == n {
			break
		}
		if _, skip := exclude[item.ProductID]; skip {
			continue
		}
		out = append(out, item)
	}
	return out
}

func truncateDetails(items []recommend.ProductDetails, n int) []recommend.ProductDetails {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func rankingColumns(r *recommend.Ranking) ([]int64, []float64) {
	ids := make([]int64, len(r.Items))
	scores := make([]float64, len(r.Items))
	for i := range r.Items {
		ids[i] = r.Items[i].ProductID
		scores[i] = r.Items[i].FinalScore
	}
	return ids, scores
}

func productIDs(rows []recommend.ScoredProduct) []int64 {
	ids := make([]int64, len(rows))
	for i := range rows {
		ids[i] = rows[i].ProductID
	}
	return ids
}

func scores(rows []recommend.ScoredProduct) []float64 {
	out := make([]float64, len(rows))
	for i := range rows {
		out[i] = rows[i].Score
	}
	return out
}
