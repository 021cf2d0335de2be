// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

// Package recommend implements purchase-based product recommendations.
//
// # Architecture
//
// Training runs three pure stages over the order history:
//
//   - Loader: sums quantities per (user, product) and per product
//   - Matrix Builder: assigns dense indices and lays the counts out as CSR
//   - Weighting: applies sqrt(count) * ln(N / (1 + df)) and row L2 norms
//
// The result is a ModelSnapshot. The Engine publishes it through an atomic
// pointer so readers always observe one complete snapshot, and a retrain
// never blocks ranking.
//
// # Ranking
//
// Rank finds the users whose weighted rows have the highest cosine
// similarity with the target, collects the products they bought and blends
// the averaged similarity with product popularity. Users without usable
// history fall back to the popularity ranking.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	if _, err := engine.Train(ctx, db); err != nil {
//	    return err
//	}
//	ranking, err := engine.Recommend(ctx, userID, recommend.KindCollaborative, 20)
package recommend
