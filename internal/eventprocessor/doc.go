// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

// Package eventprocessor carries recommendation tasks over NATS JetStream
// using Watermill.
//
// Placing an order enqueues an update_recommendations task. The worker
// package consumes the task subject through a durable pull consumer and
// recomputes the recommendations of the ordering user.
//
//	┌──────────────┐  publish   ┌─────────────────────┐  subscribe  ┌────────┐
//	│ API (orders, │ ─────────▶ │   NATS JetStream    │ ──────────▶ │ worker │
//	│   tasks)     │            │ recommendations.>   │             └───┬────┘
//	└──────────────┘            └─────────────────────┘                 │
//	                                      ▲          dead letter        │
//	                                      └─────────────────────────────┘
//
// # Components
//
//   - [EmbeddedServer]: in-process NATS server with JetStream for single-node setups
//   - [TaskStream]: declares the task stream before publishers start
//   - [Publisher]: circuit-breaker protected publishing with Nats-Msg-Id deduplication
//   - [Subscriber]: durable JetStream subscriber bound to the task stream
//   - [RecommendationTask]: the task payload and its validation
//
// # Delivery
//
// Delivery is at-least-once. The task id doubles as the message UUID and the
// Nats-Msg-Id header, so a task republished inside the duplicate window is
// stored once. Handlers must tolerate redelivery.
package eventprocessor
