// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tomtom215/shoprec/internal/logging"
)

// demo catalog: department id -> name
var demoDepartments = map[int64]string{
	1: "produce",
	2: "dairy eggs",
	3: "bakery",
	4: "beverages",
}

var demoAisles = map[int64]string{
	1: "fresh fruits",
	2: "fresh vegetables",
	3: "milk",
	4: "yogurt",
	5: "bread",
	6: "water seltzer sparkling water",
}

var demoProducts = []CatalogProduct{
	{ID: 1, Name: "Banana", AisleID: 1, DepartmentID: 1},
	{ID: 2, Name: "Organic Strawberries", AisleID: 1, DepartmentID: 1},
	{ID: 3, Name: "Organic Hass Avocado", AisleID: 1, DepartmentID: 1},
	{ID: 4, Name: "Limes", AisleID: 1, DepartmentID: 1},
	{ID: 5, Name: "Organic Baby Spinach", AisleID: 2, DepartmentID: 1},
	{ID: 6, Name: "Yellow Onions", AisleID: 2, DepartmentID: 1},
	{ID: 7, Name: "Organic Garlic", AisleID: 2, DepartmentID: 1},
	{ID: 8, Name: "Organic Whole Milk", AisleID: 3, DepartmentID: 2},
	{ID: 9, Name: "Unsweetened Almondmilk", AisleID: 3, DepartmentID: 2},
	{ID: 10, Name: "Greek Yogurt Plain", AisleID: 4, DepartmentID: 2},
	{ID: 11, Name: "Large Brown Eggs", DepartmentID: 2},
	{ID: 12, Name: "Sourdough Loaf", AisleID: 5, DepartmentID: 3},
	{ID: 13, Name: "Whole Wheat Bread", AisleID: 5, DepartmentID: 3},
	{ID: 14, Name: "Sparkling Water Grapefruit", AisleID: 6, DepartmentID: 4},
	{ID: 15, Name: "Spring Water", AisleID: 6, DepartmentID: 4},
	{ID: 16, Name: "Seasonal Gift Box"},
}

const (
	demoUsers         = 12
	demoOrdersPerUser = 4
	demoItemsPerOrder = 5
	demoSeed          = 42
)

// SeedDemoData fills an empty database with a small grocery catalog and a
// deterministic order history. It does nothing when products already exist.
func (db *DB) SeedDemoData(ctx context.Context) error {
	existing, err := db.CountProducts(ctx)
	if err != nil {
		return err
	}
	if existing > 0 {
		logging.Info().Int("products", existing).Msg("Catalog not empty, skipping demo data")
		return nil
	}

	logging.Info().Msg("Seeding database with demo catalog and orders...")

	for id, name := range demoDepartments {
		if err := db.AddDepartment(ctx, id, name); err != nil {
			return err
		}
	}
	for id, name := range demoAisles {
		if err := db.AddAisle(ctx, id, name); err != nil {
			return err
		}
	}
	for _, p := range demoProducts {
		if err := db.AddProduct(ctx, p); err != nil {
			return err
		}
	}

	// Each user favours a department so neighborhoods form.
	rng := rand.New(rand.NewSource(demoSeed)) //nolint:gosec // demo data only
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	orders := 0
	for user := int64(1); user <= demoUsers; user++ {
		favourite := user%int64(len(demoDepartments)) + 1
		for o := 0; o < demoOrdersPerUser; o++ {
			items := demoBasket(rng, favourite)
			if _, err := db.CreateOrder(ctx, Order{
				UserID:    user,
				Items:     items,
				CreatedAt: base.Add(time.Duration(orders) * time.Hour),
			}); err != nil {
				return fmt.Errorf("seed order for user %d: %w", user, err)
			}
			orders++
		}
	}

	logging.Info().
		Int("products", len(demoProducts)).
		Int("users", demoUsers).
		Int("orders", orders).
		Msg("Demo data seeded")
	return nil
}

// demoBasket draws distinct products, most from the favourite department.
func demoBasket(rng *rand.Rand, favourite int64) []OrderItem {
	seen := make(map[int64]bool, demoItemsPerOrder)
	items := make([]OrderItem, 0, demoItemsPerOrder)
	for len(items) < demoItemsPerOrder {
		p := demoProducts[rng.Intn(len(demoProducts))]
		if p.DepartmentID != favourite && rng.Intn(3) != 0 {
			continue
		}
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		items = append(items, OrderItem{ProductID: p.ID, Quantity: 1 + rng.Intn(3)})
	}
	return items
}
