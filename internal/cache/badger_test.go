// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestBadgerCache(t *testing.T) *BadgerCache {
	t.Helper()
	bc, err := NewBadgerCache("")
	if err != nil {
		t.Fatalf("NewBadgerCache() error: %v", err)
	}
	t.Cleanup(func() {
		if err := bc.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return bc
}

func TestBadgerCache_GetSetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bc := newTestBadgerCache(t)

	if _, err := bc.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get(missing) error = %v, want ErrCacheMiss", err)
	}

	if err := bc.SetEx(ctx, "popular_products_cache", time.Hour, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("SetEx() error: %v", err)
	}
	got, err := bc.Get(ctx, "popular_products_cache")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != `{"ok":true}` {
		t.Errorf("Get() = %s", got)
	}

	if err := bc.Delete(ctx, "popular_products_cache"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := bc.Get(ctx, "popular_products_cache"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after Delete() error = %v, want ErrCacheMiss", err)
	}
	if err := bc.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestBadgerCache_TTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bc := newTestBadgerCache(t)

	// badger expiry has one-second resolution
	if err := bc.SetEx(ctx, "short", time.Second, []byte("x")); err != nil {
		t.Fatalf("SetEx() error: %v", err)
	}
	time.Sleep(2100 * time.Millisecond)

	if _, err := bc.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after TTL error = %v, want ErrCacheMiss", err)
	}
}

func TestBadgerCache_ClosedIsUnavailable(t *testing.T) {
	t.Parallel()

	bc, err := NewBadgerCache("")
	if err != nil {
		t.Fatalf("NewBadgerCache() error: %v", err)
	}
	if err := bc.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	err = bc.SetEx(context.Background(), "k", time.Minute, []byte("v"))
	if !errors.Is(err, ErrCacheUnavailable) {
		t.Errorf("SetEx() on closed db error = %v, want ErrCacheUnavailable", err)
	}
}

func TestBadgerCache_RunGCInMemory(t *testing.T) {
	t.Parallel()

	if err := newTestBadgerCache(t).RunGC(); err != nil {
		t.Errorf("RunGC() in memory mode error: %v", err)
	}
}
