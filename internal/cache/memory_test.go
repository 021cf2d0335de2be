// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newClockedMemoryCache(capacity int) (*MemoryCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(capacity)
	c.now = clock.Now
	return c, clock
}

func TestMemoryCache_GetSetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _ := newClockedMemoryCache(10)

	if _, err := c.Get(ctx, "popular_products_cache"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get() on empty cache error = %v, want ErrCacheMiss", err)
	}

	if err := c.SetEx(ctx, "popular_products_cache", time.Hour, []byte(`[1,2,3]`)); err != nil {
		t.Fatalf("SetEx() error: %v", err)
	}

	got, err := c.Get(ctx, "popular_products_cache")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != `[1,2,3]` {
		t.Errorf("Get() = %s, want [1,2,3]", got)
	}

	if err := c.Delete(ctx, "popular_products_cache"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := c.Get(ctx, "popular_products_cache"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after Delete() error = %v, want ErrCacheMiss", err)
	}

	if err := c.Delete(ctx, "never-set"); err != nil {
		t.Errorf("Delete() of missing key error: %v", err)
	}

	hits, misses, size := c.Stats()
	if hits != 1 || misses != 2 || size != 0 {
		t.Errorf("Stats() = %d, %d, %d; want 1, 2, 0", hits, misses, size)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, clock := newClockedMemoryCache(10)

	if err := c.SetEx(ctx, "short", time.Minute, []byte("a")); err != nil {
		t.Fatalf("SetEx() error: %v", err)
	}
	if err := c.SetEx(ctx, "long", time.Hour, []byte("b")); err != nil {
		t.Fatalf("SetEx() error: %v", err)
	}

	clock.Advance(2 * time.Minute)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(short) error = %v, want ErrCacheMiss", err)
	}
	if _, err := c.Get(ctx, "long"); err != nil {
		t.Errorf("Get(long) error: %v", err)
	}

	clock.Advance(2 * time.Hour)
	if removed := c.CleanupExpired(); removed != 1 {
		t.Errorf("CleanupExpired() = %d, want 1", removed)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _ := newClockedMemoryCache(2)

	_ = c.SetEx(ctx, "a", time.Hour, []byte("1"))
	_ = c.SetEx(ctx, "b", time.Hour, []byte("2"))

	// touch a so that b becomes the eviction candidate
	if _, err := c.Get(ctx, "a"); err != nil {
		t.Fatalf("Get(a) error: %v", err)
	}
	_ = c.SetEx(ctx, "c", time.Hour, []byte("3"))

	if _, err := c.Get(ctx, "b"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(b) error = %v, want ErrCacheMiss after eviction", err)
	}
	for _, key := range []string{"a", "c"} {
		if _, err := c.Get(ctx, key); err != nil {
			t.Errorf("Get(%s) error: %v", key, err)
		}
	}
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, _ := newClockedMemoryCache(4)

	value := []byte("abc")
	_ = c.SetEx(ctx, "k", time.Hour, value)
	value[0] = 'z'

	got, _ := c.Get(ctx, "k")
	got[1] = 'z'

	again, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value = %s, want abc", again)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemoryCache(64)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%8)
			for j := 0; j < 100; j++ {
				_ = c.SetEx(ctx, key, time.Minute, []byte{byte(j)})
				_, _ = c.Get(ctx, key)
				if j%10 == 0 {
					_ = c.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 8 {
		t.Errorf("Len() = %d, want <= 8", c.Len())
	}
}
