// Shoprec - Purchase-Based Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shoprec

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCache stores entries in an embedded BadgerDB with native TTL.
// It suits single-node deployments that want the popularity cache to
// survive restarts without running Redis.
type BadgerCache struct {
	db *badger.DB
}

// NewBadgerCache opens a BadgerDB at path. An empty path opens an
// in-memory database.
func NewBadgerCache(path string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil                // Suppress BadgerDB internal logs
	opts.ValueLogFileSize = 16 << 20 // 16MB, entries are small

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

// NewBadgerCacheFromDB wraps an existing BadgerDB connection.
func NewBadgerCacheFromDB(db *badger.DB) *BadgerCache {
	return &BadgerCache{db: db}
}

// Get returns the value stored at key.
func (b *BadgerCache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, unavailable("badger get", err)
	}
	return value, nil
}

// SetEx stores value at key for ttl.
func (b *BadgerCache) SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
	if err != nil {
		return unavailable("badger set", err)
	}
	return nil
}

// Delete removes key.
func (b *BadgerCache) Delete(ctx context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return unavailable("badger delete", err)
	}
	return nil
}

// RunGC reclaims space from expired and deleted entries.
func (b *BadgerCache) RunGC() error {
	err := b.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

// Close closes the database.
func (b *BadgerCache) Close() error {
	return b.db.Close()
}
