// Package memory implements db.Store as an in-process LRU with per-entry expiry.
package memory

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kailas-cloud/wbindicators/internal/db"
)

const defaultSize = 4096

var _ db.Store = (*Store)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Store is a bounded in-memory KV store. Safe for concurrent use.
type Store struct {
	cache *lru.Cache[string, entry]
	now   func() time.Time
}

// NewStore creates a store holding at most size entries.
func NewStore(size int) (*Store, error) {
	if size <= 0 {
		size = defaultSize
	}
	cache, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Store{cache: cache, now: time.Now}, nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close drops every entry.
func (s *Store) Close() { s.cache.Purge() }

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Get returns a copy of the stored value, or db.ErrKeyNotFound when missing or expired.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := s.cache.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if e.expired(s.now()) {
		s.cache.Remove(key)
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a value without expiry.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.cache.Add(key, entry{value: append([]byte(nil), value...)})
	return nil
}

// SetWithTTL stores a value that expires after ttl. A non-positive ttl never expires.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.cache.Add(key, e)
	return nil
}

// Exists reports whether a live entry is stored under key.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	e, ok := s.cache.Peek(key)
	if !ok {
		return false, nil
	}
	if e.expired(s.now()) {
		s.cache.Remove(key)
		return false, nil
	}
	return true, nil
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}
