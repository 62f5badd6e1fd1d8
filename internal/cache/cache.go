// Package cache provides an advisory read-through cache for report responses.
// A miss or expiry always falls through to recomputation; concurrent callers
// may recompute the same key, which is acceptable for idempotent reads.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/mutazsaeed/fitzy/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the cache store selected by configuration.
var Module = fx.Provide(NewStore)

// Store is a byte-value cache with per-entry TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Del(ctx context.Context, key string)
}

// NewStore picks the backend from config. Redis failures degrade to the
// in-memory store rather than failing startup.
func NewStore(cfg config.Config, logger *zap.Logger) Store {
	if cfg.CacheBackend == "redis" {
		return NewRedisStore(cfg, logger)
	}
	return NewMemoryStore()
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process TTL cache.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	ent, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(ent.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return ent.value, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
}

func (s *MemoryStore) Del(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrCompute returns the cached value for key, or runs compute and caches
// the result. Cache errors are never surfaced; compute errors are.
func GetOrCompute[T any](ctx context.Context, store Store, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	if raw, ok := store.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		store.Del(ctx, key)
	}

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	if raw, err := json.Marshal(value); err == nil {
		store.Set(ctx, key, raw, ttl)
	}
	return value, nil
}
