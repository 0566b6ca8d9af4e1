package contrib

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/store"
)

// CacheKeyPrefix namespaces stats entries in a shared key-value store.
const CacheKeyPrefix = "github_stats_cache:"

// CacheKey returns the storage key for a subject.
func CacheKey(username string) string {
	return CacheKeyPrefix + username
}

// Cache stores computed stats. Get reports ok=false on a miss; a malformed
// entry is returned as a *CacheError.
type Cache interface {
	Get(ctx context.Context, key string) (domain.StatsCacheEntry, bool, error)
	Set(ctx context.Context, key string, entry domain.StatsCacheEntry) error
}

// MemoryCache keeps encoded entries in process memory.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (domain.StatsCacheEntry, bool, error) {
	c.mu.RLock()
	raw, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return domain.StatsCacheEntry{}, false, nil
	}
	return decodeEntry(key, raw)
}

func (c *MemoryCache) Set(_ context.Context, key string, entry domain.StatsCacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = string(data)
	c.mu.Unlock()
	return nil
}

// Put stores a raw value. Used to seed entries written by other clients.
func (c *MemoryCache) Put(key, raw string) {
	c.mu.Lock()
	c.entries[key] = raw
	c.mu.Unlock()
}

// KVStore is the slice of store.Repository the persistent cache needs.
type KVStore interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
}

// KVCache persists entries as JSON in the SQLite kv_cache table.
type KVCache struct {
	kv KVStore
}

// NewKVCache wraps a key-value store.
func NewKVCache(kv KVStore) *KVCache {
	return &KVCache{kv: kv}
}

func (c *KVCache) Get(ctx context.Context, key string) (domain.StatsCacheEntry, bool, error) {
	raw, err := c.kv.GetValue(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return domain.StatsCacheEntry{}, false, nil
	}
	if err != nil {
		return domain.StatsCacheEntry{}, false, &CacheError{Key: key, Err: err}
	}
	return decodeEntry(key, raw)
}

func (c *KVCache) Set(ctx context.Context, key string, entry domain.StatsCacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.kv.SetValue(ctx, key, string(data))
}

func decodeEntry(key, raw string) (domain.StatsCacheEntry, bool, error) {
	var entry domain.StatsCacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return domain.StatsCacheEntry{}, false, &CacheError{Key: key, Err: err}
	}
	return entry, true, nil
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*KVCache)(nil)
)
