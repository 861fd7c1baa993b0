package store

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is a concurrency-safe in-memory key/value store with per-key
// expiry. It backs both the forecast cache and the ZIP code dataset.
type MemoryStore struct {
	items *cache.Cache
}

// NewMemoryStore creates a MemoryStore. Expired entries are never returned;
// they are purged from memory every cleanupInterval (<= 0 disables the
// janitor, leaving expired entries until overwritten).
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		items: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

// Get returns the live value stored under key.
func (s *MemoryStore) Get(key string) (any, bool) {
	return s.items.Get(key)
}

// Set stores value under key for ttl. A ttl <= 0 keeps the entry until it is
// overwritten or deleted.
func (s *MemoryStore) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	s.items.Set(key, value, ttl)
}

// Expiration returns when key expires, making MemoryStore a
// weather.ExpiringCache. ok is false when key is absent or
// already expired; a zero time means the entry never expires.
func (s *MemoryStore) Expiration(key string) (time.Time, bool) {
	_, exp, ok := s.items.GetWithExpiration(key)
	return exp, ok
}

// Len returns the number of stored entries, possibly including expired ones
// not yet purged.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}
