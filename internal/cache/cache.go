// Package cache provides key-value caching for provider payloads (raw
// subtitle files, anime metadata) with in-memory and Redis backends.
package cache

// Cache defines the interface for key-value caching with TTL semantics.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found, or
	// nil and false if not.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key. An existing key is overwritten.
	Set(key string, value []byte)

	// Contains checks whether a key exists without affecting LRU ordering.
	Contains(key string) bool

	// Len returns the number of entries currently in the cache.
	Len() int

	// Close releases any resources held by the cache (e.g., network
	// connections). For in-memory caches this is a no-op.
	Close() error
}
