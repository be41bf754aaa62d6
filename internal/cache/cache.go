// Package cache provides the layered search-result cache used by the
// evidence retrieval stage. Entries are keyed by (source kind, query)
// and expire after a fixed TTL; a cache hit is treated exactly like a
// fresh fetch by everything downstream.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SearchKey generates a cache key from a source kind and query
func SearchKey(kind, query string) string {
	hash := sha256.Sum256([]byte(kind + ":" + query))
	return "skeptic:v1:" + hex.EncodeToString(hash[:])
}
