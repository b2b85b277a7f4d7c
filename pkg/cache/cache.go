// Package cache provides a small string-keyed cache behind the Cache
// interface. The campaign service uses it as a short-TTL read cache for the
// public campaign list, invalidated on every campaign write; the Redis
// implementation is optional and the service runs uncached without one.
package cache

import "time"

// Cache is the cache-aside surface the campaign list needs: read a cached
// encoding, store one with an expiry, drop it after a write.
type Cache interface {
	Get(key string) (string, error)
	Set(key string, value interface{}, expiration time.Duration) error
	Delete(key string) error
}
