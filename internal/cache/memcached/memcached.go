// Package memcached provides a Memcached-backed cache implementation.
package memcached

import (
	"encoding/json"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"

	"github.com/tablerank/tablerank/internal/cache"
	"github.com/tablerank/tablerank/internal/store"
)

// Compile-time check that Cache implements cache.Cache.
var _ cache.Cache = (*Cache)(nil)

// Cache is a Memcached-backed cache. All operations are best-effort: backend
// errors are logged and swallowed, and a miss is indistinguishable from a
// failure to the caller.
type Cache struct {
	mc     *memcache.Client
	logger *zap.Logger
}

// New creates a cache client for the given server address (for ElastiCache,
// the cluster configuration endpoint). The connection is established lazily
// on first use.
func New(addr string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		mc:     memcache.New(addr),
		logger: logger,
	}
}

// Get retrieves and decodes a cached record.
func (c *Cache) Get(key string) (store.Record, bool) {
	item, err := c.mc.Get(key)
	if err != nil {
		// Misses are expected; anything else is a backend problem.
		if err != memcache.ErrCacheMiss {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return store.Record{}, false
	}

	var rec store.Record
	if err := json.Unmarshal(item.Value, &rec); err != nil {
		c.logger.Error("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return store.Record{}, false
	}
	return rec, true
}

// Set encodes and stores a record. No TTL is set; entries live until
// invalidated or evicted by the backend.
func (c *Cache) Set(key string, rec store.Record) {
	value, err := json.Marshal(rec)
	if err != nil {
		c.logger.Error("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.mc.Set(&memcache.Item{Key: key, Value: value}); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes a cache entry.
func (c *Cache) Delete(key string) {
	if err := c.mc.Delete(key); err != nil && err != memcache.ErrCacheMiss {
		c.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
