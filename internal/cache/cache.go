// Package cache defines the look-aside cache interface for restaurant
// records.
//
// The cache is a disposable projection of the durable store: it never
// originates data, and every operation is best-effort. Implementations must
// swallow backend failures (logging them) rather than return errors, so that
// a broken cache can never fail a request.
package cache

import "github.com/tablerank/tablerank/internal/store"

// keyPrefix matches the key scheme used by the original deployment, so a
// rolling upgrade shares cache entries with old instances.
const keyPrefix = "Restaurant-"

// Key returns the canonical cache key for a restaurant name.
func Key(name string) string {
	return keyPrefix + name
}

// Cache defines the interface for cache backends. The cached value is the
// internal record shape; conversion to the external representation happens
// at the service boundary.
type Cache interface {
	// Get retrieves a cached record. Returns false on a miss or on any
	// backend failure.
	Get(key string) (store.Record, bool)

	// Set stores a record under the given key, best-effort.
	Set(key string, rec store.Record)

	// Delete removes the entry for the given key, best-effort. Deleting
	// an absent key is not a failure.
	Delete(key string)
}
