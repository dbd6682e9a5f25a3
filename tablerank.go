// Package tablerank implements a restaurant directory backed by a durable
// keyed store with an optional look-aside cache.
//
// Example usage:
//
//	svc, err := tablerank.New(
//	    tablerank.WithStore(st),
//	    tablerank.WithCache(c),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	r, err := svc.Get(ctx, "Luigi's")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Rating: %.2f\n", r.Rating)
package tablerank

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/tablerank/tablerank/internal/cache"
	"github.com/tablerank/tablerank/internal/stats"
	"github.com/tablerank/tablerank/internal/store"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNotFound indicates no restaurant exists with the given name.
	ErrNotFound = errors.New("tablerank: restaurant not found")

	// ErrAlreadyExists indicates a create collided with an existing name.
	ErrAlreadyExists = errors.New("tablerank: restaurant already exists")

	// ErrClosed indicates the service has been closed.
	ErrClosed = errors.New("tablerank: service closed")

	// ErrNoStore indicates no store was provided.
	ErrNoStore = errors.New("tablerank: no store provided")
)

// Query limit policy: requested limits are clamped to at most maxQueryLimit;
// absent or invalid limits fall back to defaultQueryLimit.
const (
	defaultQueryLimit = 10
	maxQueryLimit     = 100
)

// Service implements the restaurant directory over a durable store and an
// optional cache. The store is the single source of truth; the cache is a
// disposable projection kept consistent by write-time population and
// invalidation. A Service is safe for concurrent use by multiple goroutines.
type Service struct {
	store          store.Store
	cache          cache.Cache
	stats          stats.Collector
	logger         *zap.Logger
	maxRateRetries int
	closed         atomic.Bool
}

// New creates a new Service with the given options.
// A store is required; caching is off unless WithCache is used.
func New(opts ...Option) (*Service, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	s := &Service{
		store:          cfg.store,
		cache:          cfg.cache,
		stats:          cfg.stats,
		logger:         cfg.logger,
		maxRateRetries: cfg.maxRateRetries,
	}

	if s.store == nil {
		return nil, ErrNoStore
	}

	s.logger.Debug("service initialized",
		zap.Bool("cacheEnabled", s.cache != nil),
		zap.Int("maxRateRetries", s.maxRateRetries),
	)

	return s, nil
}

// Create adds a new restaurant. The record starts with a single-submission
// aggregate when a rating was supplied, otherwise with an empty aggregate.
// Returns ErrAlreadyExists if the name is taken; on conflict or store
// failure the cache is left untouched, so it can never hold a record that
// does not durably exist.
func (s *Service) Create(ctx context.Context, nr NewRestaurant) error {
	if s.closed.Load() {
		return ErrClosed
	}

	rec := nr.record()
	if err := s.store.Create(ctx, rec); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrAlreadyExists
		}
		s.stats.IncCounter(stats.MetricStoreErrors, 1)
		return fmt.Errorf("creating %q: %w", nr.Name, err)
	}

	// Write-through population: the immediately-following read is the
	// common pattern, so seed the cache now rather than on first miss.
	if s.cache != nil {
		s.cache.Set(cache.Key(rec.UniqueName), rec)
	}
	return nil
}

// Get returns the restaurant with the given name, serving from cache when
// possible. A cache hit is returned as-is; a miss falls back to the store
// and repopulates the cache. Returns ErrNotFound if no such restaurant
// exists.
func (s *Service) Get(ctx context.Context, name string) (Restaurant, error) {
	if s.closed.Load() {
		return Restaurant{}, ErrClosed
	}

	if s.cache != nil {
		if rec, ok := s.cache.Get(cache.Key(name)); ok {
			s.stats.IncCounter(stats.MetricCacheHits, 1)
			return fromRecord(rec), nil
		}
		s.stats.IncCounter(stats.MetricCacheMisses, 1)
	}

	rec, err := s.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Restaurant{}, ErrNotFound
		}
		s.stats.IncCounter(stats.MetricStoreErrors, 1)
		return Restaurant{}, fmt.Errorf("reading %q: %w", name, err)
	}

	if s.cache != nil {
		s.cache.Set(cache.Key(name), rec)
	}
	return fromRecord(rec), nil
}

// Delete removes the restaurant with the given name. Deleting an absent
// restaurant succeeds. The cache entry is invalidated even when the store
// delete fails: the delete may have partially applied, and a stale entry is
// worse than a forced refetch.
func (s *Service) Delete(ctx context.Context, name string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	err := s.store.Delete(ctx, name)

	if s.cache != nil {
		s.cache.Delete(cache.Key(name))
	}

	if err != nil {
		s.stats.IncCounter(stats.MetricStoreErrors, 1)
		return fmt.Errorf("deleting %q: %w", name, err)
	}
	return nil
}

// Rate folds a new rating submission into the restaurant's running mean.
// The current aggregate is always read from the store, never the cache, and
// the write is guarded on the rating count still matching the value read; a
// concurrent submission triggers a bounded re-read-and-retry. The cache
// entry is invalidated rather than updated, so concurrent raters cannot
// race a locally computed value into the cache; the next read repopulates
// from the store. Returns ErrNotFound if no such restaurant exists.
func (s *Service) Rate(ctx context.Context, name string, rating float64) error {
	if s.closed.Load() {
		return ErrClosed
	}

	for attempt := 0; ; attempt++ {
		rec, err := s.store.Get(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			s.stats.IncCounter(stats.MetricStoreErrors, 1)
			return fmt.Errorf("reading %q for rating: %w", name, err)
		}

		// Incremental mean over the stored count; no submission history
		// is retained.
		newCount := rec.RatingCount + 1
		newRating := (rec.Rating*float64(rec.RatingCount) + rating) / float64(newCount)

		err = s.store.UpdateRating(ctx, name, newRating, newCount, rec.RatingCount)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrConditionFailed) && attempt < s.maxRateRetries {
			s.stats.IncCounter(stats.MetricRatingRetries, 1)
			s.logger.Debug("rating update conflicted, retrying",
				zap.String("name", name),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		s.stats.IncCounter(stats.MetricStoreErrors, 1)
		return fmt.Errorf("updating rating for %q: %w", name, err)
	}

	if s.cache != nil {
		s.cache.Delete(cache.Key(name))
	}
	return nil
}

// TopByCuisine returns the highest-rated restaurants for a cuisine, up to
// the clamped limit. Multi-row results are never cached.
func (s *Service) TopByCuisine(ctx context.Context, cuisine string, limit int) ([]Restaurant, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	recs, err := s.store.TopByCuisine(ctx, cuisine, clampLimit(limit))
	if err != nil {
		s.stats.IncCounter(stats.MetricStoreErrors, 1)
		return nil, fmt.Errorf("querying cuisine %q: %w", cuisine, err)
	}
	return fromRecords(recs), nil
}

// TopByRegion returns the highest-rated restaurants for a region, up to the
// clamped limit. When the store has no region index this degrades to a
// filtered scan with no authoritative ordering.
func (s *Service) TopByRegion(ctx context.Context, region string, limit int) ([]Restaurant, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	recs, err := s.store.TopByRegion(ctx, region, clampLimit(limit))
	if err != nil {
		s.stats.IncCounter(stats.MetricStoreErrors, 1)
		return nil, fmt.Errorf("querying region %q: %w", region, err)
	}
	return fromRecords(recs), nil
}

// TopByRegionAndCuisine returns the highest-rated restaurants matching both
// facets, up to the clamped limit.
func (s *Service) TopByRegionAndCuisine(ctx context.Context, region, cuisine string, limit int) ([]Restaurant, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	recs, err := s.store.TopByRegionAndCuisine(ctx, region, cuisine, clampLimit(limit))
	if err != nil {
		s.stats.IncCounter(stats.MetricStoreErrors, 1)
		return nil, fmt.Errorf("querying region %q cuisine %q: %w", region, cuisine, err)
	}
	return fromRecords(recs), nil
}

// CacheEnabled reports whether a cache was configured.
func (s *Service) CacheEnabled() bool {
	return s.cache != nil
}

// Close releases all resources associated with the service.
// After Close, the service should not be used.
func (s *Service) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// clampLimit applies the query limit policy.
func clampLimit(limit int) int32 {
	switch {
	case limit <= 0:
		return defaultQueryLimit
	case limit > maxQueryLimit:
		return maxQueryLimit
	default:
		return int32(limit)
	}
}
