// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/tablerank/tablerank/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store for testing. It honors the same conditional
// semantics as the DynamoDB backend: conditional create and the rating-count
// guard on UpdateRating.
type Store struct {
	mu      sync.RWMutex
	records map[string]store.Record
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		records: make(map[string]store.Record),
	}
}

// Put unconditionally writes a record (for test setup).
func (s *Store) Put(rec store.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UniqueName] = rec
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Create writes a new record, failing if the unique name is taken.
func (s *Store) Create(ctx context.Context, rec store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.UniqueName]; ok {
		return store.ErrAlreadyExists
	}
	s.records[rec.UniqueName] = rec
	return nil
}

// Get reads a record by unique name.
func (s *Store) Get(ctx context.Context, name string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[name]
	if !ok {
		return store.Record{}, store.ErrNotFound
	}
	return rec, nil
}

// Delete removes a record. Deleting an absent record is a no-op.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, name)
	return nil
}

// UpdateRating sets the rating fields if the current count matches prevCount.
func (s *Store) UpdateRating(ctx context.Context, name string, rating float64, count, prevCount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[name]
	if !ok || rec.RatingCount != prevCount {
		return store.ErrConditionFailed
	}
	rec.Rating = rating
	rec.RatingCount = count
	s.records[name] = rec
	return nil
}

// TopByCuisine returns matching records ordered by rating descending.
func (s *Store) TopByCuisine(ctx context.Context, cuisine string, limit int32) ([]store.Record, error) {
	return s.query(func(rec store.Record) bool {
		return rec.Cuisine == cuisine
	}, limit), nil
}

// TopByRegion returns matching records ordered by rating descending.
func (s *Store) TopByRegion(ctx context.Context, region string, limit int32) ([]store.Record, error) {
	return s.query(func(rec store.Record) bool {
		return rec.GeoRegion == region
	}, limit), nil
}

// TopByRegionAndCuisine returns matching records ordered by rating descending.
func (s *Store) TopByRegionAndCuisine(ctx context.Context, region, cuisine string, limit int32) ([]store.Record, error) {
	return s.query(func(rec store.Record) bool {
		return rec.GeoRegion == region && rec.Cuisine == cuisine
	}, limit), nil
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}

func (s *Store) query(match func(store.Record) bool, limit int32) []store.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Record
	for _, rec := range s.records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	if limit > 0 && int32(len(out)) > limit {
		out = out[:limit]
	}
	return out
}
