// Package store defines the durable storage interface for restaurant records.
package store

import (
	"context"
	"errors"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrNotFound is returned when no record exists for the given name.
	ErrNotFound = errors.New("store: record not found")

	// ErrAlreadyExists is returned by Create when a record with the same
	// unique name already exists.
	ErrAlreadyExists = errors.New("store: record already exists")

	// ErrConditionFailed is returned by UpdateRating when the record's
	// rating count no longer matches the expected previous count.
	ErrConditionFailed = errors.New("store: condition failed")
)

// Record is the internal shape of a restaurant row in the durable store.
// Rating is the running mean of exactly RatingCount submissions, or 0 when
// RatingCount is 0.
type Record struct {
	UniqueName  string
	GeoRegion   string
	Cuisine     string
	Rating      float64
	RatingCount int64
}

// Store defines the interface for durable storage backends.
// Implementations must provide per-key linearizability for the single-key
// operations.
type Store interface {
	// Create writes a new record. Returns ErrAlreadyExists if a record
	// with the same UniqueName is already present.
	Create(ctx context.Context, rec Record) error

	// Get reads the record with the given unique name.
	// Returns ErrNotFound if no such record exists.
	Get(ctx context.Context, name string) (Record, error)

	// Delete removes the record with the given unique name.
	// Deleting an absent record is not an error.
	Delete(ctx context.Context, name string) error

	// UpdateRating sets the rating fields of an existing record, but only
	// if its current RatingCount still equals prevCount. Returns
	// ErrConditionFailed when the guard does not hold (including when the
	// record has been deleted concurrently). Only the two rating fields
	// are written; other attributes are left untouched.
	UpdateRating(ctx context.Context, name string, rating float64, count, prevCount int64) error

	// TopByCuisine returns up to limit records with the given cuisine,
	// ordered by rating descending.
	TopByCuisine(ctx context.Context, cuisine string, limit int32) ([]Record, error)

	// TopByRegion returns up to limit records in the given region. The
	// result is ordered by rating descending when the backend has a
	// region index; a scan-based fallback provides no ordering guarantee.
	TopByRegion(ctx context.Context, region string, limit int32) ([]Record, error)

	// TopByRegionAndCuisine returns up to limit records with the given
	// cuisine, filtered to the given region, ordered by rating descending.
	TopByRegionAndCuisine(ctx context.Context, region, cuisine string, limit int32) ([]Record, error)

	// Close releases any resources held by the store.
	Close() error
}
