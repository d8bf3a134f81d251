// Package store provides durable keyed storage for the five entity tables.
// Two backends satisfy the same table interface: an embedded SQLite database
// and an in-memory map store used for tests and fixture mode.
package store

import (
	"context"

	"github.com/warungpos/warung-pos/internal/domain"
)

// Keyed is any record with a stable primary key.
type Keyed interface {
	Key() string
}

// Table is keyed storage for one record type. Query runs a full scan and
// filters with the predicate; callers must not assume native index support
// for any field beyond the primary key.
type Table[T Keyed] interface {
	// Get returns the record and whether it exists.
	Get(ctx context.Context, id string) (T, bool, error)
	// Put inserts or replaces a record. The write is durable before return.
	Put(ctx context.Context, rec T) error
	// BulkPut writes all records in a single transaction.
	BulkPut(ctx context.Context, recs []T) error
	// Query returns every record matching pred, full-scan order.
	Query(ctx context.Context, pred func(T) bool) ([]T, error)
	// Delete removes a record by id. Used for rollback, not normal deletion
	// of products (those are soft-deleted).
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Store aggregates the entity tables. Fields are interface-typed so tests
// can swap individual tables (e.g. to inject write failures).
type Store struct {
	Products   Table[domain.Product]
	Categories Table[domain.Category]
	Vendors    Table[domain.Vendor]
	Orders     Table[domain.Order]
	OrderItems Table[domain.OrderItem]
	Status     Table[domain.SyncStatus]

	closer func() error
}

// Close releases the underlying database, if any.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
