package store

import (
	"context"
	"sync"

	"github.com/warungpos/warung-pos/internal/domain"
)

// NewMemory returns a map-backed store with the same semantics as the
// SQLite backend. Used by tests and by fixture mode.
func NewMemory() *Store {
	return &Store{
		Products:   newMemTable[domain.Product](),
		Categories: newMemTable[domain.Category](),
		Vendors:    newMemTable[domain.Vendor](),
		Orders:     newMemTable[domain.Order](),
		OrderItems: newMemTable[domain.OrderItem](),
		Status:     newMemTable[domain.SyncStatus](),
	}
}

type memTable[T Keyed] struct {
	mu   sync.RWMutex
	recs map[string]T
}

func newMemTable[T Keyed]() *memTable[T] {
	return &memTable[T]{recs: make(map[string]T)}
}

func (t *memTable[T]) Get(_ context.Context, id string) (T, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.recs[id]
	return rec, ok, nil
}

func (t *memTable[T]) Put(_ context.Context, rec T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recs[rec.Key()] = rec
	return nil
}

func (t *memTable[T]) BulkPut(_ context.Context, recs []T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, rec := range recs {
		t.recs[rec.Key()] = rec
	}
	return nil
}

func (t *memTable[T]) Query(_ context.Context, pred func(T) bool) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := []T{}
	for _, rec := range t.recs {
		if pred == nil || pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (t *memTable[T]) Delete(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.recs, id)
	return nil
}

func (t *memTable[T]) Count(_ context.Context) (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.recs), nil
}
