// Package outbox tracks record ids mutated locally and not yet pushed to a
// remote backend. It is intentionally narrow (mark / list / clear) so a
// real sync engine can be layered on later without touching the data layer.
// No push, retry, or conflict resolution is implemented.
package outbox

import (
	"context"
	"fmt"

	"github.com/warungpos/warung-pos/internal/domain"
	"github.com/warungpos/warung-pos/internal/store"
)

// Synced tables. Vendors are not tracked; the original backend only pushes
// orders, products and categories.
const (
	TableOrders     = "orders"
	TableProducts   = "products"
	TableCategories = "categories"
)

const statusKey = "pending"

type Outbox interface {
	// MarkPending records id as awaiting sync. Idempotent.
	MarkPending(ctx context.Context, table, id string) error
	// ListPending returns the current outbox grouped by table. Lists are
	// never nil.
	ListPending(ctx context.Context) (domain.SyncStatus, error)
	// ClearPending resets the outbox after a successful sync run.
	ClearPending(ctx context.Context) error
}

// StoreOutbox persists the pending sets as a single status record alongside
// the main tables.
type StoreOutbox struct {
	status store.Table[domain.SyncStatus]
}

func New(status store.Table[domain.SyncStatus]) *StoreOutbox {
	return &StoreOutbox{status: status}
}

func (o *StoreOutbox) MarkPending(ctx context.Context, table, id string) error {
	status, err := o.ListPending(ctx)
	if err != nil {
		return err
	}

	switch table {
	case TableOrders:
		status.Orders = appendUnique(status.Orders, id)
	case TableProducts:
		status.Products = appendUnique(status.Products, id)
	case TableCategories:
		status.Categories = appendUnique(status.Categories, id)
	default:
		return fmt.Errorf("outbox: unknown table %q", table)
	}

	return o.status.Put(ctx, status)
}

func (o *StoreOutbox) ListPending(ctx context.Context) (domain.SyncStatus, error) {
	status, ok, err := o.status.Get(ctx, statusKey)
	if err != nil {
		return domain.SyncStatus{}, fmt.Errorf("outbox: load status: %w", err)
	}
	if !ok {
		status = domain.SyncStatus{ID: statusKey}
	}
	if status.Orders == nil {
		status.Orders = []string{}
	}
	if status.Products == nil {
		status.Products = []string{}
	}
	if status.Categories == nil {
		status.Categories = []string{}
	}
	return status, nil
}

func (o *StoreOutbox) ClearPending(ctx context.Context) error {
	return o.status.Delete(ctx, statusKey)
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
