package pos

import (
	"context"
	"fmt"

	"github.com/warungpos/warung-pos/internal/outbox"
	"github.com/warungpos/warung-pos/internal/store"
)

// NewFixture returns a DataSource backed by an in-memory store pre-loaded
// with the demo catalog. Nothing survives a restart; it exists so the
// application can run without a database file (demo mode) and so tests have
// a realistic data source.
func NewFixture(ctx context.Context) (*Service, error) {
	st := store.NewMemory()
	if err := Seed(ctx, st); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return NewService(st, outbox.New(st.Status)), nil
}
