package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpos/warung-pos/internal/domain"
	"github.com/warungpos/warung-pos/internal/outbox"
	"github.com/warungpos/warung-pos/internal/store"
)

var testClock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := store.NewMemory()
	svc := NewService(st, outbox.New(st.Status))
	svc.now = func() time.Time { return testClock }
	return svc, st
}

func mustCreateVendor(t *testing.T, svc *Service, name string) *domain.Vendor {
	t.Helper()
	v, err := svc.CreateVendor(context.Background(), name, "0812345678")
	require.NoError(t, err)
	return v
}

func mustCreateProduct(t *testing.T, svc *Service, p domain.Product) *domain.Product {
	t.Helper()
	created, err := svc.CreateProduct(context.Background(), p)
	require.NoError(t, err)
	return created
}

func TestCreateProductRejectsInvalidPayload(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), domain.Product{Name: "", Price: 0})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Fields)
}

func TestCreateProductRejectsMissingVendorRef(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), domain.Product{
		Name:        "Peyek",
		Price:       2000,
		ProductType: domain.Consignment,
		VendorID:    "vendor_ghost",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "vendor_id", verr.Fields[0].Field)
}

func TestSoftDeleteProduct(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	p := mustCreateProduct(t, svc, domain.Product{
		Name: "Nasi Goreng", Price: 15000, ProductType: domain.OwnProduction,
	})
	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	// Gone from the active listing.
	products, err := svc.GetProducts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, products)

	// Still present under direct id lookup, just inactive.
	stored, ok, err := st.Products.Get(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "Nasi Goreng", stored.Name)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, "prod_missing"), ErrNotFound)
}

func TestGetProductsFiltersAndJoins(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Camilan", 3)
	require.NoError(t, err)
	v := mustCreateVendor(t, svc, "Bu Siti")

	mustCreateProduct(t, svc, domain.Product{
		Name: "Peyek", Price: 2000, ProductType: domain.Consignment,
		VendorID: v.ID, CategoryID: cat.ID,
	})
	mustCreateProduct(t, svc, domain.Product{
		Name: "Es Teh", Price: 4000, ProductType: domain.OwnProduction,
	})

	all, err := svc.GetProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.GetProducts(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Peyek", filtered[0].Name)
	assert.Equal(t, "Bu Siti", filtered[0].VendorName)
	assert.Equal(t, "Camilan", filtered[0].CategoryName)
}

func TestUpdateProductPatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := mustCreateProduct(t, svc, domain.Product{
		Name: "Es Teh", Price: 4000, ProductType: domain.OwnProduction,
	})

	newPrice := 4500.0
	updated, err := svc.UpdateProduct(ctx, p.ID, ProductPatch{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 4500.0, updated.Price)
	assert.Equal(t, "Es Teh", updated.Name, "unpatched fields keep their value")

	bad := -1.0
	_, err = svc.UpdateProduct(ctx, p.ID, ProductPatch{Price: &bad})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateProduct(ctx, "prod_missing", ProductPatch{Price: &newPrice})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteVendorGuard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	v := mustCreateVendor(t, svc, "Bu Siti")
	p := mustCreateProduct(t, svc, domain.Product{
		Name: "Peyek", Price: 2000, ProductType: domain.Consignment, VendorID: v.ID,
	})

	// Refused while an active product references the vendor.
	err := svc.DeleteVendor(ctx, v.ID)
	require.ErrorIs(t, err, ErrVendorInUse)

	// Deactivating the product releases the guard.
	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	require.NoError(t, svc.DeleteVendor(ctx, v.ID))

	vendors, err := svc.GetVendors(ctx)
	require.NoError(t, err)
	assert.Empty(t, vendors)

	assert.ErrorIs(t, svc.DeleteVendor(ctx, "vendor_missing"), ErrNotFound)
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cart := []domain.CartItem{{ID: "1", Name: "Nasi Goreng", Price: 15000, ProductType: domain.OwnProduction, Quantity: 2}}

	_, err := svc.CreateOrder(ctx, 0, 0, 0, cart)
	assert.ErrorIs(t, err, ErrInvalidTotal)

	_, err = svc.CreateOrder(ctx, 30000, 50000, 20000, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Tampered total: items sum to 30000.
	_, err = svc.CreateOrder(ctx, 31000, 50000, 19000, cart)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	// Cash short of the total.
	_, err = svc.CreateOrder(ctx, 30000, 20000, 0, cart)
	assert.ErrorAs(t, err, &verr)
}

type failingItemTable struct {
	store.Table[domain.OrderItem]
}

func (failingItemTable) BulkPut(context.Context, []domain.OrderItem) error {
	return errors.New("disk full")
}

func TestCreateOrderRollsBackOnItemFailure(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	st.OrderItems = failingItemTable{st.OrderItems}

	cart := []domain.CartItem{{ID: "1", Name: "Nasi Goreng", Price: 15000, ProductType: domain.OwnProduction, Quantity: 2}}
	_, err := svc.CreateOrder(ctx, 30000, 50000, 20000, cart)
	require.Error(t, err)

	// The half-written order must have been rolled back.
	orders, qerr := st.Orders.Query(ctx, nil)
	require.NoError(t, qerr)
	assert.Empty(t, orders)

	day, derr := svc.GetOrdersForDate(ctx, "2024-01-01")
	require.NoError(t, derr)
	assert.Empty(t, day)
}

func TestCreateOrderSnapshotsCart(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	cart := []domain.CartItem{
		{ID: "11", Name: "Kerupuk Kaleng", Price: 2000, ProductType: domain.Consignment, VendorName: "Bu Siti", Quantity: 3},
	}
	order, err := svc.CreateOrder(ctx, 6000, 10000, 4000, cart)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", order.OrderDate)

	items, err := st.OrderItems.Query(ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	it := items[0]
	assert.Equal(t, order.ID, it.OrderID)
	assert.Equal(t, "Kerupuk Kaleng", it.ProductName)
	assert.Equal(t, 2000.0, it.UnitPrice)
	assert.Equal(t, 3, it.Quantity)
	assert.Equal(t, 6000.0, it.Subtotal)
	assert.Equal(t, domain.Consignment, it.ProductType)
	assert.Equal(t, "Bu Siti", it.VendorName)

	// The order lands in the outbox exactly once.
	status, err := svc.Outbox().ListPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{order.ID}, status.Orders)
}

func TestEndToEndCheckout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := mustCreateProduct(t, svc, domain.Product{
		Name: "Nasi Goreng", Price: 15000, ProductType: domain.OwnProduction,
	})

	cart := []domain.CartItem{{
		ID: p.ID, Name: p.Name, Price: p.Price, ProductType: p.ProductType, Quantity: 2,
	}}
	order, err := svc.CreateOrder(ctx, 30000, 50000, 20000, cart)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, order.ChangeAmount)

	report, err := svc.GetDailyReport(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 30000.0, report.TotalRevenue)
	assert.Equal(t, 30000.0, report.OwnProductionTotal)
	assert.Equal(t, 1, report.TotalTransactions)

	stats, err := svc.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Products)
	assert.Equal(t, 1, stats.Orders)
	assert.Equal(t, 30000.0, stats.TotalRevenue)
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, svc.store))
	snap, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Categories, 3)
	assert.Len(t, snap.Vendors, 3)
	assert.Len(t, snap.Products, 14)

	// Import into a fresh service is additive.
	other, _ := newTestService(t)
	require.NoError(t, other.Import(ctx, snap))

	products, err := other.GetProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, products, 14)
}

func TestSeedIsIdempotent(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, st))
	require.NoError(t, Seed(ctx, st))

	categories, err := svc.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)
}
