package pos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpos/warung-pos/internal/domain"
)

func putOrder(t *testing.T, svc *Service, id, date string, total float64) {
	t.Helper()
	require.NoError(t, svc.store.Orders.Put(context.Background(), domain.Order{
		ID: id, TotalAmount: total, CashReceived: total, OrderDate: date,
		CreatedAt: date + "T10:00:00Z",
	}))
}

func putItem(t *testing.T, svc *Service, id, orderID string, typ domain.ProductType, vendor string, subtotal float64, qty int) {
	t.Helper()
	require.NoError(t, svc.store.OrderItems.Put(context.Background(), domain.OrderItem{
		ID: id, OrderID: orderID, ProductName: "x", UnitPrice: subtotal / float64(qty),
		Quantity: qty, Subtotal: subtotal, ProductType: typ, VendorName: vendor,
	}))
}

func TestDailyReportSingleOrder(t *testing.T) {
	svc, _ := newTestService(t)

	putOrder(t, svc, "order_1", "2024-01-01", 10000)
	putItem(t, svc, "item_1", "order_1", domain.OwnProduction, "", 10000, 1)

	report, err := svc.GetDailyReport(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", report.Date)
	assert.Equal(t, 10000.0, report.OwnProductionTotal)
	assert.Equal(t, 0.0, report.ResellTotal)
	assert.Equal(t, 0.0, report.ConsignmentTotal)
	assert.Equal(t, 10000.0, report.TotalRevenue)
	assert.Equal(t, 1, report.TotalTransactions)
	assert.Empty(t, report.VendorPayouts)
}

func TestDailyReportVendorPayouts(t *testing.T) {
	svc, _ := newTestService(t)

	putOrder(t, svc, "order_1", "2024-01-01", 5500)
	putItem(t, svc, "item_1", "order_1", domain.Consignment, "Bu Siti", 2000, 1)
	putItem(t, svc, "item_2", "order_1", domain.Consignment, "Bu Siti", 3000, 3)
	putItem(t, svc, "item_3", "order_1", domain.Consignment, "Pak Budi", 500, 1)

	report, err := svc.GetDailyReport(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 5500.0, report.ConsignmentTotal)

	// One payout entry per vendor, quantities summed, sorted by amount
	// descending.
	require.Len(t, report.VendorPayouts, 2)
	assert.Equal(t, domain.VendorPayout{VendorName: "Bu Siti", TotalAmount: 5000, ItemCount: 4},
		report.VendorPayouts[0])
	assert.Equal(t, domain.VendorPayout{VendorName: "Pak Budi", TotalAmount: 500, ItemCount: 1},
		report.VendorPayouts[1])
}

func TestDailyReportMixedTypes(t *testing.T) {
	svc, _ := newTestService(t)

	putOrder(t, svc, "order_1", "2024-01-01", 21000)
	putItem(t, svc, "item_1", "order_1", domain.OwnProduction, "", 15000, 1)
	putItem(t, svc, "item_2", "order_1", domain.Resell, "", 5000, 1)
	putItem(t, svc, "item_3", "order_1", domain.Consignment, "Bu Ani", 1000, 1)

	// Items from other dates must not leak in.
	putOrder(t, svc, "order_2", "2024-01-02", 9999)
	putItem(t, svc, "item_4", "order_2", domain.Resell, "", 9999, 1)

	report, err := svc.GetDailyReport(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 15000.0, report.OwnProductionTotal)
	assert.Equal(t, 5000.0, report.ResellTotal)
	assert.Equal(t, 1000.0, report.ConsignmentTotal)
	assert.Equal(t, 21000.0, report.TotalRevenue)
	assert.Equal(t, 1, report.TotalTransactions)
}

func TestDailyReportEmptyDate(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.GetDailyReport(context.Background(), "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, domain.DailyReportSummary{
		Date:          "2024-06-01",
		VendorPayouts: []domain.VendorPayout{},
	}, report)
}

func TestDailyReportOrderWithoutItems(t *testing.T) {
	svc, _ := newTestService(t)

	// A historical order with no surviving items still counts toward the
	// transaction count and revenue, but not the breakdown buckets.
	putOrder(t, svc, "order_1", "2024-01-01", 7000)

	report, err := svc.GetDailyReport(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalTransactions)
	assert.Equal(t, 7000.0, report.TotalRevenue)
	assert.Equal(t, 0.0, report.OwnProductionTotal+report.ResellTotal+report.ConsignmentTotal)
}
