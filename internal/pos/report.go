package pos

import (
	"context"
	"log"
	"sort"

	"github.com/warungpos/warung-pos/internal/domain"
)

// GetDailyReport aggregates the day's orders into per-type totals and
// consignment vendor payouts. A pure read: nothing is mutated. A date with
// no orders yields the canonical empty summary, not an error.
func (s *Service) GetDailyReport(ctx context.Context, date string) (domain.DailyReportSummary, error) {
	orders, err := s.store.Orders.Query(ctx, func(o domain.Order) bool {
		return o.OrderDate == date
	})
	if err != nil {
		log.Printf("[data] daily report %s: %v", date, err)
		return emptyReport(date), nil
	}
	if len(orders) == 0 {
		return emptyReport(date), nil
	}

	orderIDs := make(map[string]bool, len(orders))
	for _, o := range orders {
		orderIDs[o.ID] = true
	}

	items, err := s.store.OrderItems.Query(ctx, func(it domain.OrderItem) bool {
		return orderIDs[it.OrderID]
	})
	if err != nil {
		log.Printf("[data] daily report items %s: %v", date, err)
		return emptyReport(date), nil
	}

	summary := emptyReport(date)
	summary.TotalTransactions = len(orders)
	// Revenue comes from the order totals, not a recomputation from items,
	// so historical order/item drift still reports consistently.
	for _, o := range orders {
		summary.TotalRevenue += o.TotalAmount
	}

	type payout struct {
		amount float64
		count  int
	}
	vendorTotals := map[string]*payout{}
	vendorNames := []string{} // first-seen order, for a stable tie-break

	for _, item := range items {
		switch item.ProductType {
		case domain.OwnProduction:
			summary.OwnProductionTotal += item.Subtotal
		case domain.Resell:
			summary.ResellTotal += item.Subtotal
		case domain.Consignment:
			summary.ConsignmentTotal += item.Subtotal
			if item.VendorName == "" {
				continue
			}
			p, ok := vendorTotals[item.VendorName]
			if !ok {
				p = &payout{}
				vendorTotals[item.VendorName] = p
				vendorNames = append(vendorNames, item.VendorName)
			}
			p.amount += item.Subtotal
			p.count += item.Quantity
		}
	}

	for _, name := range vendorNames {
		summary.VendorPayouts = append(summary.VendorPayouts, domain.VendorPayout{
			VendorName:  name,
			TotalAmount: vendorTotals[name].amount,
			ItemCount:   vendorTotals[name].count,
		})
	}
	sort.SliceStable(summary.VendorPayouts, func(i, j int) bool {
		return summary.VendorPayouts[i].TotalAmount > summary.VendorPayouts[j].TotalAmount
	})

	return summary, nil
}

// GetStatistics returns dashboard counters. Failures degrade to zeros.
func (s *Service) GetStatistics(ctx context.Context) (domain.Statistics, error) {
	var stats domain.Statistics

	active, err := s.store.Products.Query(ctx, func(p domain.Product) bool { return p.IsActive })
	if err != nil {
		log.Printf("[data] statistics: %v", err)
		return stats, nil
	}
	stats.Products = len(active)

	if stats.Categories, err = s.store.Categories.Count(ctx); err != nil {
		log.Printf("[data] statistics: %v", err)
		return domain.Statistics{}, nil
	}
	if stats.Vendors, err = s.store.Vendors.Count(ctx); err != nil {
		log.Printf("[data] statistics: %v", err)
		return domain.Statistics{}, nil
	}

	orders, err := s.store.Orders.Query(ctx, nil)
	if err != nil {
		log.Printf("[data] statistics: %v", err)
		return domain.Statistics{}, nil
	}
	stats.Orders = len(orders)
	for _, o := range orders {
		stats.TotalRevenue += o.TotalAmount
	}

	return stats, nil
}

func emptyReport(date string) domain.DailyReportSummary {
	return domain.DailyReportSummary{
		Date:          date,
		VendorPayouts: []domain.VendorPayout{},
	}
}
