package pos

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/warungpos/warung-pos/internal/domain"
	"github.com/warungpos/warung-pos/internal/store"
)

// Seed loads the demo warung catalog into an empty store. A store that
// already has categories is left untouched.
func Seed(ctx context.Context, st *store.Store) error {
	n, err := st.Categories.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count categories: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := time.Now().Format(time.RFC3339)

	categories := []domain.Category{
		{ID: "1", Name: "Makanan", SortOrder: 1},
		{ID: "2", Name: "Minuman", SortOrder: 2},
		{ID: "3", Name: "Camilan", SortOrder: 3},
	}
	vendors := []domain.Vendor{
		{ID: "v1", Name: "Bu Siti", Phone: "081234567890", CreatedAt: now},
		{ID: "v2", Name: "Pak Budi", Phone: "081234567891", CreatedAt: now},
		{ID: "v3", Name: "Bu Ani", Phone: "081234567892", CreatedAt: now},
	}
	products := []domain.Product{
		{ID: "1", Name: "Nasi Goreng", Price: 15000, Emoji: "🍛", ProductType: domain.OwnProduction, CategoryID: "1", IsActive: true, CreatedAt: now},
		{ID: "2", Name: "Mie Goreng", Price: 13000, Emoji: "🍜", ProductType: domain.OwnProduction, CategoryID: "1", IsActive: true, CreatedAt: now},
		{ID: "3", Name: "Nasi Ayam", Price: 18000, Emoji: "🍗", ProductType: domain.OwnProduction, CategoryID: "1", IsActive: true, CreatedAt: now},
		{ID: "4", Name: "Soto Ayam", Price: 15000, Emoji: "🍲", ProductType: domain.OwnProduction, CategoryID: "1", IsActive: true, CreatedAt: now},
		{ID: "5", Name: "Es Teh Manis", Price: 4000, Emoji: "🥤", ProductType: domain.OwnProduction, CategoryID: "2", IsActive: true, CreatedAt: now},
		{ID: "6", Name: "Es Jeruk", Price: 5000, Emoji: "🍊", ProductType: domain.OwnProduction, CategoryID: "2", IsActive: true, CreatedAt: now},
		{ID: "7", Name: "Kopi Hitam", Price: 5000, Emoji: "☕", ProductType: domain.OwnProduction, CategoryID: "2", IsActive: true, CreatedAt: now},
		{ID: "8", Name: "Aqua Botol", Price: 5000, Emoji: "💧", ProductType: domain.Resell, CategoryID: "2", IsActive: true, CreatedAt: now},
		{ID: "9", Name: "Teh Pucuk", Price: 5000, Emoji: "🍵", ProductType: domain.Resell, CategoryID: "2", IsActive: true, CreatedAt: now},
		{ID: "10", Name: "Sprite", Price: 6000, Emoji: "🥤", ProductType: domain.Resell, CategoryID: "2", IsActive: true, CreatedAt: now},
		{ID: "11", Name: "Kerupuk Kaleng", Price: 2000, Emoji: "🍘", ProductType: domain.Consignment, VendorID: "v1", CategoryID: "3", IsActive: true, CreatedAt: now},
		{ID: "12", Name: "Gorengan", Price: 1000, Emoji: "🥟", ProductType: domain.Consignment, VendorID: "v2", CategoryID: "3", IsActive: true, CreatedAt: now},
		{ID: "13", Name: "Peyek Kacang", Price: 2000, Emoji: "🥜", ProductType: domain.Consignment, VendorID: "v1", CategoryID: "3", IsActive: true, CreatedAt: now},
		{ID: "14", Name: "Kopi Sachet", Price: 3000, Emoji: "☕", ProductType: domain.Consignment, VendorID: "v3", CategoryID: "2", IsActive: true, CreatedAt: now},
	}

	if err := st.Categories.BulkPut(ctx, categories); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := st.Vendors.BulkPut(ctx, vendors); err != nil {
		return fmt.Errorf("seed vendors: %w", err)
	}
	if err := st.Products.BulkPut(ctx, products); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	log.Printf("[data] seeded demo catalog: %d categories, %d vendors, %d products",
		len(categories), len(vendors), len(products))
	return nil
}
