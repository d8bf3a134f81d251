// Package pos implements the repository operations and reporting engine of
// the POS data core over the embedded store.
package pos

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warungpos/warung-pos/internal/domain"
	"github.com/warungpos/warung-pos/internal/outbox"
	"github.com/warungpos/warung-pos/internal/store"
	"github.com/warungpos/warung-pos/internal/validation"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrVendorInUse  = errors.New("vendor still has active products")
	ErrEmptyCart    = errors.New("cart cannot be empty")
	ErrInvalidTotal = errors.New("total amount must be greater than 0")
)

// ValidationError carries the field-level failures of a rejected payload.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + validation.Format(e.Fields)
}

// DataSource is the capability the UI layers consume. Two implementations
// exist: the store-backed Service and the static fixture returned by
// NewFixture, selected at startup.
type DataSource interface {
	GetProducts(ctx context.Context, categoryID string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	GetCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string, sortOrder int) (*domain.Category, error)

	GetVendors(ctx context.Context) ([]domain.Vendor, error)
	CreateVendor(ctx context.Context, name, phone string) (*domain.Vendor, error)
	UpdateVendor(ctx context.Context, id string, patch VendorPatch) (*domain.Vendor, error)
	DeleteVendor(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, totalAmount, cashReceived, changeAmount float64, cart []domain.CartItem) (*domain.Order, error)
	GetOrdersForDate(ctx context.Context, date string) ([]domain.Order, error)
	GetAllOrders(ctx context.Context) ([]domain.Order, error)

	GetDailyReport(ctx context.Context, date string) (domain.DailyReportSummary, error)
	GetStatistics(ctx context.Context) (domain.Statistics, error)

	Export(ctx context.Context) (*domain.Snapshot, error)
	Import(ctx context.Context, snap *domain.Snapshot) error
}

// ProductPatch is a partial product update; nil fields are left unchanged.
type ProductPatch struct {
	Name        *string             `json:"name"`
	Price       *float64            `json:"price"`
	ImageURL    *string             `json:"image_url"`
	Emoji       *string             `json:"emoji"`
	ProductType *domain.ProductType `json:"product_type"`
	VendorID    *string             `json:"vendor_id"`
	CategoryID  *string             `json:"category_id"`
	IsActive    *bool               `json:"is_active"`
}

// VendorPatch is a partial vendor update; nil fields are left unchanged.
type VendorPatch struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// Service is the local-store-backed DataSource.
type Service struct {
	store  *store.Store
	outbox outbox.Outbox
	now    func() time.Time
}

func NewService(st *store.Store, ob outbox.Outbox) *Service {
	return &Service{store: st, outbox: ob, now: time.Now}
}

// Outbox exposes the pending-sync marker the service writes to, for the
// sync endpoints.
func (s *Service) Outbox() outbox.Outbox { return s.outbox }

func (s *Service) timestamp() string { return s.now().Format(time.RFC3339) }
func (s *Service) today() string     { return s.now().Format("2006-01-02") }

// markPending records a local mutation for the sync stub. A failed marking
// never fails the mutation that triggered it.
func (s *Service) markPending(ctx context.Context, table, id string) {
	if err := s.outbox.MarkPending(ctx, table, id); err != nil {
		log.Printf("[data] mark pending sync %s/%s: %v", table, id, err)
	}
}

// ==================== PRODUCTS ====================

// GetProducts returns active products, optionally filtered by category,
// with vendor and category names joined in. Store failures degrade to an
// empty list so the UI stays responsive.
func (s *Service) GetProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	// is_active is a boolean attribute: scan and post-filter.
	products, err := s.store.Products.Query(ctx, func(p domain.Product) bool {
		if !p.IsActive {
			return false
		}
		return categoryID == "" || p.CategoryID == categoryID
	})
	if err != nil {
		log.Printf("[data] fetch products: %v", err)
		return []domain.Product{}, nil
	}

	s.joinNames(ctx, products)
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

// joinNames fills the denormalized vendor_name/category_name read fields.
func (s *Service) joinNames(ctx context.Context, products []domain.Product) {
	categories, err := s.store.Categories.Query(ctx, nil)
	if err != nil {
		log.Printf("[data] join categories: %v", err)
		return
	}
	vendors, err := s.store.Vendors.Query(ctx, nil)
	if err != nil {
		log.Printf("[data] join vendors: %v", err)
		return
	}

	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}
	vendorNames := make(map[string]string, len(vendors))
	for _, v := range vendors {
		vendorNames[v.ID] = v.Name
	}

	for i := range products {
		if name, ok := categoryNames[products[i].CategoryID]; ok {
			products[i].CategoryName = name
		}
		if name, ok := vendorNames[products[i].VendorID]; ok {
			products[i].VendorName = name
		}
	}
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if errs := validation.ValidateProduct(p); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if err := s.checkVendorRef(ctx, p); err != nil {
		return nil, err
	}

	p.ID = domain.NewID("prod")
	p.CreatedAt = s.timestamp()
	p.IsActive = true

	if err := s.store.Products.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.markPending(ctx, outbox.TableProducts, p.ID)
	log.Printf("[data] product created: %s", p.ID)
	return &p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error) {
	p, ok, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Emoji != nil {
		p.Emoji = *patch.Emoji
	}
	if patch.ProductType != nil {
		p.ProductType = *patch.ProductType
	}
	if patch.VendorID != nil {
		p.VendorID = *patch.VendorID
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	if p.ProductType != domain.Consignment {
		p.VendorID = ""
	}

	if errs := validation.ValidateProduct(p); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if err := s.checkVendorRef(ctx, p); err != nil {
		return nil, err
	}

	if err := s.store.Products.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.markPending(ctx, outbox.TableProducts, id)
	log.Printf("[data] product updated: %s", id)
	return &p, nil
}

// DeleteProduct soft-deletes: the record stays in the store so historical
// order item snapshots keep a resolvable reference.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	p, ok, err := s.store.Products.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	p.IsActive = false
	if err := s.store.Products.Put(ctx, p); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.markPending(ctx, outbox.TableProducts, id)
	log.Printf("[data] product deactivated: %s", id)
	return nil
}

// checkVendorRef enforces the consignment invariant: vendor_id must point
// at an existing vendor.
func (s *Service) checkVendorRef(ctx context.Context, p domain.Product) error {
	if p.ProductType != domain.Consignment {
		return nil
	}
	_, ok, err := s.store.Vendors.Get(ctx, p.VendorID)
	if err != nil {
		return fmt.Errorf("check vendor: %w", err)
	}
	if !ok {
		return &ValidationError{Fields: []validation.FieldError{
			{Field: "vendor_id", Message: "Vendor does not exist"},
		}}
	}
	return nil
}

// ==================== CATEGORIES ====================

func (s *Service) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.store.Categories.Query(ctx, nil)
	if err != nil {
		log.Printf("[data] fetch categories: %v", err)
		return []domain.Category{}, nil
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].SortOrder < categories[j].SortOrder
	})
	return categories, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string, sortOrder int) (*domain.Category, error) {
	c := domain.Category{
		ID:        domain.NewID("cat"),
		Name:      name,
		SortOrder: sortOrder,
	}
	if errs := validation.ValidateCategory(c); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if err := s.store.Categories.Put(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.markPending(ctx, outbox.TableCategories, c.ID)
	log.Printf("[data] category created: %s", c.ID)
	return &c, nil
}

// ==================== VENDORS ====================

func (s *Service) GetVendors(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := s.store.Vendors.Query(ctx, nil)
	if err != nil {
		log.Printf("[data] fetch vendors: %v", err)
		return []domain.Vendor{}, nil
	}
	sort.Slice(vendors, func(i, j int) bool { return vendors[i].Name < vendors[j].Name })
	return vendors, nil
}

func (s *Service) CreateVendor(ctx context.Context, name, phone string) (*domain.Vendor, error) {
	v := domain.Vendor{
		ID:        domain.NewID("vendor"),
		Name:      name,
		Phone:     phone,
		CreatedAt: s.timestamp(),
	}
	if errs := validation.ValidateVendor(v); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if err := s.store.Vendors.Put(ctx, v); err != nil {
		return nil, fmt.Errorf("create vendor: %w", err)
	}
	log.Printf("[data] vendor created: %s", v.ID)
	return &v, nil
}

func (s *Service) UpdateVendor(ctx context.Context, id string, patch VendorPatch) (*domain.Vendor, error) {
	v, ok, err := s.store.Vendors.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	if patch.Name != nil {
		v.Name = *patch.Name
	}
	if patch.Phone != nil {
		v.Phone = *patch.Phone
	}

	if errs := validation.ValidateVendor(v); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if err := s.store.Vendors.Put(ctx, v); err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}
	log.Printf("[data] vendor updated: %s", id)
	return &v, nil
}

// DeleteVendor refuses while any active product still references the
// vendor; callers must reassign or deactivate those products first.
func (s *Service) DeleteVendor(ctx context.Context, id string) error {
	_, ok, err := s.store.Vendors.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	inUse, err := s.store.Products.Query(ctx, func(p domain.Product) bool {
		return p.IsActive && p.VendorID == id
	})
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if len(inUse) > 0 {
		return fmt.Errorf("%w: %d active product(s)", ErrVendorInUse, len(inUse))
	}

	if err := s.store.Vendors.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	log.Printf("[data] vendor deleted: %s", id)
	return nil
}

// ==================== ORDERS ====================

// CreateOrder is the one multi-record write in the system. The order record
// is persisted first, then the items; if item persistence fails the order
// is rolled back so no order ever exists without items. Failures here are
// always propagated, never swallowed.
func (s *Service) CreateOrder(ctx context.Context, totalAmount, cashReceived, changeAmount float64, cart []domain.CartItem) (*domain.Order, error) {
	if totalAmount <= 0 {
		return nil, ErrInvalidTotal
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	order := domain.Order{
		ID:           domain.NewID("order"),
		TotalAmount:  totalAmount,
		CashReceived: cashReceived,
		ChangeAmount: changeAmount,
		OrderDate:    s.today(),
		CreatedAt:    s.timestamp(),
	}

	items := make([]domain.OrderItem, 0, len(cart))
	for _, line := range cart {
		subtotal := decimal.NewFromFloat(line.Price).
			Mul(decimal.NewFromInt(int64(line.Quantity))).
			InexactFloat64()
		items = append(items, domain.OrderItem{
			ID:          domain.NewID("item"),
			OrderID:     order.ID,
			ProductID:   line.ID,
			ProductName: line.Name,
			UnitPrice:   line.Price,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
			ProductType: line.ProductType,
			VendorName:  line.VendorName,
			CreatedAt:   order.CreatedAt,
		})
	}

	errs := validation.ValidateOrder(totalAmount, items)
	errs = append(errs, validation.ValidatePayment(cashReceived, totalAmount)...)
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if err := s.store.Orders.Put(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	if err := s.store.OrderItems.BulkPut(ctx, items); err != nil {
		// An order must never exist without its items.
		if rbErr := s.store.Orders.Delete(ctx, order.ID); rbErr != nil {
			log.Printf("[data] rollback order %s: %v", order.ID, rbErr)
		}
		return nil, fmt.Errorf("persist order items: %w", err)
	}

	s.markPending(ctx, outbox.TableOrders, order.ID)
	log.Printf("[data] order created: %s (%d items)", order.ID, len(items))
	return &order, nil
}

func (s *Service) GetOrdersForDate(ctx context.Context, date string) ([]domain.Order, error) {
	orders, err := s.store.Orders.Query(ctx, func(o domain.Order) bool {
		return o.OrderDate == date
	})
	if err != nil {
		log.Printf("[data] fetch orders for %s: %v", date, err)
		return []domain.Order{}, nil
	}
	// RFC 3339 timestamps sort lexicographically.
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt > orders[j].CreatedAt })
	return orders, nil
}

func (s *Service) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.store.Orders.Query(ctx, nil)
	if err != nil {
		log.Printf("[data] fetch all orders: %v", err)
		return []domain.Order{}, nil
	}
	return orders, nil
}

// ==================== EXPORT / IMPORT ====================

// Export returns a full-table snapshot for backup.
func (s *Service) Export(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{ExportDate: s.timestamp()}
	var err error

	if snap.Products, err = s.store.Products.Query(ctx, nil); err != nil {
		return nil, fmt.Errorf("export products: %w", err)
	}
	if snap.Categories, err = s.store.Categories.Query(ctx, nil); err != nil {
		return nil, fmt.Errorf("export categories: %w", err)
	}
	if snap.Vendors, err = s.store.Vendors.Query(ctx, nil); err != nil {
		return nil, fmt.Errorf("export vendors: %w", err)
	}
	if snap.Orders, err = s.store.Orders.Query(ctx, nil); err != nil {
		return nil, fmt.Errorf("export orders: %w", err)
	}
	if snap.OrderItems, err = s.store.OrderItems.Query(ctx, nil); err != nil {
		return nil, fmt.Errorf("export order items: %w", err)
	}
	return snap, nil
}

// Import bulk-inserts each present table. It is additive: callers must
// clear the store first if a full replace is desired.
func (s *Service) Import(ctx context.Context, snap *domain.Snapshot) error {
	if len(snap.Categories) > 0 {
		if err := s.store.Categories.BulkPut(ctx, snap.Categories); err != nil {
			return fmt.Errorf("import categories: %w", err)
		}
	}
	if len(snap.Vendors) > 0 {
		if err := s.store.Vendors.BulkPut(ctx, snap.Vendors); err != nil {
			return fmt.Errorf("import vendors: %w", err)
		}
	}
	if len(snap.Products) > 0 {
		if err := s.store.Products.BulkPut(ctx, snap.Products); err != nil {
			return fmt.Errorf("import products: %w", err)
		}
	}
	if len(snap.Orders) > 0 {
		if err := s.store.Orders.BulkPut(ctx, snap.Orders); err != nil {
			return fmt.Errorf("import orders: %w", err)
		}
	}
	if len(snap.OrderItems) > 0 {
		if err := s.store.OrderItems.BulkPut(ctx, snap.OrderItems); err != nil {
			return fmt.Errorf("import order items: %w", err)
		}
	}
	log.Printf("[data] snapshot imported")
	return nil
}
