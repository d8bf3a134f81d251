// Package domain holds the persisted record shapes for the POS data core.
// Field names and json tags are the wire format for import/export.
package domain

import "github.com/google/uuid"

type ProductType string

const (
	OwnProduction ProductType = "OWN_PRODUCTION"
	Resell        ProductType = "RESELL"
	Consignment   ProductType = "CONSIGNMENT"
)

func (t ProductType) Valid() bool {
	switch t {
	case OwnProduction, Resell, Consignment:
		return true
	}
	return false
}

type Vendor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
}

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
	// Emoji is the display fallback when no image is set.
	Emoji        string      `json:"emoji,omitempty"`
	ProductType  ProductType `json:"product_type"`
	VendorID     string      `json:"vendor_id,omitempty"`
	VendorName   string      `json:"vendor_name,omitempty"`
	CategoryID   string      `json:"category_id,omitempty"`
	CategoryName string      `json:"category_name,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    string      `json:"created_at"`
}

type Order struct {
	ID           string  `json:"id"`
	TotalAmount  float64 `json:"total_amount"`
	CashReceived float64 `json:"cash_received"`
	ChangeAmount float64 `json:"change_amount"`
	// OrderDate is the calendar date (YYYY-MM-DD), distinct from CreatedAt.
	OrderDate string `json:"order_date"`
	CreatedAt string `json:"created_at"`
}

// OrderItem snapshots product name, price, type and vendor at sale time so
// later product edits never alter historical records.
type OrderItem struct {
	ID          string      `json:"id"`
	OrderID     string      `json:"order_id"`
	ProductID   string      `json:"product_id,omitempty"`
	ProductName string      `json:"product_name"`
	UnitPrice   float64     `json:"unit_price"`
	Quantity    int         `json:"quantity"`
	Subtotal    float64     `json:"subtotal"`
	ProductType ProductType `json:"product_type"`
	VendorName  string      `json:"vendor_name,omitempty"`
	CreatedAt   string      `json:"created_at"`
}

// CartItem is transient UI-facing state between add-to-cart and checkout.
// It is never persisted.
type CartItem struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Emoji       string      `json:"emoji,omitempty"`
	ProductType ProductType `json:"product_type"`
	VendorID    string      `json:"vendor_id,omitempty"`
	VendorName  string      `json:"vendor_name,omitempty"`
	CategoryID  string      `json:"category_id,omitempty"`
	Quantity    int         `json:"quantity"`
}

type VendorPayout struct {
	VendorName  string  `json:"vendor_name"`
	TotalAmount float64 `json:"total_amount"`
	ItemCount   int     `json:"item_count"`
}

type DailyReportSummary struct {
	Date               string         `json:"date"`
	TotalRevenue       float64        `json:"total_revenue"`
	TotalTransactions  int            `json:"total_transactions"`
	OwnProductionTotal float64        `json:"own_production_total"`
	ResellTotal        float64        `json:"resell_total"`
	ConsignmentTotal   float64        `json:"consignment_total"`
	VendorPayouts      []VendorPayout `json:"vendor_payouts"`
}

type Statistics struct {
	Products     int     `json:"products"`
	Orders       int     `json:"orders"`
	Categories   int     `json:"categories"`
	Vendors      int     `json:"vendors"`
	TotalRevenue float64 `json:"total_revenue"`
}

// SyncStatus is the outbox record: ids mutated locally and not yet pushed
// to a remote backend, grouped by table.
type SyncStatus struct {
	ID         string   `json:"id"`
	Orders     []string `json:"orders"`
	Products   []string `json:"products"`
	Categories []string `json:"categories"`
}

// Snapshot is the full-table export/import shape. The top-level field names
// match the original backup format.
type Snapshot struct {
	ExportDate string      `json:"exportDate"`
	Products   []Product   `json:"products"`
	Categories []Category  `json:"categories"`
	Vendors    []Vendor    `json:"vendors"`
	Orders     []Order     `json:"orders"`
	OrderItems []OrderItem `json:"orderItems"`
}

func (v Vendor) Key() string     { return v.ID }
func (c Category) Key() string   { return c.ID }
func (p Product) Key() string    { return p.ID }
func (o Order) Key() string      { return o.ID }
func (i OrderItem) Key() string  { return i.ID }
func (s SyncStatus) Key() string { return s.ID }

// NewID returns a prefixed record id, e.g. "order_4e7d...".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
