// Package validation holds the pure input checks that gate every mutation.
// Cart totals are computed client-side and later persisted, so these checks
// are the sole integrity gate against a corrupted or manipulated cart.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warungpos/warung-pos/internal/domain"
)

// FieldError is a single field-level validation failure. Validators return
// a list of these; an empty list means the payload is valid.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Epsilon absorbs floating-point noise from currency arithmetic. Mismatches
// beyond it are reported, never silently corrected.
const Epsilon = 0.01

var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]*$`)

func ValidateProduct(p domain.Product) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, FieldError{"name", "Product name is required"})
	}
	if p.Price <= 0 {
		errs = append(errs, FieldError{"price", "Price must be greater than 0"})
	}
	if !p.ProductType.Valid() {
		errs = append(errs, FieldError{"product_type", "Invalid product type"})
	}
	if p.ProductType == domain.Consignment && p.VendorID == "" {
		errs = append(errs, FieldError{"vendor_id", "Vendor is required for consignment products"})
	}
	if p.ProductType != domain.Consignment && p.VendorID != "" {
		errs = append(errs, FieldError{"vendor_id", "Vendor is only allowed for consignment products"})
	}

	return errs
}

func ValidateCategory(c domain.Category) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, FieldError{"name", "Category name is required"})
	}
	return errs
}

func ValidateVendor(v domain.Vendor) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(v.Name) == "" {
		errs = append(errs, FieldError{"name", "Vendor name is required"})
	}
	if v.Phone != "" && !phonePattern.MatchString(v.Phone) {
		errs = append(errs, FieldError{"phone", "Invalid phone number format"})
	}
	return errs
}

// ValidatePayment checks the cash tendered against the order total and
// reports the exact shortfall when it does not cover it.
func ValidatePayment(cashReceived, totalAmount float64) []FieldError {
	var errs []FieldError

	if math.IsNaN(cashReceived) || math.IsInf(cashReceived, 0) || cashReceived < 0 {
		errs = append(errs, FieldError{"cash_received", "Invalid amount entered"})
		return errs
	}
	if cashReceived < totalAmount {
		short := decimal.NewFromFloat(totalAmount).Sub(decimal.NewFromFloat(cashReceived))
		errs = append(errs, FieldError{
			"cash_received",
			fmt.Sprintf("Insufficient payment. Need Rp %s more", short.String()),
		})
	}

	return errs
}

// ValidateOrderItem checks a single line: positive quantity, non-negative
// unit price, and subtotal equal to unit_price x quantity within Epsilon.
func ValidateOrderItem(item domain.OrderItem, index int) []FieldError {
	var errs []FieldError
	prefix := fmt.Sprintf("items[%d]", index)

	if strings.TrimSpace(item.ProductName) == "" {
		errs = append(errs, FieldError{prefix + ".product_name", "Product name is required"})
	}
	if item.UnitPrice < 0 {
		errs = append(errs, FieldError{prefix + ".unit_price", "Unit price must not be negative"})
	}
	if item.Quantity <= 0 {
		errs = append(errs, FieldError{prefix + ".quantity", "Quantity must be greater than 0"})
	}

	expected := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
	diff := decimal.NewFromFloat(item.Subtotal).Sub(expected).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(Epsilon)) {
		errs = append(errs, FieldError{prefix + ".subtotal", "Subtotal does not match price x quantity"})
	}

	return errs
}

// ValidateOrder checks the whole order payload: positive total, at least
// one item, every item consistent, and the item subtotals summing to the
// order total within Epsilon.
func ValidateOrder(totalAmount float64, items []domain.OrderItem) []FieldError {
	var errs []FieldError

	if totalAmount <= 0 {
		errs = append(errs, FieldError{"total_amount", "Order total must be greater than 0"})
	}
	if len(items) == 0 {
		errs = append(errs, FieldError{"items", "Order must contain at least one item"})
		return errs
	}

	sum := decimal.Zero
	for i, item := range items {
		errs = append(errs, ValidateOrderItem(item, i)...)
		sum = sum.Add(decimal.NewFromFloat(item.Subtotal))
	}

	diff := sum.Sub(decimal.NewFromFloat(totalAmount)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(Epsilon)) {
		errs = append(errs, FieldError{"total_amount", "Order total does not match sum of item subtotals"})
	}

	return errs
}

// Format joins errors into a single human-readable message.
func Format(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}
