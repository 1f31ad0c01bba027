// Package calc derives every displayed or exported total. All functions are
// pure and total: bad numeric input is clamped to a safe value rather than
// propagated, so interactive editing never sees NaN or negative amounts.
package calc

import (
	"math"

	"github.com/weehong/resetrix-invoice/internal/invoice/domain"
)

// ItemTotal computes quantity * unit price. Non-finite or negative inputs
// are clamped to 0 first.
func ItemTotal(quantity, unitPrice float64) float64 {
	return sanitize(quantity) * sanitize(unitPrice)
}

// Subtotal sums recomputed item totals. Stored totals are ignored so a
// stale value can never leak into the subtotal.
func Subtotal(items []domain.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += ItemTotal(item.Quantity, item.UnitPrice)
	}
	return sum
}

// Tax applies a fractional rate (0-1), clamped into range. Disabled tax is
// always 0.
func Tax(subtotal float64, tax domain.TaxConfig) float64 {
	if !tax.Enabled {
		return 0
	}
	rate := sanitize(tax.Rate)
	if rate > 1 {
		rate = 1
	}
	return sanitize(subtotal) * rate
}

// Discount applies the legacy percentage rate (0-100). The differing rate
// convention between tax and discount is deliberate: stored records carry
// both shapes and conversion happens only at the transport boundary.
func Discount(subtotal float64, discount *domain.DiscountConfig) float64 {
	if discount == nil {
		return 0
	}
	rate := sanitize(discount.Rate)
	if rate > 100 {
		rate = 100
	}
	return sanitize(subtotal) * rate / 100
}

// GrandTotal is subtotal - discount + tax.
func GrandTotal(subtotal, taxAmount, discountAmount float64) float64 {
	return sanitize(subtotal) - sanitize(discountAmount) + sanitize(taxAmount)
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
