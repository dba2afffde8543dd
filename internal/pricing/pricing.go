// Package pricing derives cart totals from line items. Everything here is
// pure integer arithmetic on currency minor units.
package pricing

import "github.com/amritgyawali/lenskart/internal/domain"

// Policy holds the pricing constants applied to a cart.
type Policy struct {
	// TaxRateBP is the tax rate in basis points (1800 = 18%).
	TaxRateBP int64
	// FreeShippingThreshold is the subtotal at which shipping is waived.
	FreeShippingThreshold int64
	// FlatShippingFee is charged below the threshold.
	FlatShippingFee int64
}

// DefaultPolicy returns the storefront defaults: 18% GST, free shipping
// at a subtotal of 1000, flat fee of 100 below that.
func DefaultPolicy() Policy {
	return Policy{
		TaxRateBP:             1800,
		FreeShippingThreshold: 1000,
		FlatShippingFee:       100,
	}
}

// Totals is the derived monetary summary of a cart.
type Totals struct {
	Subtotal  int64
	Tax       int64
	Shipping  int64
	Discount  int64
	Total     int64
	ItemCount int
}

// Compute derives totals for the given line items. It is deterministic
// and side-effect free: same items and policy, same totals.
//
// Tax is rounded half away from zero on minor units. The subtotal is
// never negative, so this reduces to adding half the divisor before the
// integer division.
func Compute(items []domain.CartItem, p Policy) Totals {
	var subtotal int64
	var count int
	for _, item := range items {
		subtotal += item.Product.Price * int64(item.Quantity)
		count += item.Quantity
	}

	tax := (subtotal*p.TaxRateBP + 5000) / 10000

	var shipping int64
	if subtotal < p.FreeShippingThreshold {
		shipping = p.FlatShippingFee
	}

	// Coupon logic is an extension point; the core applies no discount.
	var discount int64

	total := subtotal + tax + shipping - discount
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  shipping,
		Discount:  discount,
		Total:     total,
		ItemCount: count,
	}
}
