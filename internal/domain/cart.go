package domain

import "time"

// ProductID is an opaque catalog identifier.
type ProductID string

// Product is a point-in-time catalog snapshot. Cart lines embed it by
// value; a stale snapshot is only ever corrected by revalidation.
type Product struct {
	ID            ProductID `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Price         int64     `json:"price"` // currency minor units
	InStock       bool      `json:"inStock"`
	StockQuantity int       `json:"stockQuantity"`
}

type CartItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
	// MaxQuantity is the stock ceiling observed at add time. It is a
	// hint only; the authoritative ceiling is Product.StockQuantity.
	MaxQuantity int `json:"maxQuantity"`
}

// Cart is the persisted shape: line items plus derived totals.
// Invariants after every transition:
//
//	Subtotal  == sum(item.Product.Price * item.Quantity)
//	ItemCount == sum(item.Quantity)
//	Total     == Subtotal + Tax + Shipping - Discount
type Cart struct {
	Items     []CartItem `json:"items"`
	Subtotal  int64      `json:"subtotal"`
	Tax       int64      `json:"tax"`
	Shipping  int64      `json:"shipping"`
	Discount  int64      `json:"discount"`
	Total     int64      `json:"total"`
	ItemCount int        `json:"itemCount"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartState is the process-local superset of Cart. IsLoading and Err are
// transient and never persisted.
type CartState struct {
	Cart
	IsLoading bool
	Err       error
}

// ItemIndex returns the position of the line holding productID, or -1.
func (c Cart) ItemIndex(productID ProductID) int {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
