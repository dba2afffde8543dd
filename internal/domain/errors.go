package domain

import "errors"

// Advisory cart errors. They ride on CartState.Err and are cleared by the
// next successful transition; none of them aborts anything.
var (
	ErrOutOfStock           = errors.New("not enough stock available")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrSomeItemsUnavailable = errors.New("some items in the cart are no longer available")

	// ErrProductNotFound is returned by catalog lookups.
	ErrProductNotFound = errors.New("product not found")
)
