package cart

import (
	"time"

	"github.com/amritgyawali/lenskart/internal/domain"
	"github.com/amritgyawali/lenskart/internal/pricing"
)

// Apply maps (state, action) to the next state. It is pure: the input
// state is never mutated, the whole next state is computed before it is
// returned, and a rejected action returns the input items untouched.
//
// now stamps UpdatedAt on transitions that change the persisted cart;
// transitions that only touch transient fields leave UpdatedAt alone, so
// callers can use it to detect whether a persistence write is due.
func Apply(state domain.CartState, action Action, policy pricing.Policy, now time.Time) domain.CartState {
	switch a := action.(type) {
	case SetLoading:
		next := state
		next.IsLoading = a.IsLoading
		return next

	case SetError:
		next := state
		next.Err = a.Err
		next.IsLoading = false
		return next

	case Load:
		next := state
		next.Cart = a.Cart
		if next.Items == nil {
			next.Items = []domain.CartItem{}
		}
		next.Err = nil
		return next

	case Add:
		if !a.Product.InStock || a.Product.StockQuantity < a.Quantity {
			next := state
			next.Err = domain.ErrOutOfStock
			return next
		}

		if i := state.ItemIndex(a.Product.ID); i >= 0 {
			newQuantity := state.Items[i].Quantity + a.Quantity
			if newQuantity > a.Product.StockQuantity {
				next := state
				next.Err = domain.ErrOutOfStock
				return next
			}
			items := cloneItems(state.Items)
			items[i].Quantity = newQuantity
			return settle(state, items, policy, now)
		}

		items := cloneItems(state.Items)
		items = append(items, domain.CartItem{
			Product:     a.Product,
			Quantity:    a.Quantity,
			AddedAt:     now,
			MaxQuantity: a.Product.StockQuantity,
		})
		return settle(state, items, policy, now)

	case Remove:
		return removeLine(state, a.ProductID, policy, now)

	case UpdateQuantity:
		if a.Quantity <= 0 {
			return removeLine(state, a.ProductID, policy, now)
		}
		i := state.ItemIndex(a.ProductID)
		if i >= 0 && a.Quantity > state.Items[i].Product.StockQuantity {
			next := state
			next.Err = domain.ErrOutOfStock
			return next
		}
		items := cloneItems(state.Items)
		if i >= 0 {
			items[i].Quantity = a.Quantity
		}
		return settle(state, items, policy, now)

	case Clear:
		next := state
		next.Cart = domain.Cart{Items: []domain.CartItem{}, UpdatedAt: now}
		next.Err = nil
		return next

	case Revalidate:
		valid := make([]domain.CartItem, 0, len(state.Items))
		for _, item := range state.Items {
			if item.Product.InStock && item.Quantity <= item.Product.StockQuantity {
				valid = append(valid, item)
			}
		}
		if len(valid) == len(state.Items) {
			// Nothing dropped: the state is returned as-is so no
			// spurious persistence write happens.
			return state
		}
		next := settle(state, valid, policy, now)
		next.Err = domain.ErrSomeItemsUnavailable
		return next

	default:
		return state
	}
}

// settle recomputes totals over items and produces the next state with
// the advisory error cleared and UpdatedAt bumped.
func settle(state domain.CartState, items []domain.CartItem, policy pricing.Policy, now time.Time) domain.CartState {
	t := pricing.Compute(items, policy)
	next := state
	next.Cart = domain.Cart{
		Items:     items,
		Subtotal:  t.Subtotal,
		Tax:       t.Tax,
		Shipping:  t.Shipping,
		Discount:  t.Discount,
		Total:     t.Total,
		ItemCount: t.ItemCount,
		UpdatedAt: now,
	}
	next.Err = nil
	return next
}

func removeLine(state domain.CartState, productID domain.ProductID, policy pricing.Policy, now time.Time) domain.CartState {
	items := make([]domain.CartItem, 0, len(state.Items))
	for _, item := range state.Items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	return settle(state, items, policy, now)
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
