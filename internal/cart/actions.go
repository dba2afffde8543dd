package cart

import "github.com/amritgyawali/lenskart/internal/domain"

// Action is the closed set of cart transitions. Every mutation of
// CartState goes through Apply with exactly one of these.
type Action interface {
	isAction()
}

// Load replaces the cart wholesale with a previously persisted snapshot.
// Dispatched once at startup after the synchronizer resolves.
type Load struct {
	Cart domain.Cart
}

// Add puts Quantity units of the given product snapshot into the cart,
// merging into an existing line when one is present.
type Add struct {
	Product  domain.Product
	Quantity int
}

// Remove drops the line for ProductID. Absent line is a no-op, not an
// error.
type Remove struct {
	ProductID domain.ProductID
}

// UpdateQuantity replaces a line's quantity. A quantity <= 0 is defined
// to behave exactly like Remove.
type UpdateQuantity struct {
	ProductID domain.ProductID
	Quantity  int
}

// Clear empties the cart and zeroes all totals.
type Clear struct{}

// Revalidate drops every line whose embedded snapshot is no longer
// satisfiable. When nothing is invalid it is a true no-op.
type Revalidate struct{}

// SetLoading toggles the transient loading flag.
type SetLoading struct {
	IsLoading bool
}

// SetError sets the transient advisory error without touching items.
type SetError struct {
	Err error
}

func (Load) isAction()           {}
func (Add) isAction()            {}
func (Remove) isAction()         {}
func (UpdateQuantity) isAction() {}
func (Clear) isAction()          {}
func (Revalidate) isAction()     {}
func (SetLoading) isAction()     {}
func (SetError) isAction()       {}
