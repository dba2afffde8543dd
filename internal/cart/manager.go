package cart

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amritgyawali/lenskart/internal/domain"
	"github.com/amritgyawali/lenskart/internal/persist"
	"github.com/amritgyawali/lenskart/internal/pricing"
)

// Manager is the public face of the cart: it owns the canonical CartState
// and funnels every mutation through the reducer under one mutex, so the
// whole read-compute-publish sequence is a single critical section.
// Mutations settle in memory synchronously; persistence happens after the
// fact, best-effort.
type Manager struct {
	mu    sync.Mutex
	state domain.CartState

	syncer *persist.Synchronizer
	policy pricing.Policy
	now    func() time.Time
	log    logrus.FieldLogger
}

// NewManager builds a manager around the given synchronizer. A nil
// synchronizer disables persistence, which is handy in tests.
func NewManager(syncer *persist.Synchronizer, policy pricing.Policy, log logrus.FieldLogger) *Manager {
	return &Manager{
		state:  domain.CartState{Cart: domain.Cart{Items: []domain.CartItem{}}},
		syncer: syncer,
		policy: policy,
		now:    time.Now,
		log:    log,
	}
}

// Start loads the persisted cart, if any, into memory. Call once before
// serving operations.
func (m *Manager) Start(ctx context.Context) {
	m.dispatch(SetLoading{IsLoading: true})
	if m.syncer != nil {
		saved := m.syncer.Load(ctx)
		m.dispatch(Load{Cart: saved})
		m.log.WithField("items", len(saved.Items)).Info("cart loaded")
	}
	m.dispatch(SetLoading{IsLoading: false})
}

// AddToCart puts quantity units of product into the cart. The quantity
// guard lives here: a non-positive quantity never reaches the reducer.
func (m *Manager) AddToCart(product domain.Product, quantity int) error {
	if quantity < 1 {
		m.dispatch(SetError{Err: domain.ErrInvalidQuantity})
		return domain.ErrInvalidQuantity
	}
	next := m.dispatch(Add{Product: product, Quantity: quantity})
	return next.Err
}

func (m *Manager) RemoveFromCart(productID domain.ProductID) {
	m.dispatch(Remove{ProductID: productID})
}

// UpdateQuantity replaces a line's quantity; a quantity <= 0 removes the
// line, exactly like RemoveFromCart.
func (m *Manager) UpdateQuantity(productID domain.ProductID, quantity int) error {
	next := m.dispatch(UpdateQuantity{ProductID: productID, Quantity: quantity})
	return next.Err
}

func (m *Manager) ClearCart() {
	m.dispatch(Clear{})
}

// ValidateCart drops any line whose stock snapshot has gone invalid and
// reports whether the resulting state is error-free. The revalidation
// scheduler calls this on its cadence.
func (m *Manager) ValidateCart() bool {
	next := m.dispatch(Revalidate{})
	return next.Err == nil
}

func (m *Manager) IsInCart(productID domain.ProductID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.ItemIndex(productID) >= 0
}

func (m *Manager) GetCartItemQuantity(productID domain.ProductID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.state.ItemIndex(productID); i >= 0 {
		return m.state.Items[i].Quantity
	}
	return 0
}

func (m *Manager) GetTotalItems() int { return m.snapshot().ItemCount }
func (m *Manager) GetSubtotal() int64 { return m.snapshot().Subtotal }
func (m *Manager) GetTax() int64      { return m.snapshot().Tax }
func (m *Manager) GetShipping() int64 { return m.snapshot().Shipping }
func (m *Manager) GetDiscount() int64 { return m.snapshot().Discount }
func (m *Manager) GetTotal() int64    { return m.snapshot().Total }

// Cart returns the current persisted-shape snapshot. The items slice is
// safe to share: the reducer never mutates a published slice in place.
func (m *Manager) Cart() domain.Cart {
	return m.snapshot()
}

// State returns the full process-local state including transient fields.
func (m *Manager) State() domain.CartState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) snapshot() domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Cart
}

// dispatch applies one action and, when the settled cart changed outside
// the load phase, hands the new snapshot to the synchronizer. UpdatedAt
// only moves on persisted-data transitions, so comparing it filters out
// error-only updates and no-op revalidations.
func (m *Manager) dispatch(action Action) domain.CartState {
	m.mu.Lock()
	prev := m.state
	next := Apply(prev, action, m.policy, m.now())
	m.state = next
	m.mu.Unlock()

	if m.syncer != nil && !next.IsLoading && !next.UpdatedAt.Equal(prev.UpdatedAt) {
		m.syncer.SaveAsync(next.Cart)
	}
	return next
}
