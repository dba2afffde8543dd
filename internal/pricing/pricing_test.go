package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amritgyawali/lenskart/internal/domain"
)

func item(id string, price int64, qty int) domain.CartItem {
	return domain.CartItem{
		Product: domain.Product{
			ID:            domain.ProductID(id),
			Price:         price,
			InStock:       true,
			StockQuantity: 100,
		},
		Quantity: qty,
	}
}

func TestCompute_EmptyCart(t *testing.T) {
	got := Compute(nil, DefaultPolicy())

	assert.Equal(t, int64(0), got.Subtotal)
	assert.Equal(t, int64(0), got.Tax)
	assert.Equal(t, 0, got.ItemCount)
}

func TestCompute_SingleLineBelowThreshold(t *testing.T) {
	// Free shipping starts at 2000 here, so a 1200 subtotal pays the fee.
	policy := Policy{TaxRateBP: 1800, FreeShippingThreshold: 2000, FlatShippingFee: 100}

	got := Compute([]domain.CartItem{item("a", 1200, 1)}, policy)

	assert.Equal(t, int64(1200), got.Subtotal)
	assert.Equal(t, int64(216), got.Tax)
	assert.Equal(t, int64(100), got.Shipping)
	assert.Equal(t, int64(0), got.Discount)
	assert.Equal(t, int64(1516), got.Total)
	assert.Equal(t, 1, got.ItemCount)
}

func TestCompute_FreeShippingAtThreshold(t *testing.T) {
	got := Compute([]domain.CartItem{item("c", 2000, 1)}, DefaultPolicy())

	assert.Equal(t, int64(2000), got.Subtotal)
	assert.Equal(t, int64(0), got.Shipping)
	assert.Equal(t, int64(2360), got.Total)
}

func TestCompute_TaxRoundsHalfAwayFromZero(t *testing.T) {
	// 25 * 18% = 4.5, which rounds up to 5.
	got := Compute([]domain.CartItem{item("a", 25, 1)}, DefaultPolicy())
	assert.Equal(t, int64(5), got.Tax)

	// 24 * 18% = 4.32, which rounds down to 4.
	got = Compute([]domain.CartItem{item("a", 24, 1)}, DefaultPolicy())
	assert.Equal(t, int64(4), got.Tax)
}

func TestCompute_MultipleLines(t *testing.T) {
	items := []domain.CartItem{
		item("a", 1200, 2),
		item("b", 1800, 1),
		item("c", 699, 3),
	}

	got := Compute(items, DefaultPolicy())

	assert.Equal(t, int64(2*1200+1800+3*699), got.Subtotal)
	assert.Equal(t, 6, got.ItemCount)
	assert.Equal(t, got.Subtotal+got.Tax+got.Shipping-got.Discount, got.Total)
}

func TestCompute_Deterministic(t *testing.T) {
	items := []domain.CartItem{item("a", 1650, 3), item("b", 999, 1)}

	first := Compute(items, DefaultPolicy())
	second := Compute(items, DefaultPolicy())

	assert.Equal(t, first, second)
}
