package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amritgyawali/lenskart/internal/cart"
	"github.com/amritgyawali/lenskart/internal/domain"
	"github.com/amritgyawali/lenskart/internal/pricing"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type catalogMock struct {
	products map[domain.ProductID]domain.Product
}

func (c catalogMock) GetProductByID(_ context.Context, id domain.ProductID) (*domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (c catalogMock) CheckAvailability(ctx context.Context, id domain.ProductID, quantity int) (bool, error) {
	p, err := c.GetProductByID(ctx, id)
	if err != nil {
		return false, nil
	}
	return p.InStock && p.StockQuantity >= quantity, nil
}

func (c catalogMock) ListProducts(context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(c.products))
	for id := range c.products {
		p := c.products[id]
		out = append(out, &p)
	}
	return out, nil
}

func (c catalogMock) Close() error { return nil }

func setupCartRouter(t *testing.T) (*chi.Mux, *cart.Manager) {
	t.Helper()

	manager := cart.NewManager(nil, pricing.DefaultPolicy(), testLogger())
	manager.Start(context.Background())

	cat := catalogMock{products: map[domain.ProductID]domain.Product{
		"1": {ID: "1", Name: "frames", Price: 1200, InStock: true, StockQuantity: 25},
		"2": {ID: "2", Name: "shades", Price: 1800, InStock: true, StockQuantity: 2},
	}}

	handler := NewCartHandler(manager, cat, 5*time.Second, testLogger())

	r := chi.NewRouter()
	r.Get("/cart", handler.GetCart)
	r.Delete("/cart", handler.ClearCart)
	r.Post("/cart/items", handler.AddItem)
	r.Patch("/cart/items/{product_id}", handler.UpdateQuantity)
	r.Delete("/cart/items/{product_id}", handler.RemoveItem)
	r.Post("/cart/validate", handler.ValidateCart)
	return r, manager
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var resp CartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAddItem_Success(t *testing.T) {
	router, _ := setupCartRouter(t)

	body := bytes.NewBufferString(`{"product_id":"1","quantity":2}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/cart/items", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeCart(t, rec)
	assert.Equal(t, 2, resp.Cart.ItemCount)
	assert.Equal(t, int64(2400), resp.Cart.Subtotal)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	router, _ := setupCartRouter(t)

	body := bytes.NewBufferString(`{"product_id":"999","quantity":1}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/cart/items", body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	router, manager := setupCartRouter(t)

	body := bytes.NewBufferString(`{"product_id":"1","quantity":0}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/cart/items", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, manager.GetTotalItems())
}

func TestAddItem_OutOfStock(t *testing.T) {
	router, manager := setupCartRouter(t)

	body := bytes.NewBufferString(`{"product_id":"2","quantity":3}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/cart/items", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, manager.IsInCart("2"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "out_of_stock", resp.Code)
}

func TestAddItem_MalformedBody(t *testing.T) {
	router, _ := setupCartRouter(t)

	body := bytes.NewBufferString(`{"product_id":`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/cart/items", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuantity_Success(t *testing.T) {
	router, manager := setupCartRouter(t)
	require.NoError(t, manager.AddToCart(domain.Product{ID: "1", Price: 1200, InStock: true, StockQuantity: 25}, 1))

	body := bytes.NewBufferString(`{"quantity":4}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/cart/items/1", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, manager.GetCartItemQuantity("1"))
}

func TestUpdateQuantity_BeyondStock(t *testing.T) {
	router, manager := setupCartRouter(t)
	require.NoError(t, manager.AddToCart(domain.Product{ID: "2", Price: 1800, InStock: true, StockQuantity: 2}, 2))

	body := bytes.NewBufferString(`{"quantity":5}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/cart/items/2", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 2, manager.GetCartItemQuantity("2"))
}

func TestRemoveItem(t *testing.T) {
	router, manager := setupCartRouter(t)
	require.NoError(t, manager.AddToCart(domain.Product{ID: "1", Price: 1200, InStock: true, StockQuantity: 25}, 1))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/cart/items/1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, manager.IsInCart("1"))
}

func TestClearCart(t *testing.T) {
	router, manager := setupCartRouter(t)
	require.NoError(t, manager.AddToCart(domain.Product{ID: "1", Price: 1200, InStock: true, StockQuantity: 25}, 2))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	assert.Empty(t, resp.Cart.Items)
	assert.Equal(t, int64(0), resp.Cart.Total)
}

func TestGetCart(t *testing.T) {
	router, manager := setupCartRouter(t)
	require.NoError(t, manager.AddToCart(domain.Product{ID: "1", Price: 1200, InStock: true, StockQuantity: 25}, 1))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	require.Len(t, resp.Cart.Items, 1)
	assert.Equal(t, int64(1200), resp.Cart.Subtotal)
}

func TestGetCart_EmptyCartKeepsItemsArray(t *testing.T) {
	router, _ := setupCartRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestClearCart_KeepsItemsArray(t *testing.T) {
	router, manager := setupCartRouter(t)
	require.NoError(t, manager.AddToCart(domain.Product{ID: "1", Price: 1200, InStock: true, StockQuantity: 25}, 2))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestValidateCart_Clean(t *testing.T) {
	router, manager := setupCartRouter(t)
	require.NoError(t, manager.AddToCart(domain.Product{ID: "1", Price: 1200, InStock: true, StockQuantity: 25}, 1))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/cart/validate", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	require.NotNil(t, resp.Valid)
	assert.True(t, *resp.Valid)
}

func TestValidateCart_DropsStaleLine(t *testing.T) {
	router, manager := setupCartRouter(t)
	require.NoError(t, manager.AddToCart(domain.Product{ID: "9", Price: 900, InStock: true, StockQuantity: 1}, 1))

	// The snapshot goes stale after the add.
	cartSnapshot := manager.Cart()
	cartSnapshot.Items[0].Product.InStock = false

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/cart/validate", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	require.NotNil(t, resp.Valid)
	assert.False(t, *resp.Valid)
	assert.Empty(t, resp.Cart.Items)
}
