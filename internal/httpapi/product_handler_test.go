package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amritgyawali/lenskart/internal/domain"
)

func setupProductRouter(t *testing.T) *chi.Mux {
	t.Helper()

	cat := catalogMock{products: map[domain.ProductID]domain.Product{
		"1": {ID: "1", Name: "frames", Brand: "Vincent Chase", Price: 1200, InStock: true, StockQuantity: 25},
	}}
	handler := NewProductHandler(cat, 5*time.Second, testLogger())

	r := chi.NewRouter()
	r.Get("/products", handler.List)
	r.Get("/products/{product_id}", handler.Get)
	return r
}

func TestListProducts(t *testing.T) {
	router := setupProductRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProductsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "frames", resp.Products[0].Name)
	assert.Equal(t, int64(1200), resp.Products[0].Price)
}

func TestGetProduct(t *testing.T) {
	router := setupProductRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/products/1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProductResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "1", resp.ID)
	assert.Equal(t, "Vincent Chase", resp.Brand)
	assert.True(t, resp.InStock)
}

func TestGetProduct_NotFound(t *testing.T) {
	router := setupProductRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/products/999", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
