package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/amritgyawali/lenskart/internal/catalog"
	"github.com/amritgyawali/lenskart/internal/domain"
)

type ProductHandler struct {
	catalog catalog.RepoInterface
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewProductHandler(catalog catalog.RepoInterface, timeout time.Duration, log logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
		log:     log,
	}
}

type ProductResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	Price         int64  `json:"price"`
	InStock       bool   `json:"in_stock"`
	StockQuantity int    `json:"stock_quantity"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.catalog.ListProducts(ctx)
	if err != nil {
		h.log.WithError(err).Error("failed to list products")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error", h.log)
		return
	}

	products := make([]ProductResponse, len(res))
	for i, p := range res {
		products[i] = toProductResponse(p)
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products}, h.log)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "product_id")
	p, err := h.catalog.GetProductByID(ctx, domain.ProductID(id))
	if errors.Is(err, domain.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found", h.log)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to get product")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error", h.log)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(p), h.log)
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            string(p.ID),
		Name:          p.Name,
		Brand:         p.Brand,
		Price:         p.Price,
		InStock:       p.InStock,
		StockQuantity: p.StockQuantity,
	}
}
