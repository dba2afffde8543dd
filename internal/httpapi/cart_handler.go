// Package httpapi is the storefront-facing surface over the cart core.
// It resolves product snapshots from the catalog and hands them to the
// cart manager; it holds no cart logic of its own.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/amritgyawali/lenskart/internal/cart"
	"github.com/amritgyawali/lenskart/internal/catalog"
	"github.com/amritgyawali/lenskart/internal/domain"
)

type CartHandler struct {
	manager *cart.Manager
	catalog catalog.RepoInterface
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewCartHandler(manager *cart.Manager, catalog catalog.RepoInterface, timeout time.Duration, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		manager: manager,
		catalog: catalog,
		timeout: timeout,
		log:     log,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Cart  domain.Cart `json:"cart"`
	Valid *bool       `json:"valid,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CartResponse{Cart: h.manager.Cart()}, h.log)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", h.log)
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required", h.log)
		return
	}

	product, err := h.catalog.GetProductByID(ctx, domain.ProductID(req.ProductID))
	if errors.Is(err, domain.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found", h.log)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("catalog lookup failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error", h.log)
		return
	}

	if err := h.manager.AddToCart(*product, req.Quantity); err != nil {
		handleCartError(w, err, h.log)
		return
	}

	respondJSON(w, http.StatusCreated, CartResponse{Cart: h.manager.Cart()}, h.log)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required", h.log)
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", h.log)
		return
	}

	if err := h.manager.UpdateQuantity(domain.ProductID(productID), req.Quantity); err != nil {
		handleCartError(w, err, h.log)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{Cart: h.manager.Cart()}, h.log)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required", h.log)
		return
	}

	h.manager.RemoveFromCart(domain.ProductID(productID))
	respondJSON(w, http.StatusOK, CartResponse{Cart: h.manager.Cart()}, h.log)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.manager.ClearCart()
	respondJSON(w, http.StatusOK, CartResponse{Cart: h.manager.Cart()}, h.log)
}

func (h *CartHandler) ValidateCart(w http.ResponseWriter, r *http.Request) {
	valid := h.manager.ValidateCart()
	respondJSON(w, http.StatusOK, CartResponse{Cart: h.manager.Cart(), Valid: &valid}, h.log)
}

// handleCartError maps the cart's advisory errors to HTTP statuses. The
// in-memory cart already settled; these are expected rejections.
func handleCartError(w http.ResponseWriter, err error, log logrus.FieldLogger) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error(), log)
	case errors.Is(err, domain.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", err.Error(), log)
	case errors.Is(err, domain.ErrSomeItemsUnavailable):
		respondError(w, http.StatusConflict, "items_unavailable", err.Error(), log)
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error", log)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}, log logrus.FieldLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string, log logrus.FieldLogger) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code}, log)
}
