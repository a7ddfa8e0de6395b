package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/cart"
	"github.com/slerbakk/storefront/internal/domain"
)

// ProductLookup loads the product being added to a cart.
type ProductLookup interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
}

type CartHandler struct {
	products ProductLookup
	timeout  time.Duration
	log      logrus.FieldLogger
}

func NewCartHandler(products ProductLookup, timeout time.Duration, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		products: products,
		timeout:  timeout,
		log:      log,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := cartFromRequest(w, r)
	if !ok {
		return
	}
	respondCart(w, http.StatusOK, store)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	store, ok := cartFromRequest(w, r)
	if !ok {
		return
	}
	toasts, ok := queueFromRequest(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.products.Product(ctx, req.ProductID)
	if err != nil {
		handleCatalogError(ctx, h.log, w, err)
		return
	}

	store.AddItem(*product)
	toasts.AddSuccess(product.Title + " added to cart!")

	respondCart(w, http.StatusCreated, store)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	store, ok := cartFromRequest(w, r)
	if !ok {
		return
	}
	toasts, ok := queueFromRequest(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}

	item, found := store.SetQuantity(productID, *req.Quantity)
	if found && *req.Quantity <= 0 {
		toasts.AddInfo(item.Title + " removed from cart")
	}

	respondCart(w, http.StatusOK, store)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := cartFromRequest(w, r)
	if !ok {
		return
	}
	toasts, ok := queueFromRequest(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "product_id")
	if item, removed := store.RemoveItem(productID); removed {
		toasts.AddInfo(item.Title + " removed from cart")
	}

	respondCart(w, http.StatusOK, store)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := cartFromRequest(w, r)
	if !ok {
		return
	}
	toasts, ok := queueFromRequest(w, r)
	if !ok {
		return
	}

	store.Clear()
	toasts.AddSuccess("Cart cleared successfully!")

	respondCart(w, http.StatusOK, store)
}

func respondCart(w http.ResponseWriter, status int, store *cart.Store) {
	items, count, total := store.Snapshot()
	respondJSON(w, status, toCartResponse(items, count, total))
}
