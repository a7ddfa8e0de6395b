package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/catalog"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/slerbakk/storefront/pkg/logger"
)

// Catalog is what the product endpoints need from catalog.Service.
type Catalog interface {
	Browse(ctx context.Context, term string, opt catalog.SortOption) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, term string, limit int) ([]domain.Product, error)
	Refresh(ctx context.Context) error
}

type ProductHandler struct {
	catalog Catalog
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewProductHandler(c Catalog, timeout time.Duration, log logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{
		catalog: c,
		timeout: timeout,
		log:     log,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	opt, err := catalog.ParseSortOption(r.URL.Query().Get("sort"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_sort", err.Error())
		return
	}

	products, err := h.catalog.Browse(ctx, r.URL.Query().Get("q"), opt)
	if err != nil {
		h.handleCatalogError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductsResponse(products))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.catalog.Product(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleCatalogError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductDTO(*product))
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	limit := catalog.DropdownLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	products, err := h.catalog.Search(ctx, r.URL.Query().Get("q"), limit)
	if err != nil {
		h.handleCatalogError(ctx, w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductsResponse(products))
}

// Refresh drops cached catalog data so the next read goes upstream.
func (h *ProductHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.Refresh(ctx); err != nil {
		logger.WithContext(ctx, h.log).WithError(err).Error("catalog refresh failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to refresh catalog")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) handleCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	handleCatalogError(ctx, h.log, w, err)
}

func handleCatalogError(ctx context.Context, log logrus.FieldLogger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, catalog.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "product catalog is unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "product catalog timed out")
	default:
		logger.WithContext(ctx, log).WithError(err).Error("catalog request failed")
		respondError(w, http.StatusBadGateway, "upstream_error", "failed to load products")
	}
}
