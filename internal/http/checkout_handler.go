package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/cart"
	"github.com/slerbakk/storefront/internal/checkout"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/slerbakk/storefront/pkg/logger"
)

type Checkouter interface {
	Checkout(ctx context.Context, sessionID string, store *cart.Store) (*domain.Order, error)
}

type CheckoutHandler struct {
	checkout Checkouter
	timeout  time.Duration
	log      logrus.FieldLogger
}

func NewCheckoutHandler(c Checkouter, timeout time.Duration, log logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: c,
		timeout:  timeout,
		log:      log,
	}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
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

	order, err := h.checkout.Checkout(ctx, getSessionID(r.Context()), store)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
			return
		}
		logger.WithContext(ctx, h.log).WithError(err).Error("checkout failed")
		respondError(w, http.StatusInternalServerError, "checkout_failed", "failed to place order")
		return
	}

	toasts.AddSuccess("Order placed successfully!")
	respondJSON(w, http.StatusCreated, OrderResponse{
		Order:  order,
		Toasts: toToastDTOs(toasts.Toasts()),
	})
}
