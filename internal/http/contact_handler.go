package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/contact"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/slerbakk/storefront/pkg/logger"
)

type ContactSubmitter interface {
	Submit(ctx context.Context, f contact.Form) (*domain.ContactMessage, error)
}

type ContactHandler struct {
	contact ContactSubmitter
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewContactHandler(c ContactSubmitter, timeout time.Duration, log logrus.FieldLogger) *ContactHandler {
	return &ContactHandler{
		contact: c,
		timeout: timeout,
		log:     log,
	}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	toasts, ok := queueFromRequest(w, r)
	if !ok {
		return
	}

	var form contact.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	_, err := h.contact.Submit(ctx, form)
	var verr *contact.ValidationError
	switch {
	case errors.As(err, &verr):
		toasts.AddError("Please fix the errors below and try again")
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "invalid contact form",
			Code:   "validation_failed",
			Fields: verr.Fields,
		})
	case err != nil:
		logger.WithContext(ctx, h.log).WithError(err).Error("contact submit failed")
		toasts.AddError("Failed to send message. Please try again later.")
		respondError(w, http.StatusBadGateway, "delivery_failed", "failed to send message")
	default:
		toasts.AddSuccess("Thank you for your message! We'll get back to you soon.")
		w.WriteHeader(http.StatusAccepted)
	}
}
