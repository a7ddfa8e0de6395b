package http

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/cart"
	"github.com/slerbakk/storefront/internal/toast"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// cartFromRequest resolves the session cart, answering 500 when the router
// was wired without the session middleware.
func cartFromRequest(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	store, err := cart.FromContext(r.Context())
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "cart is not available",
			Code:    "configuration_error",
			Details: err.Error(),
		})
		return nil, false
	}
	return store, true
}

func queueFromRequest(w http.ResponseWriter, r *http.Request) (*toast.Queue, bool) {
	q, err := toast.FromContext(r.Context())
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "notifications are not available",
			Code:    "configuration_error",
			Details: err.Error(),
		})
		return nil, false
	}
	return q, true
}
