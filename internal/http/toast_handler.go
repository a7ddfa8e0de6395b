package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/slerbakk/storefront/internal/toast"
)

type ToastHandler struct{}

func NewToastHandler() *ToastHandler {
	return &ToastHandler{}
}

func (h *ToastHandler) List(w http.ResponseWriter, r *http.Request) {
	q, ok := queueFromRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ToastsResponse{Toasts: toToastDTOs(q.Toasts())})
}

type AddToastRequestDTO struct {
	Message    string `json:"message"`
	Category   string `json:"category"`
	DurationMS *int64 `json:"duration_ms"`
}

type AddToastResponse struct {
	ID int64 `json:"id"`
}

// Add queues a toast for the session. Category defaults to info and the
// duration to three seconds; a duration of zero or less never expires.
func (h *ToastHandler) Add(w http.ResponseWriter, r *http.Request) {
	q, ok := queueFromRequest(w, r)
	if !ok {
		return
	}

	var req AddToastRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "invalid_message", "message is required")
		return
	}

	opts := []toast.Option{}
	if req.Category != "" {
		category, err := domain.ParseCategory(req.Category)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_category", err.Error())
			return
		}
		opts = append(opts, toast.WithCategory(category))
	}
	if req.DurationMS != nil {
		opts = append(opts, toast.WithDuration(time.Duration(*req.DurationMS)*time.Millisecond))
	}

	id := q.Add(req.Message, opts...)
	respondJSON(w, http.StatusCreated, AddToastResponse{ID: id})
}

// Dismiss removes one toast. Unknown ids succeed as well.
func (h *ToastHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	q, ok := queueFromRequest(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_toast_id", "id must be an integer")
		return
	}

	q.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ToastHandler) Clear(w http.ResponseWriter, r *http.Request) {
	q, ok := queueFromRequest(w, r)
	if !ok {
		return
	}
	q.Clear()
	w.WriteHeader(http.StatusNoContent)
}
