package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/slerbakk/storefront/internal/session"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterConfig struct {
	Sessions       *session.Registry
	SessionTTL     time.Duration
	RequestTimeout time.Duration

	Products *ProductHandler
	Cart     *CartHandler
	Toasts   *ToastHandler
	Checkout *CheckoutHandler
	Contact  *ContactHandler
}

// NewRouter builds the storefront API. Everything under /api/v1 except the
// catalog itself runs inside a visitor session.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", cfg.Products.List)
		r.Get("/products/{id}", cfg.Products.Get)
		r.Get("/search", cfg.Products.Search)
		r.Post("/catalog/refresh", cfg.Products.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.Sessions, cfg.SessionTTL))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cfg.Cart.GetCart)
				r.Delete("/", cfg.Cart.ClearCart)
				r.Post("/items", cfg.Cart.AddItem)
				r.Put("/items/{product_id}", cfg.Cart.UpdateQuantity)
				r.Delete("/items/{product_id}", cfg.Cart.RemoveItem)
			})

			r.Route("/toasts", func(r chi.Router) {
				r.Get("/", cfg.Toasts.List)
				r.Post("/", cfg.Toasts.Add)
				r.Delete("/", cfg.Toasts.Clear)
				r.Delete("/{id}", cfg.Toasts.Dismiss)
			})

			r.Post("/checkout", cfg.Checkout.Checkout)
			r.Post("/contact", cfg.Contact.Submit)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
