package http

import (
	"context"
	"net/http"
	"time"

	"github.com/slerbakk/storefront/internal/cart"
	"github.com/slerbakk/storefront/internal/session"
	"github.com/slerbakk/storefront/internal/toast"
)

const SessionCookie = "storefront_session"

type sessionIDKey struct{}

// SessionMiddleware resolves the visitor's session from its cookie, starting
// a new one when needed, and puts the session's cart and toast queue into the
// request context.
func SessionMiddleware(registry *session.Registry, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}

			s, created := registry.GetOrCreate(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    s.ID,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionIDKey{}, s.ID)
			ctx = cart.NewContext(ctx, s.Cart)
			ctx = toast.NewContext(ctx, s.Toasts)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}
