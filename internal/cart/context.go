package cart

import (
	"context"
	"errors"
)

// ErrNoStore is returned when a cart is requested from a context that was
// never given one. It signals a wiring mistake, not a user error.
var ErrNoStore = errors.New("cart store used outside of a session: no store in context")

type ctxKey struct{}

func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Store, error) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	if !ok || s == nil {
		return nil, ErrNoStore
	}
	return s, nil
}
