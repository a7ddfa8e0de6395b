package toast

import (
	"context"
	"errors"
)

// ErrNoQueue is returned when a toast queue is requested from a context
// that was never given one.
var ErrNoQueue = errors.New("toast queue used outside of a session: no queue in context")

type ctxKey struct{}

func NewContext(ctx context.Context, q *Queue) context.Context {
	return context.WithValue(ctx, ctxKey{}, q)
}

func FromContext(ctx context.Context) (*Queue, error) {
	q, ok := ctx.Value(ctxKey{}).(*Queue)
	if !ok || q == nil {
		return nil, ErrNoQueue
	}
	return q, nil
}
