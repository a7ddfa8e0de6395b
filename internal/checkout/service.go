package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/slerbakk/storefront/internal/cart"
	"github.com/slerbakk/storefront/internal/domain"
	"github.com/slerbakk/storefront/pkg/logger"
)

const timeFormat string = "2006-01-02T15:04:05Z07:00"

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

type Service struct {
	publisher Publisher
	clock     clockwork.Clock
	log       logrus.FieldLogger
}

func NewService(publisher Publisher, clock clockwork.Clock, log logrus.FieldLogger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{publisher: publisher, clock: clock, log: log}
}

// Checkout confirms the contents of store as an order and takes the ordered
// items out of the cart. If the order cannot be published the cart is left
// untouched.
func (s *Service) Checkout(ctx context.Context, sessionID string, store *cart.Store) (*domain.Order, error) {
	items, count, total := store.Snapshot()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	now := s.clock.Now()
	order := &domain.Order{
		ID:        uuid.NewString(),
		Number:    orderNumber(now.UnixMilli()),
		SessionID: sessionID,
		Items:     items,
		ItemCount: count,
		Total:     total,
		PlacedAt:  now,
	}

	if err := s.publisher.PublishOrderPlaced(ctx, newOrderPlacedEvent(order)); err != nil {
		return nil, fmt.Errorf("publish order %s: %w", order.Number, err)
	}

	// only what was ordered; items added while publishing stay in the cart
	store.RemoveOrdered(items)

	logger.WithContext(ctx, s.log).WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.Number,
		"items":        order.ItemCount,
		"total":        order.Total.StringFixed(2),
	}).Info("order placed")
	return order, nil
}

// orderNumber is "ORD-" followed by the last six digits of the clock.
func orderNumber(unixMilli int64) string {
	digits := strconv.FormatInt(unixMilli, 10)
	if len(digits) > 6 {
		digits = digits[len(digits)-6:]
	}
	return "ORD-" + digits
}
