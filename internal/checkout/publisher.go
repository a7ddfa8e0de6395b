package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/slerbakk/storefront/internal/domain"
)

// OrderPlacedTopic carries one event per confirmed checkout.
const OrderPlacedTopic = "checkout-outbox"

type OrderPlacedItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderPlacedEvent struct {
	OrderID     string            `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	SessionID   string            `json:"session_id"`
	Items       []OrderPlacedItem `json:"items"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	PlacedAt    string            `json:"placed_at"`
}

func newOrderPlacedEvent(o *domain.Order) OrderPlacedEvent {
	items := make([]OrderPlacedItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderPlacedItem{
			ProductID:   item.ID,
			ProductName: item.Title,
			Quantity:    item.Quantity,
			UnitPrice:   item.EffectivePrice(),
			Subtotal:    item.Subtotal(),
		}
	}
	return OrderPlacedEvent{
		OrderID:     o.ID,
		OrderNumber: o.Number,
		SessionID:   o.SessionID,
		Items:       items,
		TotalAmount: o.Total,
		PlacedAt:    o.PlacedAt.Format(timeFormat),
	}
}

// Publisher announces placed orders to the rest of the system.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  OrderPlacedTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("write order placed event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlacedEvent) error { return nil }
func (NopPublisher) Close() error                                               { return nil }
