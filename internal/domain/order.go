package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the confirmation produced at checkout: the cart as it was
// immediately before it was cleared.
type Order struct {
	ID        string          `json:"id"`
	Number    string          `json:"order_number"`
	SessionID string          `json:"session_id"`
	Items     []LineItem      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	PlacedAt  time.Time       `json:"placed_at"`
}
