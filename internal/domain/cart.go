package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart. The embedded Product is a snapshot
// taken when the item was first added and is never re-synced.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// NewLineItem snapshots p with a quantity of 1.
func NewLineItem(p Product) LineItem {
	snapshot := p
	snapshot.Tags = slices.Clone(p.Tags)
	snapshot.Reviews = slices.Clone(p.Reviews)
	return LineItem{Product: snapshot, Quantity: 1}
}

// Subtotal returns the effective unit price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.EffectivePrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}
