package cart

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/slerbakk/storefront/internal/domain"
)

// Store owns the line items of a single cart. All mutations go through
// Dispatch, so readers always observe the result of a whole action.
type Store struct {
	mu    sync.RWMutex
	items []domain.LineItem
}

func NewStore() *Store {
	return &Store{items: []domain.LineItem{}}
}

// Dispatch applies a to the cart.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = Reduce(s.items, a)
}

// AddItem adds p with quantity 1, or increments the quantity of the line
// item that already carries p.ID.
func (s *Store) AddItem(p domain.Product) {
	s.Dispatch(AddItem{Product: p})
}

// RemoveItem deletes the line item for productID and returns it. The
// boolean is false when there was nothing to remove.
func (s *Store) RemoveItem(productID string) (domain.LineItem, bool) {
	return s.dispatchOn(productID, RemoveItem{ProductID: productID})
}

// SetQuantity updates the line item for productID and returns it as it was
// before the change. The boolean is false when the product is not in the cart.
func (s *Store) SetQuantity(productID string, quantity int) (domain.LineItem, bool) {
	return s.dispatchOn(productID, SetQuantity{ProductID: productID, Quantity: quantity})
}

func (s *Store) Clear() {
	s.Dispatch(Clear{})
}

// RemoveOrdered subtracts an order's line items from the cart.
func (s *Store) RemoveOrdered(items []domain.LineItem) {
	s.Dispatch(RemoveOrdered{Items: items})
}

// dispatchOn applies a and reports the line item for productID as it was
// before, under the same lock.
func (s *Store) dispatchOn(productID string, a Action) (domain.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, productID)
	if i < 0 {
		return domain.LineItem{}, false
	}
	prev := s.items[i]
	s.items = Reduce(s.items, a)
	return prev, true
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Store) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalItemCount(s.items)
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalPrice(s.items)
}

// Snapshot returns the items and both totals under a single read lock.
func (s *Store) Snapshot() ([]domain.LineItem, int, decimal.Decimal) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items), TotalItemCount(s.items), TotalPrice(s.items)
}

func TotalItemCount(items []domain.LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums the subtotal of every line item, using the discounted
// unit price wherever it is lower than the list price.
func TotalPrice(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
