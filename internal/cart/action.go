package cart

import (
	"slices"

	"github.com/slerbakk/storefront/internal/domain"
)

// Action is a cart mutation. The set is closed: AddItem, RemoveItem,
// SetQuantity, Clear and RemoveOrdered.
type Action interface {
	isAction()
}

type AddItem struct {
	Product domain.Product
}

type RemoveItem struct {
	ProductID string
}

// SetQuantity replaces the quantity of an existing line item. A quantity
// of zero or less removes the item.
type SetQuantity struct {
	ProductID string
	Quantity  int
}

type Clear struct{}

// RemoveOrdered takes the ordered quantities out of the cart. Lines that
// drop to zero are removed; anything added after the order was taken stays.
type RemoveOrdered struct {
	Items []domain.LineItem
}

func (AddItem) isAction()       {}
func (RemoveItem) isAction()    {}
func (SetQuantity) isAction()   {}
func (Clear) isAction()         {}
func (RemoveOrdered) isAction() {}

// Reduce applies a to items and returns the resulting line items. The input
// slice and its elements are never modified.
func Reduce(items []domain.LineItem, a Action) []domain.LineItem {
	switch a := a.(type) {
	case AddItem:
		return addItem(items, a.Product)
	case RemoveItem:
		return removeItem(items, a.ProductID)
	case SetQuantity:
		if a.Quantity <= 0 {
			return removeItem(items, a.ProductID)
		}
		return setQuantity(items, a.ProductID, a.Quantity)
	case Clear:
		return []domain.LineItem{}
	case RemoveOrdered:
		return removeOrdered(items, a.Items)
	default:
		return items
	}
}

func addItem(items []domain.LineItem, p domain.Product) []domain.LineItem {
	i := indexOf(items, p.ID)
	if i < 0 {
		next := make([]domain.LineItem, len(items), len(items)+1)
		copy(next, items)
		return append(next, domain.NewLineItem(p))
	}

	next := slices.Clone(items)
	next[i].Quantity++
	return next
}

func removeItem(items []domain.LineItem, productID string) []domain.LineItem {
	if indexOf(items, productID) < 0 {
		return items
	}
	next := make([]domain.LineItem, 0, len(items)-1)
	for _, item := range items {
		if item.ID != productID {
			next = append(next, item)
		}
	}
	return next
}

func setQuantity(items []domain.LineItem, productID string, quantity int) []domain.LineItem {
	i := indexOf(items, productID)
	if i < 0 {
		return items
	}
	next := slices.Clone(items)
	next[i].Quantity = quantity
	return next
}

func removeOrdered(items, ordered []domain.LineItem) []domain.LineItem {
	next := slices.Clone(items)
	for _, o := range ordered {
		i := indexOf(next, o.ID)
		if i < 0 {
			continue
		}
		if next[i].Quantity <= o.Quantity {
			next = removeItem(next, o.ID)
			continue
		}
		next[i].Quantity -= o.Quantity
	}
	return next
}

func indexOf(items []domain.LineItem, productID string) int {
	return slices.IndexFunc(items, func(item domain.LineItem) bool {
		return item.ID == productID
	})
}
