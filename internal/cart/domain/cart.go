package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem is one product's presence in the cart. While present, Quantity is
// never below MinOrderQty.
type LineItem struct {
	ID          string
	Name        string
	Description string
	Image       string
	Unit        string
	Price       decimal.Decimal
	MRP         decimal.Decimal
	Quantity    int
	MinOrderQty int
	Schemes     []string
}

// Cart holds at most one line per product id, in insertion order. Mutating
// methods leave the receiver untouched and return the next cart.
type Cart struct {
	Items []LineItem
}

func (c Cart) Len() int { return len(c.Items) }

func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]LineItem, len(c.Items))
	for i, it := range c.Items {
		items[i] = it.clone()
	}
	return Cart{Items: items}
}

func (c Cart) Find(id string) (LineItem, bool) {
	if i := c.index(id); i >= 0 {
		return c.Items[i].clone(), true
	}
	return LineItem{}, false
}

// AddOrIncrement increments an existing line by qty or appends item with
// quantity qty. The minimum order floor is not re-checked here.
func (c Cart) AddOrIncrement(item LineItem, qty int) (Cart, error) {
	if qty <= 0 {
		return c, ErrInvalidQuantity
	}

	next := c.Clone()
	if i := next.index(item.ID); i >= 0 {
		next.Items[i].Quantity += qty
		return next, nil
	}

	line := item.clone()
	line.Quantity = qty
	next.Items = append(next.Items, line)
	return next, nil
}

// SetQuantity replaces a line's quantity. qty <= 0 always removes the line,
// even when the line has a minimum order; 0 < qty < MinOrderQty is rejected
// and the cart is returned unchanged.
func (c Cart) SetQuantity(id string, qty int) (Cart, error) {
	i := c.index(id)
	if i < 0 {
		return c, ErrItemNotFound
	}
	if qty <= 0 {
		next, _ := c.Remove(id)
		return next, nil
	}

	line := c.Items[i]
	if qty < line.MinOrderQty {
		return c, &MinimumOrderError{ID: id, Floor: line.MinOrderQty, Unit: line.Unit}
	}

	next := c.Clone()
	next.Items[i].Quantity = qty
	return next, nil
}

// Remove reports whether a line was deleted.
func (c Cart) Remove(id string) (Cart, bool) {
	i := c.index(id)
	if i < 0 {
		return c, false
	}
	next := Cart{Items: make([]LineItem, 0, len(c.Items)-1)}
	for j, it := range c.Items {
		if j != i {
			next.Items = append(next.Items, it.clone())
		}
	}
	return next, true
}

// Merge adds every item in order: quantities are summed into existing lines,
// unknown ids are appended with their full metadata. Merging the same items
// twice doubles their contribution.
func (c Cart) Merge(items []LineItem) (Cart, error) {
	for _, it := range items {
		if it.Quantity <= 0 {
			return c, ErrInvalidQuantity
		}
	}

	next := c.Clone()
	for _, it := range items {
		if i := next.index(it.ID); i >= 0 {
			next.Items[i].Quantity += it.Quantity
			continue
		}
		next.Items = append(next.Items, it.clone())
	}
	return next, nil
}

// Validate checks that every line has an id, a positive quantity at or above
// its floor, and that no id appears twice.
func (c Cart) Validate() error {
	seen := make(map[string]struct{}, len(c.Items))
	for i, it := range c.Items {
		if it.ID == "" {
			return fmt.Errorf("line %d: missing id: %w", i, ErrInconsistentCart)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("line %s: duplicate id: %w", it.ID, ErrInconsistentCart)
		}
		seen[it.ID] = struct{}{}
		if it.Quantity <= 0 || it.Quantity < it.MinOrderQty {
			return fmt.Errorf("line %s: quantity %d below floor %d: %w", it.ID, it.Quantity, it.MinOrderQty, ErrInconsistentCart)
		}
	}
	return nil
}

func (c Cart) index(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (it LineItem) clone() LineItem {
	if it.Schemes != nil {
		it.Schemes = append([]string(nil), it.Schemes...)
	}
	return it
}
