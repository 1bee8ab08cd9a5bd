package domain

import "time"

// Template is a named bundle of line items merged into the cart on demand.
type Template struct {
	ID        string
	Name      string
	Items     []LineItem
	CreatedAt time.Time
}
