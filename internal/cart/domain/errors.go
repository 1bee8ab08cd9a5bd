package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrBelowMinimumOrder = errors.New("below minimum order quantity")
	ErrItemNotFound      = errors.New("item not in cart")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrEmptyTemplate     = errors.New("template has no items")
	ErrInconsistentCart  = errors.New("cart breaks line invariants")
)

// MinimumOrderError is returned when a quantity is set under a line's floor.
type MinimumOrderError struct {
	ID    string
	Floor int
	Unit  string
}

func (e *MinimumOrderError) Error() string {
	return fmt.Sprintf("Minimum order quantity is %d %s", e.Floor, e.Unit)
}

func (e *MinimumOrderError) Is(target error) bool {
	return target == ErrBelowMinimumOrder
}
