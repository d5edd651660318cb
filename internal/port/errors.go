package port

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing entity (product, order, cart, review, ...).
	ErrNotFound = errors.New("not found")

	// ErrDuplicate reports a unique-constraint violation, e.g. re-registering
	// an existing brand or category name.
	ErrDuplicate = errors.New("already exists")
)

// InsufficientStockError aborts an order whose requested quantity exceeds the
// available stock of one of its line items.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}
