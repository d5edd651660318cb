package service

import "errors"

var (
	ErrCartEmpty      = errors.New("cart is empty")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrNotOwner       = errors.New("not the owner of this resource")
	ErrNoSession      = errors.New("order has no checkout session")
	ErrWrongMethod    = errors.New("operation not valid for this payment method")
	ErrInvalidStatus  = errors.New("invalid status value")
	ErrQuantityNeeded = errors.New("quantity must be at least 1")
)
