package order

import "errors"

var (
	ErrEmptyCart         = errors.New("order must contain at least one item with a positive quantity")
	ErrMissingCustomer   = errors.New("missing customer or payment details")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStatus     = errors.New("invalid order status")
)
