package product

import "errors"

var (
	ErrMissingField  = errors.New("missing required field")
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrNegativeStock = errors.New("stock cannot be negative")
)
