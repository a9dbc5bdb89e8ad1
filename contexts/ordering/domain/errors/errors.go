package errors

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrOrderNotFound        = errors.New("order not found")
	ErrLineItemNotFound     = errors.New("order item not found")
	ErrOrderItemCreation    = errors.New("order item creation failed")
	ErrOrderCreation        = errors.New("order creation failed")
	ErrUnknownProduct       = errors.New("order item references unknown product")
	ErrInvalidQuantity      = errors.New("order item quantity must be positive")
	ErrMissingShippingField = errors.New("missing required shipping field")
)
