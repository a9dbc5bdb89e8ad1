package errors

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidStock     = errors.New("stock count out of range")
	ErrImageRequired    = errors.New("product image is required")
)
