package service

import "errors"

var (
	// ErrProductNotFound means the id does not resolve to an active product.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateCode means another active product already holds the code.
	ErrDuplicateCode = errors.New("a product already exists with code")
	// ErrInvalidInput is returned for input the HTTP layer should have rejected.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidPagination is returned for a negative page, a non-positive size
	// or a page whose row offset does not fit in an int.
	ErrInvalidPagination = errors.New("invalid pagination")
)
