package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates the input failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrRateUnavailable indicates no rate could be resolved for a product.
	ErrRateUnavailable = errors.New("rate unavailable")
)
