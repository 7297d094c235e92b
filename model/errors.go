package model

import "errors"

// ValidationError marks caller-correctable input problems. It is surfaced
// immediately and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// ErrSizeRequired is returned when a sized product is added without a
// selected size.
func ErrSizeRequired() *ValidationError {
	return &ValidationError{Field: "selected_size", Reason: "this product requires a size"}
}

// IsValidation reports whether err is a validation error anywhere in its
// chain.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrQuotaExhausted signals the store's rate-limit condition. Repositories
// wrap driver-specific signals into this sentinel so callers only ever use
// errors.Is.
var ErrQuotaExhausted = errors.New("store quota exhausted")

// ErrConsistencyGap marks a partially applied multi-collection operation,
// e.g. a wishlist item added to the cart but not removed from the wishlist.
// The gap is surfaced for manual resolution, not auto-repaired.
var ErrConsistencyGap = errors.New("collections left inconsistent")
