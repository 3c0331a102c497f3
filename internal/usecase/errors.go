package usecase

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrUpstreamUnavailable = errors.New("upstream feed unavailable")
	ErrInvalidUpstreamData = errors.New("invalid upstream feed data")
	ErrStoreInconsistency  = errors.New("store state inconsistent")

	// ErrGeneration is kept for completeness of the error taxonomy: the
	// description generator swallows provider failures and returns the
	// fallback text, so this error is not produced on any current path.
	ErrGeneration = errors.New("description generation failed")
)
