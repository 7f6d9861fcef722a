package services

import "errors"

var (
	// ErrValidation marks a request that is missing or has malformed required fields.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the requested card does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUpstream indicates the pricing source could not be reached or answered with a non-success status.
	ErrUpstream = errors.New("pricing source unavailable")
)
