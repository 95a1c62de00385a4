package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound          = errors.New("slot not found")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
)
