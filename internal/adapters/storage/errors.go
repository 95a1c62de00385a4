package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrNotFound       = errors.New("key not found")
	ErrEmptyKey       = errors.New("empty key")
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrClosed         = errors.New("storage closed")
)
