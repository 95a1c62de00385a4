package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrInvalidKey      = errors.New("invalid slot key")
	ErrConfirmRequired = errors.New("reset requires confirm=true")
)
