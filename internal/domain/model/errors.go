package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidKey = errors.New("invalid slot key")
)
