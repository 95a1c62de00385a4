package service

import "errors"

// Sentinel errors returned by the board service.
var (
	// ErrUnknownSlot is returned for a key outside the configured layout.
	ErrUnknownSlot = errors.New("unknown slot")
	// ErrLoad wraps backend failures while reading the snapshot.
	ErrLoad = errors.New("load board failed")
	// ErrPersist wraps backend failures while writing the snapshot.
	ErrPersist = errors.New("persist board failed")
)
