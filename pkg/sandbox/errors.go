package sandbox

import "errors"

var (
	// ErrStoreFull is returned when the message store has reached its limit.
	ErrStoreFull = errors.New("sandbox: message store is full")

	// ErrNotFound is returned when a message id is unknown.
	ErrNotFound = errors.New("sandbox: message not found")
)
