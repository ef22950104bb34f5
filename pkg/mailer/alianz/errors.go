package alianz

import "errors"

var (
	// ErrInvalidConfig indicates a Config that failed validation.
	ErrInvalidConfig = errors.New("alianz: invalid configuration")

	// ErrNilDocument indicates Dispatch was called without a document.
	ErrNilDocument = errors.New("alianz: document is nil")
)
