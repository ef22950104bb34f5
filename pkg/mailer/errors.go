package mailer

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the parent of every error raised before a dispatch
	// attempt because of missing or malformed input.
	ErrValidation = errors.New("mailer: validation failed")

	// ErrNoContent indicates the HTML body is empty.
	ErrNoContent = fmt.Errorf("%w: message body cannot be empty", ErrValidation)

	// ErrNoSender indicates the from address is unset.
	ErrNoSender = fmt.Errorf("%w: message needs a sender", ErrValidation)

	// ErrNoSubject indicates neither the request nor a messenger provides a subject.
	ErrNoSubject = fmt.Errorf("%w: message needs a subject", ErrValidation)

	// ErrNoMessengers indicates the request has no recipient groups.
	ErrNoMessengers = fmt.Errorf("%w: at least one messenger is required", ErrValidation)

	// ErrMissingEmail indicates a recipient without an email address.
	ErrMissingEmail = fmt.Errorf("%w: recipient email is required", ErrValidation)

	// ErrNilRecipient indicates a nil recipient entry.
	ErrNilRecipient = fmt.Errorf("%w: recipient is nil", ErrValidation)

	// ErrInvalidClass indicates an unknown or unusable recipient class.
	ErrInvalidClass = fmt.Errorf("%w: invalid recipient class", ErrValidation)

	// ErrInvalidDefinition indicates a request definition that cannot be decoded or built.
	ErrInvalidDefinition = fmt.Errorf("%w: invalid request definition", ErrValidation)

	// ErrMarkdown indicates the markdown body could not be converted to HTML.
	ErrMarkdown = errors.New("mailer: failed to render markdown")

	// ErrUnauthorized indicates no usable bearer token is available.
	ErrUnauthorized = errors.New("mailer: authorization info not found")

	// ErrNoDispatcher indicates Dispatch was called without a dispatcher.
	ErrNoDispatcher = errors.New("mailer: dispatcher is nil")

	// ErrTransport indicates the request never produced an HTTP response
	// (DNS, connect, TLS, timeout, cancellation).
	ErrTransport = errors.New("mailer: transport failure")

	// ErrRejected indicates the provider answered with a non-success status.
	ErrRejected = errors.New("mailer: rejected by provider")
)

// EntryError reports a malformed entry in a bulk recipient call.
type EntryError struct {
	Err   error
	Index int
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("recipient entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// RejectedError carries the raw provider response of a rejected dispatch.
type RejectedError struct {
	Body       string
	StatusCode int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrRejected, e.StatusCode)
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}
