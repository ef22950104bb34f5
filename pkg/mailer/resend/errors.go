package resend

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/alianzmail/pkg/mailer"
)

var (
	// ErrInvalidConfig indicates a Config that failed validation.
	ErrInvalidConfig = errors.New("resend: invalid configuration")

	// ErrNilDocument indicates Dispatch was called without a document.
	ErrNilDocument = errors.New("resend: document is nil")

	// ErrInvalidDispatchTime indicates a dispatch time not in mailer.DispatchTimeLayout.
	ErrInvalidDispatchTime = fmt.Errorf("%w: dispatch time must be YYYY-MM-DD HH:MM:SS", mailer.ErrValidation)
)
