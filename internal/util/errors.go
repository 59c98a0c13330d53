// internal/util/errors.go
package util

import (
	"errors"

	"customer-portal/pkg/validation"
)

// Application error taxonomy. Handlers map these to HTTP status codes.
var (
	ErrInvalidInput       = validation.ErrInvalidInput // Malformed or missing field
	ErrDuplicateAccount   = errors.New("account already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrSessionInvalid     = errors.New("session expired or invalid")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrAmountOutOfRange   = errors.New("amount out of range")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidTransition  = errors.New("transaction already processed")
	ErrStorageFailure     = errors.New("storage failure")
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
