package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist or is soft-deleted.
	ErrNotFound = errors.New("record not found")
	// ErrAccessDenied is returned when a user acts on another user's resource.
	ErrAccessDenied = errors.New("access denied")
	// ErrEmptyCart is returned when checkout is attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition is returned for a status change the state machine
	// does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidStatus is returned when a status value is not recognised.
	ErrInvalidStatus = errors.New("unknown status")
	// ErrDuplicate is returned when a unique field (email, username, code,
	// category name) is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidCredentials is returned on a failed login. It is deliberately
	// the same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotVerified is returned when an unverified account tries to log in.
	ErrNotVerified = errors.New("email not verified")
	// ErrInactive is returned when a deactivated account tries to log in.
	ErrInactive = errors.New("account is deactivated")
	// ErrUseAdminLogin is returned when an admin account is submitted to the
	// customer login form.
	ErrUseAdminLogin = errors.New("please use the admin login for administrator accounts")
)

// ValidationError carries the full field → message map of a failed input
// check, so callers can report every problem at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError wraps a non-empty field error map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}
