package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Every error returned by the core wraps exactly one of these so
// callers can branch with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotApproved        = errors.New("account is not yet approved")
)

var (
	ErrIdentityNotFound = fmt.Errorf("identity %w", ErrNotFound)
	ErrProviderNotFound = fmt.Errorf("service provider %w", ErrNotFound)
	ErrBookingNotFound  = fmt.Errorf("booking %w", ErrNotFound)

	ErrEmailTaken      = NewValidationError("email", "the email has already been taken")
	ErrNationalIDTaken = NewValidationError("national_id", "the national id has already been taken")
)

// ValidationError carries field-level detail for rejected input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError with a single field message.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records a message for field. Existing messages are kept.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvalidTransition reports that name cannot run from the booking's current statuses.
func InvalidTransition(name string, b *Booking) error {
	return fmt.Errorf("%w: cannot %s booking %s (user status %q, provider status %q)",
		ErrInvalidState, name, b.ID, b.UserStatus, b.ProviderStatus)
}
