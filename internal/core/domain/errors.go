package domain

import (
	"errors"
	"fmt"
)

// Kind classifies every error the service reports to callers.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindDuplicateEmail
	KindInvalidCredentials
	KindAccountNotActive
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindAccountNotActive:
		return "account_not_active"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "unexpected"
	}
}

// Error carries a Kind, a caller-safe message and optional field-level details.
// Err holds the underlying cause and is never rendered to clients.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels, one per kind. Compare with errors.Is.
var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrDuplicateEmail     = &Error{Kind: KindDuplicateEmail, Message: "Email is already in use"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid email or password"}
	ErrAccountNotActive   = &Error{Kind: KindAccountNotActive, Message: "account is not active"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "Not authorized. Please login to access this resource"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "You do not have permission to perform this action"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrUnexpected         = &Error{Kind: KindUnexpected, Message: "internal server error"}
)

// NewValidationError reports one or more rule violations.
func NewValidationError(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// NewAccountNotActiveError names the blocking status in its message.
func NewAccountNotActiveError(status Status) *Error {
	return &Error{
		Kind:    KindAccountNotActive,
		Message: fmt.Sprintf("Your account is %s. Please contact administrator", status),
	}
}

// NewError builds an error of the given kind with a custom message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Unexpected wraps an infrastructure failure. The cause is kept for logging only.
func Unexpected(op string, err error) *Error {
	return &Error{Kind: KindUnexpected, Message: op, Err: err}
}

// KindOf returns the Kind of err, or KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}
