package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the discriminant callers switch on. Messages are for humans only.
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindPasswordMismatch   ErrorKind = "password_mismatch"
	KindUsernameTaken      ErrorKind = "username_taken"
	KindEmailTaken         ErrorKind = "email_taken"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindUnauthenticated    ErrorKind = "unauthenticated"
	KindForbidden          ErrorKind = "forbidden"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindInvalidTransition  ErrorKind = "invalid_transition"
	KindStoreUnavailable   ErrorKind = "store_unavailable"
)

// Error is the tagged error returned by the core. Two Errors match under
// errors.Is when their kinds are equal, so wrapped causes and custom
// messages never get in the way of classification.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrPasswordMismatch   = &Error{Kind: KindPasswordMismatch, Message: "Passwords do not match"}
	ErrUsernameTaken      = &Error{Kind: KindUsernameTaken, Message: "Username already exists"}
	ErrEmailTaken         = &Error{Kind: KindEmailTaken, Message: "Email already exists"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid username or password"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "Not authenticated"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "access forbidden"}
	ErrStoreUnavailable   = &Error{Kind: KindStoreUnavailable, Message: "store unavailable"}

	ErrCompanyNotFound     = &Error{Kind: KindNotFound, Message: "company not found"}
	ErrInternshipNotFound  = &Error{Kind: KindNotFound, Message: "internship not found"}
	ErrApplicationNotFound = &Error{Kind: KindNotFound, Message: "application not found"}
	ErrAlreadyApplied      = &Error{Kind: KindConflict, Message: "already applied to this internship"}
	ErrDeadlinePassed      = &Error{Kind: KindValidation, Message: "application deadline has passed"}
)

// Validation builds a validation error with a caller supplied message.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// StoreUnavailable wraps a transport or driver failure from a store.
func StoreUnavailable(op string, err error) error {
	return &Error{Kind: KindStoreUnavailable, Message: op, Err: err}
}

// InvalidTransition reports a refused application status change.
func InvalidTransition(from, to ApplicationStatus) error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("invalid status transition from %s to %s", from, to),
	}
}

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
