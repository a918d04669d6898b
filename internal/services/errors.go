package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies review-engine failures so handlers can map them to
// HTTP statuses and UIs can render an actionable message.
type ErrorKind string

const (
	ErrNotFound             ErrorKind = "not_found"
	ErrInvalidState         ErrorKind = "invalid_state"
	ErrForbidden            ErrorKind = "forbidden"
	ErrPreconditionFailed   ErrorKind = "precondition_failed"
	ErrUnsupportedOperation ErrorKind = "unsupported_operation"
	ErrConflict             ErrorKind = "conflict"
	ErrValidation           ErrorKind = "validation_error"
)

// Error carries a kind plus enough context (ids, current status, counts) for
// the caller to act on. Every engine failure is one of these; nothing is
// retried internally.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf builds a typed engine error.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an engine error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
