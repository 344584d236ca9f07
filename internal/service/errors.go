package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of them;
// callers branch with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrIO                 = errors.New("io error")
)

// Error carries a caller-safe message alongside its kind and an optional cause.
// Error() includes the cause; Message never does.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind error, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// PublicMessage returns the message safe to show a caller, or "" if err
// did not originate in this package.
func PublicMessage(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

func requirePrincipal(principal string) error {
	if principal == "" {
		return newError(ErrUnauthorized, "authentication required")
	}
	return nil
}

func requireField(value, field string) error {
	if value == "" {
		return newError(ErrValidation, fmt.Sprintf("%s is required", field))
	}
	return nil
}
