package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable taxonomy of failures the session engine can
// surface. Handlers map kinds to HTTP statuses; the engine never leaks
// raw upstream errors to callers.
type ErrorKind string

const (
	ErrNotFound            ErrorKind = "not_found"
	ErrInvalidInput        ErrorKind = "invalid_input"
	ErrAlreadyCompleted    ErrorKind = "already_completed"
	ErrNoCreditsRemaining  ErrorKind = "no_credits_remaining"
	ErrUpstreamUnavailable ErrorKind = "upstream_unavailable"
)

// InterviewError is a structured error with a stable kind and a
// human-readable message.
type InterviewError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *InterviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *InterviewError) Unwrap() error { return e.Err }

// NewError builds an InterviewError without an underlying cause.
func NewError(kind ErrorKind, message string) *InterviewError {
	return &InterviewError{Kind: kind, Message: message}
}

// WrapError builds an InterviewError around an upstream failure.
func WrapError(kind ErrorKind, message string, err error) *InterviewError {
	return &InterviewError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the taxonomy kind from an error, defaulting to
// upstream_unavailable for anything untyped.
func KindOf(err error) ErrorKind {
	var ie *InterviewError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ErrUpstreamUnavailable
}
