// Package apperr carries the stable error kinds returned by domain services.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	NotFound             Kind = "not_found"
	Forbidden            Kind = "forbidden"
	Unauthorized         Kind = "unauthorized"
	DuplicateApplication Kind = "duplicate_application"
	JobUnavailable       Kind = "job_unavailable"
	InvalidTransition    Kind = "invalid_transition"
	UpstreamError        Kind = "upstream_error"
	ValidationError      Kind = "validation_error"
	Internal             Kind = "internal_error"
)

// Error pairs a kind with a caller-safe message. Err holds the cause and is
// never rendered to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an error of the given kind that keeps cause for logging.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf reports the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Unexpected server error"
}
