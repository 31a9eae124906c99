// Package apperr defines the error taxonomy shared by every handler and
// the OpenSubsonic envelope that serializes it.
package apperr

import "errors"

// Kind is one of the abstract error kinds every handler-layer error maps to.
type Kind int

const (
	Internal Kind = iota
	BadRequest
	Unauthenticated
	MissingRole
	Forbidden
	NotFound
	Conflict
)

// Error wraps an underlying cause with a Kind and a client-safe message.
// The underlying cause is logged; Message is what reaches the client.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// As extracts an *Error from err, synthesizing an Internal one if err isn't
// already typed — the catch-all for unrecoverable conditions per the error
// handling design.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: Internal, Message: "internal error", Cause: err}
}
