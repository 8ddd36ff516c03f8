// Package apperr classifies errors that cross the service boundary so the
// HTTP layer can map them to a status code and a public message.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is the category of an application error. Its string form is sent to
// clients in the "code" field of error envelopes.
type Kind string

const (
	BadRequest   Kind = "BAD_REQUEST"
	Unauthorized Kind = "UNAUTHORIZED"
	Forbidden    Kind = "FORBIDDEN"
	NotFound     Kind = "NOT_FOUND"
	Conflict     Kind = "CONFLICT"
	Internal     Kind = "INTERNAL"
)

// HTTPStatus maps a kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Kinded is implemented by errors that carry their own classification.
type Kinded interface {
	error
	Kind() Kind
}

// Error is the general-purpose classified error. Message is safe to show to
// clients; Err is the underlying cause and is only logged.
type Error struct {
	kind    Kind
	Message string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{kind: kind, Message: message}
}

// Wrap classifies err. A nil err yields nil.
func Wrap(kind Kind, message string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, Message: message, Err: err}
}

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first classified error in err's chain, or
// Internal when there is none.
func KindOf(err error) Kind {
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return Internal
}

// PublicMessage is the text a client may see for err. Internal errors never
// leak their cause.
func PublicMessage(err error) string {
	var k Kinded
	if !errors.As(err, &k) || k.Kind() == Internal {
		return "Internal Server Error"
	}
	var e *Error
	if errors.As(err, &e) && e.kind == k.Kind() {
		return e.Message
	}
	return k.Error()
}
