package store

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a persistence error tagged with the HTTP status it corresponds to.
type Error struct {
	Code    int    // HTTP status code
	Message string // user-facing message
	Err     error  // underlying driver error, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Code, so WithMessage variants still
// satisfy errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a copy with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	// ErrNotFound is returned when a lookup, update or delete matches no row.
	ErrNotFound = &Error{Code: http.StatusNotFound, Message: "resource not found"}

	// ErrAlreadyExists is returned when a unique constraint rejects a write.
	ErrAlreadyExists = &Error{Code: http.StatusConflict, Message: "resource already exists"}

	// ErrInvalidReference is returned when a foreign key rejects a write,
	// e.g. a like on an entry deleted concurrently.
	ErrInvalidReference = &Error{Code: http.StatusUnprocessableEntity, Message: "referenced resource does not exist"}
)
