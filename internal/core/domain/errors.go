package domain

import "errors"

// ErrorClass classifies a domain failure so the HTTP boundary can map it
// to a transport status without inspecting messages.
type ErrorClass int

const (
	ClassInternal ErrorClass = iota
	ClassNotFound
	ClassConflict
	ClassForbidden
	ClassValidation
	ClassUnauthenticated
)

// Error is the typed error every service returns for expected failures.
type Error struct {
	Class   ErrorClass
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

func NotFound(msg string) *Error { return &Error{Class: ClassNotFound, Message: msg} }

func Conflict(msg string) *Error { return &Error{Class: ClassConflict, Message: msg} }

func Forbidden(msg string) *Error { return &Error{Class: ClassForbidden, Message: msg} }

func Validation(msg string) *Error { return &Error{Class: ClassValidation, Message: msg} }

func Unauthenticated(msg string) *Error { return &Error{Class: ClassUnauthenticated, Message: msg} }

func Internal(msg string, err error) *Error {
	return &Error{Class: ClassInternal, Message: msg, err: err}
}

// ClassOf extracts the classification from an error chain. Anything that
// is not a *Error is treated as internal.
func ClassOf(err error) ErrorClass {
	var de *Error
	if errors.As(err, &de) {
		return de.Class
	}
	return ClassInternal
}
