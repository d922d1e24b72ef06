// Package apperr carries the error taxonomy shared by services and
// controllers. Services fail fast with a kinded error; controllers map
// kinds onto HTTP statuses without inspecting message text.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	Validation   Kind = "VALIDATION"
	NotFound     Kind = "NOT_FOUND"
	InvalidState Kind = "INVALID_STATE"
	Conflict     Kind = "CONFLICT"
	Unexpected   Kind = "UNEXPECTED"
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Message: msg}
}

func Newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func Wrap(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Message: msg, cause: cause}
}

// WithField attaches field-level detail for validation responses.
func (e *Error) WithField(name, reason string) *Error {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[name] = reason
	return e
}

// KindOf reports the kind of err, Unexpected for anything untyped.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unexpected
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// FieldsOf returns field detail when present.
func FieldsOf(err error) map[string]string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
