// Package apperr classifies service errors so transports can map them to
// status codes without inspecting message strings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthorization
	KindConflict
	KindNotFound
	KindIntegrity
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindIntegrity:
		return "integrity"
	case KindTransient:
		return "transient"
	}
	return "unknown"
}

// Error carries a kind, a user-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) *Error    { return newError(KindValidation, msg) }
func Authorization(msg string) *Error { return newError(KindAuthorization, msg) }
func Conflict(msg string) *Error      { return newError(KindConflict, msg) }
func NotFound(msg string) *Error      { return newError(KindNotFound, msg) }
func Integrity(msg string) *Error     { return newError(KindIntegrity, msg) }

// Transient wraps an I/O failure from a store or publisher.
func Transient(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Message: msg, Err: err}
}

// Validationf formats a field-specific validation message.
func Validationf(format string, args ...any) *Error {
	return newError(KindValidation, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of err, or KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the user-facing message for err. Unclassified errors get a
// generic message so internals are not leaked to callers.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "an internal error occurred"
}
