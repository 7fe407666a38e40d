// Package serrors defines the semantic error kinds returned by the
// agreement analysis packages.
//
// Every error produced for bad input, an unknown method name or a failed
// numerical search carries one of the kinds below, so callers can branch
// with errors.Is without matching on message text:
//
//	_, err := confidence.ParseMethod("bootstrap")
//	if errors.Is(err, serrors.ErrUnsupportedMethod) {
//	    // fall back to the approximate method
//	}
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel) with the given name.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrInvalidArgument indicates a caller supplied a value outside its
	// documented domain (confidence level, limit of agreement, sample size).
	ErrInvalidArgument = NewKind("INVALID_ARGUMENT")
	// ErrUnsupportedMethod indicates an unknown detrending or confidence
	// interval method name.
	ErrUnsupportedMethod = NewKind("UNSUPPORTED_METHOD")
	// ErrDidNotConverge indicates an iterative search hit its iteration cap
	// before reaching the requested tolerance.
	ErrDidNotConverge = NewKind("DID_NOT_CONVERGE")
)

// Error is a semantic error carrying a kind, an optional wrapped cause and a
// message. errors.Is matches either the kind or anything in the cause chain.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a new semantic error with the given kind and message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a new semantic error with the given kind wrapping err.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target matches the kind or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	return e.err != nil && errors.Is(e.err, target)
}

// As enables errors.As against the kind or the wrapped cause.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the semantic kind of the error.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to the error.
func (e *Error) Message() string { return e.msg }

// InvalidArgument is shorthand for With(ErrInvalidArgument, ...).
func InvalidArgument(msgFmt string, args ...any) *Error {
	return With(ErrInvalidArgument, msgFmt, args...)
}

// UnsupportedMethod reports an unknown method name for the named operation.
func UnsupportedMethod(operation, method string) *Error {
	return With(ErrUnsupportedMethod, "%q is not a valid %s method", method, operation)
}
