// Package errors defines the closed set of error kinds raised by the
// columnar execution core, along with constructors mirroring the rest of
// the draken packages.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the closed set of error kinds the core can raise.
type Kind string

const (
	ColumnNotFound      Kind = "ColumnNotFound"
	AmbiguousColumn     Kind = "AmbiguousColumn"
	LengthMismatch      Kind = "LengthMismatch"
	ArityError          Kind = "ArityError"
	TypeMismatch        Kind = "TypeMismatch"
	UnsupportedOperation Kind = "UnsupportedOperation"
	EmptyVector         Kind = "EmptyVector"
	CapacityExceeded    Kind = "CapacityExceeded"
	InvalidState        Kind = "InvalidState"
)

// DrakenError carries a Kind plus a free-form message and optional
// context (column name, operator name, leg) describing where it happened.
type DrakenError struct {
	Kind    Kind
	Message string
	Context map[string]string
	cause   error
}

func (e *DrakenError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s %v", e.Kind, e.Message, e.Context)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *DrakenError) Unwrap() error {
	return e.cause
}

// New creates a DrakenError of the given kind.
func New(kind Kind, format string, args ...interface{}) *DrakenError {
	return &DrakenError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a Kind to an underlying cause, preserving the chain via
// github.com/pkg/errors so %+v printing still yields a stack trace.
func Wrap(cause error, kind Kind, format string, args ...interface{}) *DrakenError {
	return &DrakenError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.WithStack(cause),
	}
}

// With attaches context key/value pairs and returns the receiver for chaining.
func (e *DrakenError) With(key, value string) *DrakenError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// Is reports whether err is a *DrakenError of the given kind.
func Is(err error, kind Kind) bool {
	var de *DrakenError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

func ColumnNotFoundErr(name string) *DrakenError {
	return New(ColumnNotFound, "column not found").With("column", name)
}

func AmbiguousColumnErr(name string) *DrakenError {
	return New(AmbiguousColumn, "column name resolves to more than one source").With("column", name)
}

func LengthMismatchErr(a, b int) *DrakenError {
	return New(LengthMismatch, "operand lengths differ: %d != %d", a, b)
}

func ArityErrorErr(got, want int) *DrakenError {
	return New(ArityError, "expected %d names, got %d", want, got)
}

func TypeMismatchErr(left, right string) *DrakenError {
	return New(TypeMismatch, "incompatible types").With("left", left).With("right", right)
}

func UnsupportedOperationErr(op string) *DrakenError {
	return New(UnsupportedOperation, "operation not implemented by generic evaluator").With("op", op)
}

func EmptyVectorErr() *DrakenError {
	return New(EmptyVector, "operation undefined on a zero-length vector")
}

func CapacityExceededErr(want, got int) *DrakenError {
	return New(CapacityExceeded, "builder capacity exceeded: wanted %d, have %d", want, got)
}

func InvalidStateErr(reason string) *DrakenError {
	return New(InvalidState, reason)
}
