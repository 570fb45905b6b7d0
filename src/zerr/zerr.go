// Package zerr defines the error taxonomy shared across zerv's core and
// CLI layers. Every operation that can fail in a way the CLI needs to
// distinguish (argument/validation vs. runtime) returns a *Error wrapping
// one of the Kind values below, so callers can switch on Kind rather than
// parsing message strings.
package zerr

import (
	"errors"
	"fmt"
)

// Kind is a closed taxonomy of the failure classes the core and CLI
// surface.
type Kind string

const (
	InvalidFormat     Kind = "InvalidFormat"
	InvalidVersion    Kind = "InvalidVersion"
	InvalidArgument   Kind = "InvalidArgument"
	InvalidBumpTarget Kind = "InvalidBumpTarget"
	ConflictingOpts   Kind = "ConflictingOptions"
	ConflictingSchema Kind = "ConflictingSchemas"
	UnknownSchema     Kind = "UnknownSchema"
	UnknownFormat     Kind = "UnknownFormat"
	UnknownSource     Kind = "UnknownSource"
	StdinError        Kind = "StdinError"
	TemplateError     Kind = "TemplateError"
	VcsNotFound       Kind = "VcsNotFound"
	NoTagsFound       Kind = "NoTagsFound"
	CommandFailed     Kind = "CommandFailed"
	IO                Kind = "Io"
)

// Error is the concrete error type returned by zerv's core packages.
type Error struct {
	Kind Kind
	Msg  string
	Hint string
	Err  error
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no wrapped cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error wrapping an existing error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// WithHint attaches a hint (e.g. a valid index range) to an *Error.
func (e *Error) WithHint(format string, args ...any) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

// Is reports whether err carries the given Kind, walking the wrap chain.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind of err, or "" if err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ExitCode maps a Kind to a process exit code: 2 for argument/validation
// errors, 1 for everything else, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case InvalidArgument, InvalidBumpTarget, ConflictingOpts, ConflictingSchema,
		UnknownSchema, UnknownFormat, UnknownSource:
		return 2
	default:
		return 1
	}
}
