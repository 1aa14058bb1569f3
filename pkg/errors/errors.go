// Package errors carries the coded failures fourcolor returns from the
// engine, the pipeline, the CLI and the HTTP API.
//
// Every failure a caller can act on has a [Code]. The HTTP server maps codes
// to status codes, and the CLI prints [UserMessage]. A color budget that
// cannot be met is not an error: algorithms report it through
// Assignment.Valid.
//
//	if _, err := e.ComputeColoring(opts); errors.Is(err, errors.ErrCodeNoGraph) {
//	    // load a graph first
//	}
//
// Failures worth another attempt (network, Redis) are marked with
// [Transient] and retried by [Retry].
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable failure class.
type Code string

// Codes prefixed INVALID_ reject caller input; codes suffixed NOT_FOUND
// name an absent resource.
const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidGraph     Code = "INVALID_GRAPH"
	ErrCodeInvalidAlgorithm Code = "INVALID_ALGORITHM"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	ErrCodeNoGraph Code = "NO_GRAPH_LOADED"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c rejects caller input.
func (c Code) Invalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// Missing reports whether c names an absent resource.
func (c Code) Missing() bool { return strings.HasSuffix(string(c), "NOT_FOUND") }

// Error is a coded failure. Message is what users see; Cause stays
// reachable through errors.Is and errors.As.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns a coded error without a cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns a coded error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NoGraph is the precondition error returned by engine operations that need
// a loaded graph.
func NoGraph(op string) *Error {
	return New(ErrCodeNoGraph, "%s: no graph loaded", op)
}

// outermost returns the first *Error in err's chain.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := outermost(err)
	return ok && e.Code == code
}

// UserMessage returns the outermost coded error's message without its code
// or cause, or err's text for uncoded errors.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}
