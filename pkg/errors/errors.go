// Package errors provides structured error types for tdvisu.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so the CLI can report it consistently and callers can branch on the
// category without string matching:
//   - INVALID_*: malformed input documents, timelines, configs or paths
//   - NO_PATH, INCONSISTENT_GRAPH: path finder failures over the tree decomposition
//   - STORE_ERROR, RENDER_ERROR: failures in the trace store or the layout engine
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTimeline, "join at step %d has no successor", i)
//	if errors.Is(err, errors.ErrCodeInvalidTimeline) {
//	    // reject the document
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "query bag %d", bag)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidTimeline Code = "INVALID_TIMELINE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeStore        Code = "STORE_ERROR"

	// Graph errors raised while interpolating between bags
	ErrCodeNoPath       Code = "NO_PATH"
	ErrCodeInconsistent Code = "INCONSISTENT_GRAPH"

	// Rendering errors
	ErrCodeRender Code = "RENDER_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a failure tagged with a Code. Cause, when set, stays reachable
// through errors.Is and errors.As.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether GetCode(err) is code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// ExitCode maps err to a process exit status: 0 for nil, 2 for bad
// input of any kind, 3 when the trace store fails and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidTimeline, ErrCodeInvalidConfig,
		ErrCodeInvalidPath, ErrCodeFileNotFound:
		return 2
	case ErrCodeStore:
		return 3
	}
	return 1
}
