// Package errors provides structured error types for pinmap.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the terminal viewer and the HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (map definitions, icons, flags)
//   - *_NOT_FOUND: Resource not found
//   - FETCH_ERROR: Remote assets could not be downloaded
//   - INTERNAL_*: Unexpected internal errors
//
// Runtime geometry and navigation never produce errors: abnormal input to
// the layout engine or the navigation controller degrades gracefully. Only
// loading and validating definitions does.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidIcon, "icon %q: x out of range", id)
//	if errors.Is(err, errors.ErrCodeInvalidIcon) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeImageDecode, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidIcon   Code = "INVALID_ICON"
	ErrCodeDuplicateIcon Code = "DUPLICATE_ICON"
	ErrCodeInvalidMap    Code = "INVALID_MAP"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidTier   Code = "INVALID_TIER"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource errors
	ErrCodeMapNotFound Code = "MAP_NOT_FOUND"
	ErrCodeImageDecode Code = "IMAGE_DECODE"
	ErrCodeFetch       Code = "FETCH_ERROR"

	// Infrastructure errors
	ErrCodeCache Code = "CACHE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// List collects the problems found while validating one definition so
// they can be reported together. The zero value is ready to use.
type List struct {
	errs []error
}

// Add records err. Nil errors are ignored.
func (l *List) Add(err error) {
	if err != nil {
		l.errs = append(l.errs, err)
	}
}

// Len returns the number of recorded problems.
func (l *List) Len() int { return len(l.errs) }

// Err returns nil, the single recorded error, or an *Error carrying the
// first problem's code whose message enumerates every problem. The
// individual errors stay reachable through errors.Is and errors.As.
func (l *List) Err() error {
	switch len(l.errs) {
	case 0:
		return nil
	case 1:
		return l.errs[0]
	}
	msgs := make([]string, len(l.errs))
	for i, err := range l.errs {
		msgs[i] = UserMessage(err)
	}
	code := GetCode(l.errs[0])
	if code == "" {
		code = ErrCodeInvalidInput
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf("%d problems: %s", len(l.errs), strings.Join(msgs, "; ")),
		Cause:   errors.Join(l.errs...),
	}
}

// HTTPStatus maps an error code to the HTTP status the server responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidIcon, ErrCodeDuplicateIcon,
		ErrCodeInvalidMap, ErrCodeInvalidFormat, ErrCodeInvalidTier:
		return 400
	case ErrCodeMapNotFound:
		return 404
	case ErrCodeImageDecode:
		return 422
	case ErrCodeFetch:
		return 502
	case ErrCodeUnsupported:
		return 501
	default:
		return 500
	}
}
