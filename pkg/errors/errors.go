// Package errors provides structured error types for repograph.
//
// Failures in the crawl and resolve stages never abort a run. They are
// classified with a [Code] so that run reports can count them by kind:
//
//   - LISTING_FETCH: a directory listing could not be fetched or parsed
//   - DESCRIPTOR_PARSE: a metadata or release descriptor could not be fetched or parsed
//   - DEPENDENCY_EXTRACTION: a release descriptor has no usable dependency section
//   - UNIT_FAILURE: a fetch unit failed for any other reason (panic, timeout)
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeListingFetch, cause, "list %s", url)
//	if errors.Is(err, errors.ErrCodeListingFetch) {
//	    // branch abandoned
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Pipeline stage failures
	ErrCodeListingFetch         Code = "LISTING_FETCH"
	ErrCodeDescriptorParse      Code = "DESCRIPTOR_PARSE"
	ErrCodeDependencyExtraction Code = "DEPENDENCY_EXTRACTION"
	ErrCodeUnitFailure          Code = "UNIT_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// GetCode extracts the outermost error code from an error.
// Returns ErrCodeInternal for non-nil errors that carry no code, and the
// empty string for nil.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
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
