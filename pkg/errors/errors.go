// Package errors provides structured error types for the crochet editor.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the pattern core, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes for pattern editing failures are recoverable and map to 4xx responses
// in the API layer:
//   - INVALID_AMOUNT: non-positive stitch amount or above the per-call cap
//   - ROW_FULL: the amount clamps to zero against the row-length cap
//   - NOTHING_TO_UNDO / NOTHING_TO_REDO: empty history stacks
//   - UNKNOWN_STITCH_TYPE: stitch name not in the selectable catalog
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidAmount, "amount %d exceeds limit %d", n, max)
//	if errors.Is(err, errors.ErrCodeInvalidAmount) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "failed to load pattern %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Pattern editing errors
	ErrCodeInvalidAmount     Code = "INVALID_AMOUNT"
	ErrCodeRowFull           Code = "ROW_FULL"
	ErrCodeNothingToUndo     Code = "NOTHING_TO_UNDO"
	ErrCodeNothingToRedo     Code = "NOTHING_TO_REDO"
	ErrCodeUnknownStitchType Code = "UNKNOWN_STITCH_TYPE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidScript Code = "INVALID_SCRIPT"

	// Resource errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeAlreadyExists   Code = "ALREADY_EXISTS"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeSessionLimit    Code = "SESSION_LIMIT"

	// Access errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeForbidden    Code = "FORBIDDEN"

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

// IsEditFailure reports whether err is one of the recoverable pattern editing
// failures (invalid amount, full row, empty history, unknown stitch).
func IsEditFailure(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidAmount, ErrCodeRowFull, ErrCodeNothingToUndo,
		ErrCodeNothingToRedo, ErrCodeUnknownStitchType:
		return true
	}
	return false
}
