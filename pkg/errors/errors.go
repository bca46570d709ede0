// Package errors provides coded errors for the phylo command line and HTTP
// API.
//
// The core packages (tree, pexp, distmat, reconstruct) report failures with
// plain sentinel errors. At the user-facing boundary those are wrapped in an
// [*Error] carrying a machine-readable [Code], so the CLI can print a short
// message and the server can choose an HTTP status.
//
// # Error Codes
//
// Codes are grouped by prefix:
//   - INVALID_*: malformed or out-of-range input
//   - *_NOT_FOUND: a label or file that does not exist
//   - STRUCTURE, NOT_ULTRAMETRIC, INCOMPLETE_MATRIX: input that is well formed
//     but violates a tree or matrix invariant
//   - INTERNAL_ERROR, UNSUPPORTED, TIMEOUT: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLabel, "label %q contains ':'", l)
//	if errors.Is(err, errors.ErrCodeInvalidLabel) {
//	    // reject the request
//	}
//
//	err = errors.Wrap(errors.ErrCodeNotUltrametric, cause, "reconstruct %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidLabel    Code = "INVALID_LABEL"
	ErrCodeInvalidDistance Code = "INVALID_DISTANCE"

	// Lookup errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeLabelNotFound Code = "LABEL_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Invariant violations
	ErrCodeStructure        Code = "STRUCTURE"
	ErrCodeNotUltrametric   Code = "NOT_ULTRAMETRIC"
	ErrCodeIncompleteMatrix Code = "INCOMPLETE_MATRIX"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeTimeout     Code = "TIMEOUT"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

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

// UserMessage returns a user-friendly message for the error. For *Error
// values it is the message followed by the cause, without the code prefix.
// For other errors it is the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}
