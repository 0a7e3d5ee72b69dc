// Package errdefs provides unified error handling with stable reason codes.
// Codes appear in terminal outcome reports and logs, so they never change
// meaning between releases.
package errdefs

import (
	"errors"
	"fmt"
)

// Code identifies the failure class of a recording error.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"
	CodeOK      Code = "OK"

	// Configuration-stage codes. All abort before any capture resource is
	// acquired.
	CodeConfigInvalid   Code = "CONFIG_INVALID"
	CodeAreaInvalid     Code = "AREA_INVALID"
	CodeAreaOutOfBounds Code = "AREA_OUT_OF_BOUNDS"
	CodeScreenNotFound  Code = "SCREEN_NOT_FOUND"
	CodeAppNotFound     Code = "APP_NOT_FOUND"
	CodeAppAmbiguous    Code = "APP_AMBIGUOUS"
	CodeNoWindows       Code = "NO_WINDOWS"
	CodeOutputConflict  Code = "OUTPUT_CONFLICT"
	CodeUnsupported     Code = "UNSUPPORTED"

	// Session-stage codes.
	CodeCaptureStart    Code = "CAPTURE_START"
	CodeStreamFailed    Code = "STREAM_FAILED"
	CodeSampleDropped   Code = "SAMPLE_DROPPED"
	CodeStopFailed      Code = "STOP_FAILED"
	CodeFinalizeFailed  Code = "FINALIZE_FAILED"
	CodeFinalizeTimeout Code = "FINALIZE_TIMEOUT"
	CodeInterrupted     Code = "INTERRUPTED"
)

// AppError is the base error type with a structured code, metadata, and an
// optional remediation hint shown to the user.
type AppError struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Hint     string
	Cause    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if len(e.Metadata) > 0 {
		s += fmt.Sprintf(" %v", e.Metadata)
	}
	if e.Cause != nil {
		s += fmt.Sprintf(" caused by: %v", e.Cause)
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error { return e.Cause }

// New creates a new AppError with the given code and message.
func New(code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// Newf creates a new AppError with formatted message.
func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with an AppError.
func Wrap(err error, code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with formatted message.
func Wrapf(err error, code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// WithMetadata adds metadata to an AppError.
func (e *AppError) WithMetadata(key, value string) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// WithHint attaches a remediation hint surfaced next to the error.
func (e *AppError) WithHint(hint string) *AppError {
	e.Hint = hint
	return e
}

// CodeOf extracts the code from err, or CodeUnknown for foreign errors.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsCode checks if an error carries a specific code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HintOf returns the remediation hint if err carries one.
func HintOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Hint
	}
	return ""
}

// IsConfiguration reports whether err belongs to the configuration stage,
// meaning no capture resource was acquired and no output exists.
func IsConfiguration(err error) bool {
	switch CodeOf(err) {
	case CodeConfigInvalid, CodeAreaInvalid, CodeAreaOutOfBounds,
		CodeScreenNotFound, CodeAppNotFound, CodeAppAmbiguous,
		CodeNoWindows, CodeOutputConflict, CodeUnsupported:
		return true
	}
	return false
}
