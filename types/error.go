package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the kernel.
type ErrorCode string

const (
	// ErrValidation - a plugin declared a field with the wrong shape or type.
	ErrValidation ErrorCode = "VALIDATION"
	// ErrNotInstalled - enable was requested for an unknown plugin name.
	ErrNotInstalled ErrorCode = "NOT_INSTALLED"
	// ErrNotFound - a query for an enabled plugin that is not enabled.
	ErrNotFound ErrorCode = "NOT_FOUND"
	// ErrDiscovery - a plugin source failed to resolve a discovered entry.
	ErrDiscovery ErrorCode = "DISCOVERY"
	// ErrPipeline - a filter or action callback failed mid-dispatch.
	ErrPipeline ErrorCode = "PIPELINE"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Plugin  string    `json:"plugin,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithPlugin sets the plugin name the error originates from.
func (e *Error) WithPlugin(name string) *Error {
	e.Plugin = name
	return e
}

// GetErrorCode extracts the error code from an error, walking the wrap
// chain. Returns the empty code for non-structured errors.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode checks whether any error in the chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}
