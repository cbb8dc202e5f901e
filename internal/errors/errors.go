// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeConfig indicates missing or invalid configuration (credentials,
	// org identity, pricing file). Fatal before any network call.
	TypeConfig Type = "CONFIG_ERROR"

	// TypeTransport indicates a network failure or an unclassified non-2xx
	// response from a provider API
	TypeTransport Type = "TRANSPORT_ERROR"

	// TypeAuth indicates rejected credentials (HTTP 401)
	TypeAuth Type = "AUTH_ERROR"

	// TypePermission indicates credentials lacking a required scope (HTTP 403)
	TypePermission Type = "PERMISSION_ERROR"

	// TypeNotFound indicates a missing remote resource (HTTP 404)
	TypeNotFound Type = "NOT_FOUND"

	// TypeSchema indicates a record that fails the output contract
	TypeSchema Type = "SCHEMA_ERROR"

	// TypeSink indicates an upload failure; the batch is entirely unsent
	TypeSink Type = "SINK_ERROR"

	// TypeInternal indicates an invariant violation
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType reports whether err, or any error it wraps, carries the given type.
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// TypeOf returns the taxonomy type of err, or TypeInternal when err carries none.
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// Configf creates a formatted configuration error
func Configf(format string, args ...interface{}) *Error {
	return Newf(TypeConfig, format, args...)
}

// Transport creates a transport error
func Transport(message string, cause error) *Error {
	return Wrap(TypeTransport, message, cause)
}

// Auth creates an authentication error
func Auth(message string) *Error {
	return New(TypeAuth, message)
}

// Permission creates a permission error
func Permission(message string) *Error {
	return New(TypePermission, message)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Schema creates a record-schema error
func Schema(message string) *Error {
	return New(TypeSchema, message)
}

// Sink creates an upload sink error
func Sink(message string, cause error) *Error {
	return Wrap(TypeSink, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}

// ClassifyHTTP maps a non-2xx status to the taxonomy. 401 and 403 get their
// own types so the CLI can tell a bad key from a missing scope; everything
// else is a plain transport failure carrying the status.
func ClassifyHTTP(status int, message string) *Error {
	switch status {
	case 401:
		return Auth(message).WithContext("status", status)
	case 403:
		return Permission(message).WithContext("status", status)
	case 404:
		return New(TypeNotFound, message).WithContext("status", status)
	default:
		return Newf(TypeTransport, "%s (HTTP %d)", message, status).WithContext("status", status)
	}
}
