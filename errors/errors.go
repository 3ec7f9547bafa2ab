// Package errors provides the standardized error taxonomy for the gateway.
// Every failure crossing a resolver boundary is one of four kinds: a
// transport failure reaching the backend, a structured backend rejection, an
// invalid caller request, or a malformed backend payload. Each kind carries
// GraphQL extensions so the execution engine can surface machine-readable
// error codes without leaking transport internals.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransport represents network/HTTP failures reaching the backend
	ErrorTransport ErrorClass = iota
	// ErrorBackend represents structured non-SUCCEED backend envelopes
	ErrorBackend
	// ErrorInvalid represents errors due to invalid caller arguments
	ErrorInvalid
	// ErrorMalformed represents required fields missing from an otherwise
	// successful backend payload
	ErrorMalformed
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransport:
		return "transport"
	case ErrorBackend:
		return "backend"
	case ErrorInvalid:
		return "invalid"
	case ErrorMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// TransportError wraps a network-level failure reaching the backend. The
// underlying error is kept for logs via Unwrap but never exposed in the
// message, so raw transport detail cannot leak into GraphQL responses.
type TransportError struct {
	Operation string
	Err       error
}

// Error implements the error interface with a generic transport label
func (e *TransportError) Error() string {
	return "backend transport failure"
}

// Unwrap returns the underlying transport error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Extensions returns GraphQL error extensions for this error
func (e *TransportError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":      "TRANSPORT_ERROR",
		"operation": e.Operation,
	}
}

// BackendError represents a non-SUCCEED envelope from the backend. Code is
// the backend status string verbatim; Reason and Aux carry the structured
// error payload when the backend supplied one.
type BackendError struct {
	Code   string
	Reason string
	Aux    *string
}

// Error implements the error interface
func (e *BackendError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Reason)
	}
	return e.Code
}

// Extensions returns GraphQL error extensions carrying the backend detail
func (e *BackendError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code": e.Code,
	}
	if e.Reason != "" {
		ext["reason"] = e.Reason
	}
	if e.Aux != nil {
		ext["aux"] = *e.Aux
	}
	return ext
}

// InvalidRequestError reports caller-supplied arguments that violate a
// precondition. Resolvers return it before any backend call is made.
type InvalidRequestError struct {
	Message string
}

// Error implements the error interface
func (e *InvalidRequestError) Error() string {
	return e.Message
}

// Extensions returns GraphQL error extensions for this error
func (e *InvalidRequestError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code": "INCORRECT_REQUEST",
	}
}

// MalformedPayloadError reports required fields missing or ill-typed in a
// payload the backend delivered with a SUCCEED status.
type MalformedPayloadError struct {
	Operation string
	Detail    string
}

// Error implements the error interface
func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed backend payload: %s", e.Detail)
}

// Extensions returns GraphQL error extensions for this error
func (e *MalformedPayloadError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":      "MALFORMED_PAYLOAD",
		"operation": e.Operation,
	}
}

// NewTransport wraps err as a transport failure for the given operation
func NewTransport(err error, operation string) error {
	if err == nil {
		return nil
	}
	return &TransportError{Operation: operation, Err: err}
}

// NewBackend creates a BackendError from an envelope status and error body
func NewBackend(code, reason string, aux *string) error {
	return &BackendError{Code: code, Reason: reason, Aux: aux}
}

// NewInvalid creates an InvalidRequestError with a formatted message
func NewInvalid(format string, args ...interface{}) error {
	return &InvalidRequestError{Message: fmt.Sprintf(format, args...)}
}

// NewMalformed creates a MalformedPayloadError for the given operation
func NewMalformed(operation, format string, args ...interface{}) error {
	return &MalformedPayloadError{Operation: operation, Detail: fmt.Sprintf(format, args...)}
}

// IsTransport checks if an error is a transport failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsBackend checks if an error is a structured backend rejection
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// IsInvalid checks if an error is due to invalid caller arguments
func IsInvalid(err error) bool {
	var ie *InvalidRequestError
	return errors.As(err, &ie)
}

// IsMalformed checks if an error reports a malformed backend payload
func IsMalformed(err error) bool {
	var me *MalformedPayloadError
	return errors.As(err, &me)
}

// Classify returns the error class for an error. Unknown errors classify as
// transport so callers treat them as environmental rather than contractual.
func Classify(err error) ErrorClass {
	switch {
	case IsBackend(err):
		return ErrorBackend
	case IsInvalid(err):
		return ErrorInvalid
	case IsMalformed(err):
		return ErrorMalformed
	default:
		return ErrorTransport
	}
}

// BackendCode returns the backend status code carried by err, or "" if err
// is not a BackendError.
func BackendCode(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
