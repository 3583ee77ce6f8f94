// Package errors provides the coded error type shared by every layer of the
// service. Handlers map codes to HTTP statuses; services and repositories
// construct them so callers can tell "not yours" from "already done" from
// "fix your input".
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	// ErrCodeNotFound means a referenced entity does not exist.
	ErrCodeNotFound Code = "NOT_FOUND"
	// ErrCodeValidation means one or more submitted fields failed validation.
	// The error carries the full field-error map, never just the first failure.
	ErrCodeValidation Code = "VALIDATION_FAILED"
	// ErrCodeConflict means a uniqueness or state invariant was violated
	// (duplicate response, duplicate approval, wrong workflow stage).
	ErrCodeConflict Code = "CONFLICT"
	// ErrCodePermissionDenied means the acting user's role is not allowed to
	// perform the operation.
	ErrCodePermissionDenied Code = "PERMISSION_DENIED"
	// ErrCodeDependentRecords means a delete was blocked because other records
	// still reference the target.
	ErrCodeDependentRecords Code = "DEPENDENT_RECORDS_EXIST"
	// ErrCodeInvalidInput means a single request parameter is malformed.
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	// ErrCodeInternal means an unexpected infrastructure failure.
	ErrCodeInternal Code = "INTERNAL"
)

// Error is the service error type.
type Error struct {
	Code    Code
	Message string
	// Fields holds per-field validation messages when Code is
	// ErrCodeValidation; keys are column names.
	Fields map[string]string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches errors by code so callers can use errors.Is with a sentinel
// built from the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus maps the error code to an HTTP status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodePermissionDenied:
		return http.StatusForbidden
	case ErrCodeDependentRecords:
		return http.StatusConflict
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that wraps an underlying cause.
func Wrap(cause error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NotFound creates a NOT_FOUND error naming the entity and its identifier.
func NotFound(entity, id string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

// InvalidInput creates an INVALID_INPUT error for a single parameter.
func InvalidInput(field, message string) *Error {
	return &Error{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("%s: %s", field, message),
	}
}

// Validation creates a VALIDATION_FAILED error carrying every field error.
func Validation(fields map[string]string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %d field(s)", len(fields)),
		Fields:  fields,
	}
}

// CodeOf extracts the code from an error chain, or ErrCodeInternal when the
// error is not a coded one.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// HTTPStatusOf maps any error to an HTTP status via its code.
func HTTPStatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// FieldsOf returns the field-error map from a validation error, or nil.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
