package errors

import (
	"fmt"
	"net/http"
	"strings"

	"membership/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // Caller-facing error message
	Details() string   // Detailed error information (optional, never sent for 5xx)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the caller-facing error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches any BaseError carrying the same business code, so that
// WithDetails copies still compare equal to the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// Predefined error types
var (
	// Registration errors
	ErrAlreadyRegistered = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_REGISTERED",
		"User already registered (Email, Phone, or ID)",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Invalid registration input",
		"",
	)

	// Authentication errors. Unknown email and wrong password share one value
	// so the response never reveals which of the two happened.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid credentials",
		"",
	)

	ErrAccountNotUsable = NewBaseError(
		http.StatusUnauthorized,
		"ACCOUNT_NOT_SET_UP",
		"Account not set up for login. Please contact admin.",
		"",
	)

	// General errors
	ErrInternal = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Not found",
		"",
	)
)

// FieldViolation describes one field that failed its rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ValidationError lists every violated field of a submission, not just the first.
type ValidationError struct {
	violations []FieldViolation
}

// NewValidationError creates a validation failure from the collected violations
func NewValidationError(violations []FieldViolation) *ValidationError {
	return &ValidationError{violations: violations}
}

// Violations returns the per-field violations
func (e *ValidationError) Violations() []FieldViolation {
	return e.violations
}

// Fields returns the names of the violated fields in report order
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.violations))
	for _, v := range e.violations {
		fields = append(fields, v.Field)
	}

	return fields
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.violations))
	for _, v := range e.violations {
		parts = append(parts, v.Field+": "+v.Message)
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) HTTPCode() int     { return ErrValidationFailed.HTTPCode() }
func (e *ValidationError) ErrorCode() string { return ErrValidationFailed.ErrorCode() }
func (e *ValidationError) Message() string   { return ErrValidationFailed.Message() }
func (e *ValidationError) Details() string   { return strings.Join(e.Fields(), ",") }

// ConflictKey names the natural key that collided on insert.
type ConflictKey string

const (
	ConflictEmail    ConflictKey = "email"
	ConflictPhone    ConflictKey = "phone"
	ConflictIDNumber ConflictKey = "id_number"
	ConflictUnknown  ConflictKey = "unknown"
)

// ConflictError is raised by the store gateway when a uniqueness constraint rejects an insert.
type ConflictError struct {
	Key ConflictKey
	err error
}

// NewConflictError creates a ConflictError for the given key
func NewConflictError(key ConflictKey, err error) *ConflictError {
	return &ConflictError{Key: key, err: err}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unique constraint violated on %s", e.Key)
}

func (e *ConflictError) Unwrap() error {
	return e.err
}

// StoreError represents any other store-level fault (connectivity, schema, driver).
// Its text is for operators only.
type StoreError struct {
	Op  string
	err error
}

// NewStoreError creates a StoreError for the failed operation
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, err: err}
}

func (e *StoreError) Error() string {
	return errors.Wrap(e.err, e.Op).Error()
}

func (e *StoreError) Unwrap() error {
	return e.err
}
