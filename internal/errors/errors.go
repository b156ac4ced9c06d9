// Package errors provides error handling utilities.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeMissingSelection indicates a step advance blocked by an empty slot
	TypeMissingSelection Type = "MISSING_SELECTION"

	// TypeIncompatibleBuild indicates a step advance blocked by the compatibility verdict
	TypeIncompatibleBuild Type = "INCOMPATIBLE_BUILD"

	// TypeValidationUnavailable indicates the compatibility service could not be reached
	TypeValidationUnavailable Type = "VALIDATION_UNAVAILABLE"

	// TypeNotFound indicates a build was not found or is not owned by the caller
	TypeNotFound Type = "NOT_FOUND"

	// TypeInvalidFormat indicates a malformed portable build document
	TypeInvalidFormat Type = "INVALID_FORMAT"

	// TypePartialImport indicates an import resolved only some of its items
	TypePartialImport Type = "PARTIAL_IMPORT"

	// TypeCatalogInconsistency indicates a selected item is missing from the catalog
	TypeCatalogInconsistency Type = "CATALOG_INCONSISTENCY"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeNetwork indicates a network error
	TypeNetwork Type = "NETWORK_ERROR"

	// TypeInternal indicates an internal error
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

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// MissingSelection creates a missing selection error for a wizard step
func MissingSelection(category string) *Error {
	return Newf(TypeMissingSelection, "no %s selected", category).
		WithContext("category", category)
}

// IncompatibleBuild creates a verdict-blocked error carrying the rule failures
func IncompatibleBuild(errs []string) *Error {
	e := New(TypeIncompatibleBuild, "selected components are not compatible")
	return e.WithContext("errors", errs)
}

// ValidationUnavailable creates a transient validation failure error
func ValidationUnavailable(cause error) *Error {
	return Wrap(TypeValidationUnavailable, "compatibility check temporarily unavailable", cause)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// InvalidFormat creates a malformed document error
func InvalidFormat(message string, cause error) *Error {
	return Wrap(TypeInvalidFormat, message, cause)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
