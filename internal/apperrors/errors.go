package apperrors

import "fmt"

// ErrValidation indicates a missing or unusable required input. The caller
// is at fault; the request is not retried.
type ErrValidation struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ErrValidation) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// Is allows for error checking with errors.Is().
func (e *ErrValidation) Is(target error) bool {
	_, ok := target.(*ErrValidation)
	return ok
}

// NewValidationError creates a new ErrValidation for a missing field.
func NewValidationError(field string) *ErrValidation {
	return &ErrValidation{Field: field}
}

// ErrConfiguration indicates missing credentials or settings. This is not
// recoverable per-request; the deployment is misconfigured.
type ErrConfiguration struct {
	Key string
}

// Error implements the error interface.
func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("%s is not configured", e.Key)
}

// Is allows for error checking with errors.Is().
func (e *ErrConfiguration) Is(target error) bool {
	_, ok := target.(*ErrConfiguration)
	return ok
}

// ErrAuth indicates a provider rejected a login exchange.
type ErrAuth struct {
	Provider string
	Status   string
}

// Error implements the error interface.
func (e *ErrAuth) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s login failed: %s", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s login failed", e.Provider)
}

// Is allows for error checking with errors.Is().
func (e *ErrAuth) Is(target error) bool {
	_, ok := target.(*ErrAuth)
	return ok
}

// ErrProvider indicates a non-success response from an external call.
type ErrProvider struct {
	Provider   string
	Operation  string
	StatusCode int
	Status     string
}

// Error implements the error interface.
func (e *ErrProvider) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s %s failed: %s", e.Provider, e.Operation, e.Status)
	}
	return fmt.Sprintf("%s %s failed: status %d", e.Provider, e.Operation, e.StatusCode)
}

// Is allows for error checking with errors.Is().
func (e *ErrProvider) Is(target error) bool {
	_, ok := target.(*ErrProvider)
	return ok
}

// NewProviderError creates a new ErrProvider from an HTTP status line.
func NewProviderError(provider, operation string, statusCode int, status string) *ErrProvider {
	return &ErrProvider{
		Provider:   provider,
		Operation:  operation,
		StatusCode: statusCode,
		Status:     status,
	}
}

// ErrParse indicates a structurally unusable document. Individual malformed
// blocks inside an otherwise parseable document never raise this.
type ErrParse struct {
	Reason string
}

// Error implements the error interface.
func (e *ErrParse) Error() string {
	return fmt.Sprintf("parse failed: %s", e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrParse) Is(target error) bool {
	_, ok := target.(*ErrParse)
	return ok
}

// ErrMapping indicates both id-mapping providers failed for reasons other
// than a missing mapping. It wraps the preferred provider's failure.
type ErrMapping struct {
	Primary  string
	Fallback string
	Err      error
}

// Error implements the error interface.
func (e *ErrMapping) Error() string {
	return fmt.Sprintf("both %s and %s mapping providers failed: %v", e.Primary, e.Fallback, e.Err)
}

// Unwrap exposes the preferred provider's original failure.
func (e *ErrMapping) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrMapping) Is(target error) bool {
	_, ok := target.(*ErrMapping)
	return ok
}

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}
