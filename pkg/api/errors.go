package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeServerError    ErrorType = "server_error"
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeModelError     ErrorType = "model_error"
	ErrorTypeRateLimited    ErrorType = "rate_limited"
	ErrorTypeAuthFailed     ErrorType = "auth_failed"
)

// APIError represents a structured API error with type, code, param, and message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidRequestError creates an APIError for invalid request parameters.
func NewInvalidRequestError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeServerError,
		Message: message,
	}
}

// NewModelError creates an APIError for model-related errors, such as a
// response blocked by the backend's safety filters.
func NewModelError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeModelError,
		Message: message,
	}
}

// NewRateLimitedError creates an APIError for backend quota exhaustion.
func NewRateLimitedError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeRateLimited,
		Message: message,
	}
}

// NewAuthFailedError creates an APIError for backend credential rejection.
func NewAuthFailedError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeAuthFailed,
		Message: message,
	}
}

// RetryableError reports whether err indicates a per-credential failure
// (quota exhaustion or credential rejection) that is worth retrying with a
// different API key. Structured APIErrors are classified by type; untyped
// errors fall back to message inspection, matching the status literals and
// the "API key" complaint emitted by the generative backend.
//
// The "API key" substring match is deliberately broad: an untyped error that
// merely mentions API keys is treated as retryable even when the key itself
// is valid. Errors produced by the provider adapters are always typed, so
// the fallback only applies to errors from outside the adapter boundary.
func RetryableError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrorTypeRateLimited || apiErr.Type == ErrorTypeAuthFailed
	}

	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "403") ||
		strings.Contains(msg, "API key")
}
