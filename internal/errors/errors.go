// Package errors provides custom error types for the chatdeck API client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrNoCredentials   = errors.New("no credentials found")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrSessionNotFound = errors.New("session not found")
)

// AuthError represents an authentication failure (401/403 or missing token)
type AuthError struct {
	Message    string
	HTTPStatus int
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: token may have expired"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

// APIError represents a non-2xx response from the platform
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// WithBody attaches the (truncated) response body for diagnostics
func (e *APIError) WithBody(body string) *APIError {
	const maxBody = 4096
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	e.Body = body
	return e
}

// NetworkError represents a transport-level failure before a response arrived
type NetworkError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s at %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(op, endpoint string, err error) *NetworkError {
	return &NetworkError{Op: op, Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request or stream deadline being exceeded
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return errors.Is(err, ErrAuthFailed)
}

// IsNetworkError reports whether err is a transport-level failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is a deadline failure
func IsTimeoutError(err error) bool {
	var toErr *TimeoutError
	return errors.As(err, &toErr)
}

// GetHTTPStatus extracts the HTTP status from an error, or 0 when absent
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.HTTPStatus
	}
	return 0
}
