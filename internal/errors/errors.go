// Package errors provides custom error types for the sportchat client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrEmptyQuery      = errors.New("query cannot be empty")
	ErrClientClosed    = errors.New("client is closed")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// NetworkError represents a request that never completed
type NetworkError struct {
	Operation string
	Endpoint  string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is allows comparison with another NetworkError
func (e *NetworkError) Is(target error) bool {
	_, ok := target.(*NetworkError)
	return ok
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Cause: cause}
}

// NewNetworkErrorWithEndpoint creates a NetworkError that records the endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Cause: cause}
}

// ParseError represents a response body that could not be decoded
type ParseError struct {
	Message string
	Body    string
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

// NewParseError creates a new ParseError. The body is truncated for diagnostics.
func NewParseError(message string, body []byte) *ParseError {
	const maxBody = 512
	b := string(body)
	if len(b) > maxBody {
		b = b[:maxBody] + "..."
	}
	return &ParseError{Message: message, Body: b}
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Key, e.Message)
}

// Is allows comparison with sentinel errors
func (e *ConfigError) Is(target error) bool {
	if target == ErrInvalidConfig {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok
}

// NewConfigError creates a new ConfigError
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}

// IsNetworkError reports whether err is or wraps a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsParseError reports whether err is or wraps a ParseError
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsConfigError reports whether err is or wraps a ConfigError
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// GetEndpoint returns the endpoint recorded on a NetworkError, if any
func GetEndpoint(err error) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// Description returns the human readable failure text shown after
// "Failed to connect to backend: ". Network errors report their cause,
// parse errors their message, anything else its own text.
func Description(err error) string {
	if err == nil {
		return ""
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.Cause != nil {
		return netErr.Cause.Error()
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Message
	}

	return err.Error()
}
