// Package errors provides the error types shared by the companion core and
// the Gemini Web upstream adapter.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed           = errors.New("authentication failed")
	ErrCookiesExpired       = errors.New("cookies have expired")
	ErrNoCookies            = errors.New("no cookies found")
	ErrInvalidResponse      = errors.New("invalid response format")
	ErrNoContent            = errors.New("no content in response")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNothingToSend        = errors.New("nothing to send")
)

// ErrorCode represents known upstream error codes embedded in responses
type ErrorCode int

// Error codes observed in generate responses
const (
	ErrCodeUsageLimitExceeded ErrorCode = 1037
	ErrCodeModelInconsistent  ErrorCode = 1052
	ErrCodeModelHeaderInvalid ErrorCode = 1050
	ErrCodeIPBlocked          ErrorCode = 1060
)

// AuthError represents an authentication failure
type AuthError struct {
	Message  string
	Endpoint string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: cookies may have expired"
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

// NewAuthErrorWithEndpoint creates an AuthError tied to an endpoint
func NewAuthErrorWithEndpoint(message, endpoint string) *AuthError {
	return &AuthError{Message: message, Endpoint: endpoint}
}

// NetworkError represents a transport-level failure (request never produced
// a usable response)
type NetworkError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Op, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(op, endpoint string, err error) *NetworkError {
	return &NetworkError{Op: op, Endpoint: endpoint, Err: err}
}

// APIError represents an upstream request that failed with an HTTP status
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
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
	e.Body = body
	return e
}

// UsageLimitError represents a quota / rate-limit condition. It is expected
// to be transient; callers surface it as a "please wait" condition rather
// than a generic failure.
type UsageLimitError struct {
	Message string
	Model   string
}

func (e *UsageLimitError) Error() string {
	if e.Message == "" {
		return "usage limit exceeded"
	}
	return fmt.Sprintf("usage limit exceeded: %s", e.Message)
}

// Is allows comparison between UsageLimitErrors
func (e *UsageLimitError) Is(target error) bool {
	_, ok := target.(*UsageLimitError)
	return ok
}

// NewUsageLimitError creates a new UsageLimitError
func NewUsageLimitError(message string) *UsageLimitError {
	return &UsageLimitError{Message: message}
}

// ModelError represents a model-related error
type ModelError struct {
	Message string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model error: %s", e.Message)
}

// NewModelError creates a new ModelError
func NewModelError(message string) *ModelError {
	return &ModelError{Message: message}
}

// BlockedError represents an IP block error
type BlockedError struct {
	Message string
}

func (e *BlockedError) Error() string {
	if e.Message == "" {
		return "content blocked"
	}
	return fmt.Sprintf("content blocked: %s", e.Message)
}

// NewBlockedError creates a new BlockedError
func NewBlockedError(message string) *BlockedError {
	return &BlockedError{Message: message}
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

// FromErrorCode converts an upstream error code into the matching typed error
func FromErrorCode(code ErrorCode, endpoint, model string) error {
	switch code {
	case ErrCodeUsageLimitExceeded:
		return &UsageLimitError{
			Message: fmt.Sprintf("quota exhausted for model %s, try again later", model),
			Model:   model,
		}
	case ErrCodeModelInconsistent:
		return NewModelError("response model does not match requested model")
	case ErrCodeModelHeaderInvalid:
		return NewModelError(fmt.Sprintf("invalid model header for %s", model))
	case ErrCodeIPBlocked:
		return NewBlockedError("requests from this address are temporarily blocked")
	default:
		return NewAPIError(0, endpoint, fmt.Sprintf("unknown error code %d", code))
	}
}

// IsQuotaError reports whether err is a usage-limit condition
func IsQuotaError(err error) bool {
	var limit *UsageLimitError
	return errors.As(err, &limit)
}

// IsAuthError reports whether err indicates failed or expired authentication
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrCookiesExpired) {
		return true
	}
	var auth *AuthError
	return errors.As(err, &auth)
}

// IsNetworkError reports whether err is a transport-level failure
func IsNetworkError(err error) bool {
	var network *NetworkError
	return errors.As(err, &network)
}
