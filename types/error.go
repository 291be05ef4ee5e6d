package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the gateway.
type ErrorCode string

// Generation error codes
const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrUnknownProvider    ErrorCode = "UNKNOWN_PROVIDER"
	ErrGenerationDisabled ErrorCode = "GENERATION_DISABLED"
	ErrCredentialMissing  ErrorCode = "CREDENTIAL_MISSING"
	ErrProviderError      ErrorCode = "PROVIDER_ERROR"
	ErrTimeout            ErrorCode = "TIMEOUT"
	ErrInternalError      ErrorCode = "INTERNAL_ERROR"
)

// Outcome is the coarse class an error code belongs to. The invoking layer maps
// outcomes onto its own transport status convention.
type Outcome string

const (
	OutcomeBadInput  Outcome = "bad_input"
	OutcomeForbidden Outcome = "forbidden"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeUpstream  Outcome = "upstream_failure"
	OutcomeTimeout   Outcome = "timeout"
	OutcomeInternal  Outcome = "internal"
)

// OutcomeOf returns the outcome class for code. Unknown codes are internal.
func OutcomeOf(code ErrorCode) Outcome {
	switch code {
	case ErrInvalidRequest, ErrUnknownProvider:
		return OutcomeBadInput
	case ErrGenerationDisabled:
		return OutcomeForbidden
	case ErrCredentialMissing:
		return OutcomeNotFound
	case ErrProviderError:
		return OutcomeUpstream
	case ErrTimeout:
		return OutcomeTimeout
	default:
		return OutcomeInternal
	}
}

// Error represents a structured error with code, message, and metadata.
// Message must never contain credential material.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Code)
	if e.Provider != "" {
		prefix += " " + e.Provider
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", prefix, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Outcome returns the outcome class of the error's code.
func (e *Error) Outcome() Outcome {
	return OutcomeOf(e.Code)
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithProvider sets the provider name.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetErrorCode(err) == code
}
