package model

import (
	"errors"
	"fmt"
)

// Standard error codes.
const (
	ErrNetwork       = "NETWORK_ERROR"
	ErrParse         = "PARSE_ERROR"
	ErrInvalidConfig = "INVALID_CONFIG"
)

// ErrorEnvelope is the typed error surfaced by the fetch layer. It carries a
// stable code so callers can classify failures without string matching.
// It implements the error interface.
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	cause error
}

// Error implements the error interface.
func (e *ErrorEnvelope) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *ErrorEnvelope) Unwrap() error {
	return e.cause
}

// NewNetworkError wraps a transport or connectivity failure.
func NewNetworkError(cause error) *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrNetwork,
		Message: "The backend could not be reached",
		cause:   cause,
	}
}

// NewParseError wraps a malformed response body.
func NewParseError(cause error) *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrParse,
		Message: "The backend response could not be parsed",
		cause:   cause,
	}
}

// NewConfigError reports an invalid controller configuration.
func NewConfigError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrInvalidConfig, Message: msg}
}

// HasCode reports whether err is an ErrorEnvelope with the given code.
func HasCode(err error, code string) bool {
	var env *ErrorEnvelope
	if errors.As(err, &env) {
		return env.Code == code
	}
	return false
}
