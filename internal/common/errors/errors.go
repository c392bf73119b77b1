// Package errors provides the standardized error type used across the assistant.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeLLMTransportFailed ErrorCode = "LLM_TRANSPORT_FAILED"
	ErrCodeLLMRateLimited     ErrorCode = "LLM_RATE_LIMITED"
	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMEmptyResponse   ErrorCode = "LLM_EMPTY_RESPONSE"

	ErrCodeStoreLoadFailed     ErrorCode = "STORE_LOAD_FAILED"
	ErrCodeTurnLogAppendFailed ErrorCode = "TURN_LOG_APPEND_FAILED"

	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	se := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		se.Details = cause.Error()
	}
	return se
}

// NewLLMTransportFailedError wraps a network or upstream failure of the model call.
func NewLLMTransportFailedError(err error) *StandardError {
	return newError(ErrCodeLLMTransportFailed, "Language model call failed", err, true)
}

// NewLLMRateLimitedError wraps a rate-limit rejection from the model provider.
func NewLLMRateLimitedError(err error) *StandardError {
	return newError(ErrCodeLLMRateLimited, "Language model rate limit reached", err, true)
}

// NewLLMTimeoutError wraps a deadline or cancellation of the model call.
func NewLLMTimeoutError(err error) *StandardError {
	return newError(ErrCodeLLMTimeout, "Language model call timed out", err, true)
}

// NewLLMEmptyResponseError reports a successful call that produced no text.
func NewLLMEmptyResponseError(err error) *StandardError {
	return newError(ErrCodeLLMEmptyResponse, "Language model returned no content", err, true)
}

// NewStoreLoadFailedError reports a dataset that could not be read.
func NewStoreLoadFailedError(source string, err error) *StandardError {
	se := newError(ErrCodeStoreLoadFailed, "Failed to load dataset", err, false)
	se.Metadata = map[string]interface{}{"source": source}
	return se
}

// NewTurnLogAppendFailedError reports a turn that could not be persisted.
func NewTurnLogAppendFailedError(err error) *StandardError {
	return newError(ErrCodeTurnLogAppendFailed, "Failed to append turn log entry", err, false)
}

// NewInvalidRequestError reports a caller-side validation failure.
func NewInvalidRequestError(details string) *StandardError {
	se := newError(ErrCodeInvalidRequest, "Invalid request", nil, false)
	se.Details = details
	return se
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeLLMTransportFailed, ErrCodeLLMRateLimited, ErrCodeLLMTimeout, ErrCodeLLMEmptyResponse:
		return true
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeLLMTransportFailed, ErrCodeLLMRateLimited, ErrCodeLLMEmptyResponse:
		return "EXTERNAL_SERVICE"
	case ErrCodeLLMTimeout:
		return "TIMEOUT"
	case ErrCodeStoreLoadFailed, ErrCodeTurnLogAppendFailed:
		return "STORAGE"
	case ErrCodeInvalidRequest:
		return "VALIDATION"
	default:
		return "UNKNOWN"
	}
}

// HTTPStatus maps an error code onto the status the HTTP surface returns.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeLLMRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeLLMTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeLLMTransportFailed, ErrCodeLLMEmptyResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
