package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestLogger struct {
	messages []string
	fields   []map[string]interface{}
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
	l.fields = append(l.fields, fields)
}

func TestConstructors(t *testing.T) {
	cause := stderrors.New("boom")

	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
		status    int
		category  string
	}{
		{"transport", NewLLMTransportFailedError(cause), ErrCodeLLMTransportFailed, true, http.StatusBadGateway, "EXTERNAL_SERVICE"},
		{"rate limited", NewLLMRateLimitedError(cause), ErrCodeLLMRateLimited, true, http.StatusTooManyRequests, "EXTERNAL_SERVICE"},
		{"timeout", NewLLMTimeoutError(cause), ErrCodeLLMTimeout, true, http.StatusGatewayTimeout, "TIMEOUT"},
		{"empty", NewLLMEmptyResponseError(cause), ErrCodeLLMEmptyResponse, true, http.StatusBadGateway, "EXTERNAL_SERVICE"},
		{"store", NewStoreLoadFailedError("file", cause), ErrCodeStoreLoadFailed, false, http.StatusInternalServerError, "STORAGE"},
		{"turn log", NewTurnLogAppendFailedError(cause), ErrCodeTurnLogAppendFailed, false, http.StatusInternalServerError, "STORAGE"},
		{"internal", NewInternalError(cause), ErrCodeInternal, false, http.StatusInternalServerError, "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.Equal(t, tt.retryable, IsRetryableErrorCode(tt.code))
			assert.Equal(t, tt.status, HTTPStatus(tt.code))
			assert.Equal(t, tt.category, GetErrorCategory(tt.code))
			assert.Equal(t, "boom", tt.err.Details)
			assert.ErrorIs(t, tt.err, cause)
			assert.Contains(t, tt.err.Error(), string(tt.code))
		})
	}
}

func TestNewInvalidRequestError(t *testing.T) {
	err := NewInvalidRequestError("message: is required")
	assert.Equal(t, ErrCodeInvalidRequest, err.Code)
	assert.Equal(t, "message: is required", err.Details)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err.Code))
	assert.Equal(t, "VALIDATION", GetErrorCategory(err.Code))
	assert.Nil(t, stderrors.Unwrap(err))
}

func TestStoreLoadFailedMetadata(t *testing.T) {
	err := NewStoreLoadFailedError("postgres", stderrors.New("refused"))
	assert.Equal(t, "postgres", err.Metadata["source"])
}

func TestNormalize(t *testing.T) {
	std := NewLLMTimeoutError(stderrors.New("deadline"))
	wrapped := fmt.Errorf("turn failed: %w", std)
	assert.Same(t, std, Normalize(wrapped))

	plain := Normalize(stderrors.New("plain"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "plain", plain.Details)
}

func TestErrorHandler_Handle(t *testing.T) {
	log := &TestLogger{}
	h := NewErrorHandler(log)

	stdErr := h.Handle("llm call failed", NewLLMRateLimitedError(stderrors.New("429")), map[string]interface{}{
		"requestId": "abc",
	})

	assert.Equal(t, ErrCodeLLMRateLimited, stdErr.Code)
	require.Len(t, log.messages, 1)
	assert.Equal(t, "llm call failed", log.messages[0])
	assert.Equal(t, "LLM_RATE_LIMITED", log.fields[0]["errorCode"])
	assert.Equal(t, "EXTERNAL_SERVICE", log.fields[0]["errorCategory"])
	assert.Equal(t, true, log.fields[0]["retryable"])
	assert.Equal(t, "abc", log.fields[0]["requestId"])
}
