package contextutils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "error with details",
			appError: &AppError{
				Code:     ErrorCodeInvalidInput,
				Severity: SeverityError,
				Message:  "Invalid input",
				Details:  "Field 'operation' is required",
			},
			expected: "INVALID_INPUT: Invalid input - Field 'operation' is required",
		},
		{
			name: "error without details",
			appError: &AppError{
				Code:     ErrorCodeTimeout,
				Severity: SeverityWarn,
				Message:  "Request timeout",
			},
			expected: "REQUEST_TIMEOUT: Request timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	appErr := &AppError{
		Code:     ErrorCodeInternalError,
		Severity: SeverityError,
		Message:  "Internal error",
		Cause:    cause,
	}

	assert.Equal(t, cause, appErr.Unwrap())
}

func TestAppError_Is(t *testing.T) {
	err1 := &AppError{Code: ErrorCodeInvalidInput}
	err2 := &AppError{Code: ErrorCodeInvalidInput}
	err3 := &AppError{Code: ErrorCodeTimeout}

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
	assert.False(t, errors.Is(err1, errors.New("plain")))
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "ignored"))

	wrapped := WrapError(ErrTimeout, "story request")
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrorCodeTimeout, appErr.Code)
	assert.Equal(t, "story request", appErr.Message)
	assert.True(t, errors.Is(wrapped, ErrTimeout))

	plain := WrapError(errors.New("boom"), "context")
	require.True(t, errors.As(plain, &appErr))
	assert.Equal(t, ErrorCodeInternalError, appErr.Code)
	assert.Equal(t, "boom", appErr.Details)
}

func TestWrapErrorf(t *testing.T) {
	wrapped := WrapErrorf(ErrUnexpectedStatus, "endpoint returned %d", 500)
	assert.True(t, IsError(wrapped, ErrUnexpectedStatus))
	assert.Contains(t, wrapped.Error(), "endpoint returned 500")

	cause := errors.New("dial tcp: refused")
	withVerb := WrapErrorf(cause, "request failed: %w", cause)
	assert.True(t, errors.Is(withVerb, cause))
}

func TestErrorWithContextf(t *testing.T) {
	err := ErrorWithContextf("bad value %d", 7)
	assert.Equal(t, ErrorCodeInternalError, GetErrorCode(err))
	assert.Contains(t, err.Error(), "bad value 7")
}

func TestGetErrorCodeAndSeverity(t *testing.T) {
	assert.Equal(t, ErrorCodeAIResponseInvalid, GetErrorCode(ErrAIResponseInvalid))
	assert.Equal(t, ErrorCodeInternalError, GetErrorCode(errors.New("x")))
	assert.Equal(t, SeverityWarn, GetErrorSeverity(ErrInvalidInput))
	assert.Equal(t, SeverityError, GetErrorSeverity(errors.New("x")))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", ErrTimeout, true},
		{"service unavailable", ErrServiceUnavailable, true},
		{"provider unavailable", ErrAIProviderUnavailable, true},
		{"fatal timeout", &AppError{Code: ErrorCodeTimeout, Severity: SeverityFatal}, false},
		{"invalid input", ErrInvalidInput, false},
		{"plain error", errors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestAppError_ToJSON(t *testing.T) {
	appErr := NewAppErrorWithCause(ErrorCodeInternalError, SeverityError, "Internal", "details", errors.New("cause"))
	out := appErr.ToJSON()

	assert.Equal(t, "INTERNAL_SERVER_ERROR", out["code"])
	assert.Equal(t, "Internal", out["message"])
	assert.Equal(t, "Internal", out["error"])
	assert.Equal(t, "details", out["details"])
	assert.Equal(t, "cause", out["cause"])
	assert.Equal(t, false, out["retryable"])

	warn := NewAppError(ErrorCodeInvalidInput, SeverityWarn, "Invalid", "")
	out = warn.ToJSON()
	assert.NotContains(t, out, "details")
	assert.NotContains(t, out, "cause")
}
