// Package middleware holds gin middleware shared by the JSON routes.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"mathgames/internal/observability"
	contextutils "mathgames/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorRecoveryConfig configures error recovery behavior
type ErrorRecoveryConfig struct {
	// IncludeStack adds the stack trace to the error details in the response
	IncludeStack bool
	// SkipPaths are routes that recover their own panics
	SkipPaths []string
}

// DefaultErrorRecoveryConfig returns a default error recovery configuration
func DefaultErrorRecoveryConfig() *ErrorRecoveryConfig {
	return &ErrorRecoveryConfig{
		IncludeStack: gin.Mode() == gin.DebugMode,
	}
}

// ErrorRecoveryMiddleware turns a handler panic into a logged INTERNAL_SERVER_ERROR response
func ErrorRecoveryMiddleware(logger *observability.Logger, config *ErrorRecoveryConfig) gin.HandlerFunc {
	if config == nil {
		config = DefaultErrorRecoveryConfig()
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			stackTrace := string(debug.Stack())

			panicErr, ok := recovered.(error)
			if !ok {
				panicErr = contextutils.ErrorWithContextf("panic: %v", recovered)
			}

			logger.Error(c.Request.Context(), "Panic recovered", panicErr, map[string]interface{}{
				"http.method": c.Request.Method,
				"http.path":   c.Request.URL.Path,
				"stacktrace":  stackTrace,
			})

			appErr := contextutils.NewAppErrorWithCause(
				contextutils.ErrorCodeInternalError,
				contextutils.SeverityFatal,
				"Internal server error",
				"A panic occurred while processing the request",
				contextutils.WrapError(panicErr, "panic"),
			)
			if config.IncludeStack {
				appErr.Details = fmt.Sprintf("%s\nStack trace: %s", appErr.Details, stackTrace)
			}

			_ = c.Error(appErr)
			HandleAppError(c, appErr)
			c.Abort()
		}()

		c.Next()
	}
}

// HandleAppError handles any AppError and sends appropriate HTTP response
func HandleAppError(c *gin.Context, err error) {
	if appErr, ok := err.(*contextutils.AppError); ok {
		StandardizeAppError(c, appErr)
		return
	}
	StandardizeAppError(c, contextutils.NewAppError(
		contextutils.ErrorCodeInternalError,
		contextutils.SeverityError,
		"Internal server error",
		err.Error(),
	))
}

// StandardizeAppError sends a structured error response using AppError
func StandardizeAppError(c *gin.Context, err *contextutils.AppError) {
	errorJSON := err.ToJSON()
	errorJSON["retryable"] = contextutils.IsRetryable(err)
	c.JSON(HTTPStatusForCode(err.Code), errorJSON)
}

// HTTPStatusForCode maps AppError codes to HTTP status codes
func HTTPStatusForCode(code contextutils.ErrorCode) int {
	switch code {
	// 4xx Client Errors
	case contextutils.ErrorCodeInvalidInput, contextutils.ErrorCodeMissingRequired,
		contextutils.ErrorCodeInvalidFormat, contextutils.ErrorCodeValidationFailed:
		return http.StatusBadRequest

	case contextutils.ErrorCodeTimeout:
		return http.StatusRequestTimeout

	// 5xx Server Errors
	case contextutils.ErrorCodeServiceUnavailable, contextutils.ErrorCodeAIProviderUnavailable:
		return http.StatusServiceUnavailable

	case contextutils.ErrorCodeUnexpectedStatus:
		return http.StatusBadGateway

	case contextutils.ErrorCodeInternalError, contextutils.ErrorCodeAIRequestFailed,
		contextutils.ErrorCodeAIResponseInvalid, contextutils.ErrorCodeAIConfigInvalid:
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
