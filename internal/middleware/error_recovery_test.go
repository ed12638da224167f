package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mathgames/internal/observability"
	contextutils "mathgames/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorRecoveryMiddleware_PanicRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.ErrorLevel)
	logger := &observability.Logger{Logger: zap.New(core)}

	router := gin.New()
	router.Use(ErrorRecoveryMiddleware(logger, &ErrorRecoveryConfig{}))
	router.GET("/panic", func(_ *gin.Context) {
		panic("test panic")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body["code"])
	assert.Equal(t, "fatal", body["severity"])
	assert.NotContains(t, body["details"], "Stack trace")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}

func TestErrorRecoveryMiddleware_PanicWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorRecoveryMiddleware(nil, &ErrorRecoveryConfig{IncludeStack: true}))
	router.GET("/panic", func(_ *gin.Context) {
		panic(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Stack trace")
}

func TestErrorRecoveryMiddleware_NormalRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ErrorRecoveryMiddleware(nil, nil))
	router.GET("/normal", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/normal", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorRecoveryMiddleware_SkipPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.String(http.StatusTeapot, "outer")
	}))
	router.Use(ErrorRecoveryMiddleware(nil, &ErrorRecoveryConfig{SkipPaths: []string{"/own"}}))
	router.GET("/own", func(_ *gin.Context) {
		panic("handled elsewhere")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/own", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestHandleAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		retryable  bool
	}{
		{"validation", contextutils.ErrValidationFailed, http.StatusBadRequest, false},
		{"timeout", contextutils.ErrTimeout, http.StatusRequestTimeout, true},
		{"unavailable", contextutils.ErrServiceUnavailable, http.StatusServiceUnavailable, true},
		{"bad gateway", contextutils.ErrUnexpectedStatus, http.StatusBadGateway, false},
		{"plain error", errors.New("plain"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			HandleAppError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.retryable, body["retryable"])
		})
	}
}
