package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"mathgames/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	autosdk "go.opentelemetry.io/auto/sdk"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

func testOTelConfig() *config.OpenTelemetryConfig {
	return &config.OpenTelemetryConfig{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Protocol:       "grpc",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SamplingRate:   1.0,
	}
}

func TestSetupObservability_AllEnabled(t *testing.T) {
	cfg := testOTelConfig()
	cfg.EnableTracing = true
	cfg.EnableMetrics = true
	cfg.EnableLogging = true

	telemetry, err := SetupObservability(cfg, "test-service", zap.InfoLevel)
	require.NoError(t, err)
	require.NotNil(t, telemetry.TracerProvider)
	require.NotNil(t, telemetry.MeterProvider)
	require.NotNil(t, telemetry.Logger)
}

func TestTelemetry_ShutdownFlushesToCollector(t *testing.T) {
	var mu sync.Mutex
	paths := map[string]int{}
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths[r.URL.Path]++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	cfg := testOTelConfig()
	cfg.Protocol = "http"
	cfg.Endpoint = strings.TrimPrefix(collector.URL, "http://")
	cfg.EnableTracing = true
	cfg.EnableMetrics = true

	telemetry, err := SetupObservability(cfg, "test-service", zap.InfoLevel)
	require.NoError(t, err)

	_, span := telemetry.TracerProvider.Tracer("test").Start(context.Background(), "flush-me")
	span.End()
	counter, err := telemetry.MeterProvider.Meter("test").Int64Counter("test.flushes")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, telemetry.Shutdown(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Positive(t, paths["/v1/traces"])
	assert.Positive(t, paths["/v1/metrics"])
}

func TestSetupObservability_NoneEnabled(t *testing.T) {
	telemetry, err := SetupObservability(testOTelConfig(), "test-service", zap.InfoLevel)
	require.NoError(t, err)
	require.Nil(t, telemetry.TracerProvider)
	require.Nil(t, telemetry.MeterProvider)
	// Logger is always returned (no-op when disabled)
	require.NotNil(t, telemetry.Logger)
	assert.NoError(t, telemetry.Shutdown(context.Background()))
}

func TestSetupObservability_OverridesServiceName(t *testing.T) {
	cfg := testOTelConfig()
	_, err := SetupObservability(cfg, "mathgames-cli", zap.InfoLevel)
	require.NoError(t, err)
	assert.Equal(t, "mathgames-cli", cfg.ServiceName)
}

func TestLogger_TraceCorrelation(_ *testing.T) {
	logger := NewLogger(&config.OpenTelemetryConfig{EnableLogging: true})
	ctx := context.Background()
	logger.Info(ctx, "test message")
	logger.Error(ctx, "test error", nil)
	ctx, span := noop.NewTracerProvider().Tracer("test").Start(ctx, "test-span")
	logger.Info(ctx, "test message with span")
	span.End()
}

func TestSetupObservability_UseAutoSDK(t *testing.T) {
	cfg := testOTelConfig()
	cfg.EnableTracing = true
	cfg.UseAutoSDK = true

	telemetry, err := SetupObservability(cfg, "test-service", zap.InfoLevel)
	require.NoError(t, err)
	require.NotNil(t, telemetry.TracerProvider)

	_, isStandardSDK := telemetry.TracerProvider.(*sdktrace.TracerProvider)
	require.False(t, isStandardSDK, "Expected Auto SDK TracerProvider, got standard SDK")
	require.Equal(t, reflect.TypeOf(autosdk.TracerProvider()), reflect.TypeOf(telemetry.TracerProvider))
}

func TestSetupObservability_StandardSDK(t *testing.T) {
	cfg := testOTelConfig()
	cfg.EnableTracing = true

	telemetry, err := SetupObservability(cfg, "test-service", zap.InfoLevel)
	require.NoError(t, err)

	_, isStandardSDK := telemetry.TracerProvider.(*sdktrace.TracerProvider)
	require.True(t, isStandardSDK, "Expected standard SDK TracerProvider when UseAutoSDK is false")
	assert.NoError(t, telemetry.Shutdown(context.Background()))
}

func TestInitStandardTracing_Protocols(t *testing.T) {
	tests := []struct {
		name     string
		protocol string
		endpoint string
		wantErr  bool
	}{
		{"grpc", "grpc", "localhost:4317", false},
		{"http", "http", "localhost:4318", false},
		{"invalid", "invalid", "localhost:4317", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testOTelConfig()
			cfg.Protocol = tt.protocol
			cfg.Endpoint = tt.endpoint

			tp, err := InitStandardTracing(cfg)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, tp)
				require.Contains(t, err.Error(), "unsupported otel protocol")
				return
			}
			require.NoError(t, err)
			_, ok := tp.(*sdktrace.TracerProvider)
			require.True(t, ok, "Expected *sdktrace.TracerProvider")
		})
	}
}

func TestInitMetrics_InvalidProtocol(t *testing.T) {
	cfg := testOTelConfig()
	cfg.Protocol = "carrier-pigeon"

	mp, err := InitMetrics(cfg)
	require.Error(t, err)
	require.Nil(t, mp)
}
