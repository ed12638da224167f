package observability

import (
	"context"
	"errors"
	"os"

	"mathgames/internal/config"

	autosdk "go.opentelemetry.io/auto/sdk"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

// Telemetry bundles the providers created by SetupObservability.
// TracerProvider and MeterProvider are nil when the matching signal is disabled.
type Telemetry struct {
	TracerProvider trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *Logger
}

// Shutdown flushes and stops every provider that supports it
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if sdkTP, ok := t.TracerProvider.(*sdktrace.TracerProvider); ok {
		errs = append(errs, sdkTP.Shutdown(ctx))
	}
	if t.MeterProvider != nil {
		errs = append(errs, t.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// SetupObservability initializes tracing, metrics, and logging for a service
func SetupObservability(cfg *config.OpenTelemetryConfig, serviceName string, level zapcore.Level) (result0 *Telemetry, err error) {
	if serviceName != "" {
		cfg.ServiceName = serviceName
	}

	if err := os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName); err != nil {
		return nil, err
	}
	if err := os.Setenv("OTEL_SERVICE_VERSION", cfg.ServiceVersion); err != nil {
		return nil, err
	}

	telemetry := &Telemetry{Logger: NewLoggerWithLevel(cfg, level)}
	logger := telemetry.Logger

	if cfg.EnableTracing {
		if cfg.UseAutoSDK {
			telemetry.TracerProvider = autosdk.TracerProvider()
			logger.Info(context.Background(), "Tracing enabled with Auto SDK", map[string]interface{}{"service_name": cfg.ServiceName})
		} else {
			tp, err := InitStandardTracing(cfg)
			if err != nil {
				return nil, err
			}
			telemetry.TracerProvider = tp
			logger.Info(context.Background(), "Tracing enabled with standard SDK", map[string]interface{}{"service_name": cfg.ServiceName})
		}
		otel.SetTracerProvider(telemetry.TracerProvider)

		InitPropagation()
		InitGlobalTracer()
	}

	if cfg.EnableMetrics {
		mp, err := InitMetrics(cfg)
		if err != nil {
			return nil, err
		}
		otel.SetMeterProvider(mp)
		telemetry.MeterProvider = mp
	}

	return telemetry, nil
}
