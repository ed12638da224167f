// Package services provides the story generation service behind the word problem endpoint.
package services

import (
	"context"
	"net/http"

	"mathgames/internal/config"
	"mathgames/internal/models"
	"mathgames/internal/observability"
	contextutils "mathgames/internal/utils"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Outcome names how a story was produced
type Outcome string

// Outcome values. Everything except OutcomeUpstream means the fallback was served.
const (
	OutcomeUpstream       Outcome = "upstream"
	OutcomeNoCredential   Outcome = "no_credential"
	OutcomeHTTPError      Outcome = "http_error"
	OutcomeEmptyText      Outcome = "empty_text"
	OutcomeInvalidJSON    Outcome = "invalid_json"
	OutcomeInvalidSchema  Outcome = "invalid_schema"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeCircuitOpen    Outcome = "circuit_open"
	OutcomeInternalError  Outcome = "internal_error"
)

// StoryGeneratorInterface narrates a problem spec. Generate never fails: every upstream problem
// is absorbed into the local fallback story.
type StoryGeneratorInterface interface {
	Generate(ctx context.Context, spec models.ProblemSpec) (*models.StoryPayload, Outcome)
}

// StoryGenerationService narrates word problems through the upstream generative text service
type StoryGenerationService struct {
	cfg        config.GenerationConfig
	httpClient *http.Client
	templates  *PromptTemplates
	breaker    *CircuitBreaker
	outcomes   metric.Int64Counter
	logger     *observability.Logger
}

var _ StoryGeneratorInterface = (*StoryGenerationService)(nil)

// NewStoryGenerationService creates the service. An empty credential is valid and puts the
// service in pure-fallback mode.
func NewStoryGenerationService(cfg config.GenerationConfig, logger *observability.Logger) (result0 *StoryGenerationService, err error) {
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	templates, err := NewPromptTemplates()
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to parse prompt templates: %w", err)
	}

	outcomes, err := observability.Meter().Int64Counter("story.generation.outcomes",
		metric.WithDescription("Word problem stories served, by how they were produced"),
	)
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create outcome counter: %w", err)
	}

	// The upstream bound sits below the requester timeout so a slow upstream still
	// leaves time to answer with the fallback.
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.UpstreamRequestTimeout
	}
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
		),
	}

	return &StoryGenerationService{
		cfg:        cfg,
		httpClient: httpClient,
		templates:  templates,
		breaker:    NewCircuitBreaker(cfg.CircuitBreakerThreshold, cfg.CircuitBreakerTimeout),
		outcomes:   outcomes,
		logger:     logger,
	}, nil
}

// HasCredential reports whether upstream generation is enabled
func (s *StoryGenerationService) HasCredential() bool {
	return s.cfg.HasCredential()
}

// Generate returns a complete story for spec and how it was produced
func (s *StoryGenerationService) Generate(ctx context.Context, spec models.ProblemSpec) (result *models.StoryPayload, outcome Outcome) {
	attrs := append(observability.AttributeOperands(spec.Num1, spec.Num2), observability.AttributeOperation(string(spec.Operation)))
	ctx, span := observability.TraceStoryFunction(ctx, "generate", attrs...)
	defer span.End()

	// Computed first so every later failure has an answer ready
	fallback := FallbackStory(spec)

	defer func() {
		span.SetAttributes(observability.AttributeOutcome(string(outcome)))
		s.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(outcome))))
	}()

	if !s.cfg.HasCredential() {
		s.logger.Debug(ctx, "No upstream credential configured, serving fallback story", nil)
		return fallback, OutcomeNoCredential
	}

	if !s.breaker.Allow() {
		observability.RecordFallback(span, string(OutcomeCircuitOpen), nil)
		s.logger.Warn(ctx, "Upstream circuit open, serving fallback story", map[string]interface{}{
			"breaker_state": s.breaker.State(),
		})
		return fallback, OutcomeCircuitOpen
	}

	text, outcome, err := s.callUpstream(ctx, spec)
	switch outcome {
	case OutcomeTransportError, OutcomeHTTPError:
		s.breaker.RecordFailure()
	case OutcomeInternalError:
		// never reached the upstream
	default:
		s.breaker.RecordSuccess()
	}
	if err != nil {
		observability.RecordFallback(span, string(outcome), err)
		s.logger.Error(ctx, "Upstream story request failed, serving fallback story", err, map[string]interface{}{
			"outcome": string(outcome),
		})
		return fallback, outcome
	}

	parsed, outcome, err := parseStoryText(text)
	if err != nil {
		observability.RecordFallback(span, string(outcome), err)
		s.logger.Warn(ctx, "Upstream story rejected, serving fallback story", map[string]interface{}{
			"outcome": string(outcome),
			"error":   err.Error(),
		})
		return fallback, outcome
	}

	if parsed.Emoji == "" {
		parsed.Emoji = fallback.Emoji
	}
	if parsed.Encouragement == "" {
		parsed.Encouragement = fallback.Encouragement
	}
	return parsed, OutcomeUpstream
}
