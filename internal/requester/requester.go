// Package requester calls the story endpoint with a hard upper bound on wait time.
package requester

import (
	"context"
	"net/http"
	"time"

	"mathgames/internal/config"
	"mathgames/internal/models"
	"mathgames/internal/observability"
	contextutils "mathgames/internal/utils"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

// Errors returned by Generate. Match them with errors.Is.
var (
	// ErrRequestTimeout is returned when the timer wins the race against the call
	ErrRequestTimeout = contextutils.ErrTimeout
	// ErrUnexpectedStatus is returned for any non-2xx reply
	ErrUnexpectedStatus = contextutils.ErrUnexpectedStatus
	// ErrTransport is returned when the call itself failed or the caller cancelled
	ErrTransport = contextutils.ErrServiceUnavailable
	// ErrInvalidResponse is returned when a 2xx reply does not carry a complete story
	ErrInvalidResponse = contextutils.ErrInvalidFormat
)

// Requester issues one story request per call and never blocks longer than its timeout
type Requester struct {
	cfg    config.RequesterConfig
	client *resty.Client
	group  singleflight.Group
	logger *observability.Logger
}

// New creates a requester with an instrumented HTTP transport
func New(cfg config.RequesterConfig, logger *observability.Logger) *Requester {
	return NewWithHTTPClient(cfg, logger, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

// NewWithHTTPClient creates a requester on top of an existing client.
// The client's own timeout is left alone; the requester enforces cfg.Timeout itself.
func NewWithHTTPClient(cfg config.RequesterConfig, logger *observability.Logger, httpClient *http.Client) *Requester {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.RequesterTimeout
	}
	if cfg.EndpointURL == "" {
		cfg.EndpointURL = config.DefaultRequesterEndpoint
	}

	client := resty.NewWithClient(httpClient).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0)

	return &Requester{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Timeout returns the bound applied to every call
func (r *Requester) Timeout() time.Duration {
	return r.cfg.Timeout
}

type callResult struct {
	payload *models.StoryPayload
	err     error
}

// Generate asks the endpoint to narrate num1 op num2. It returns a complete story or an error;
// it never substitutes content of its own (see LocalStory for the caller-side fallback).
func (r *Requester) Generate(ctx context.Context, num1, num2 int, op models.Operation, forcedEmoji string) (result0 *models.StoryPayload, err error) {
	spec := models.ProblemSpec{Num1: num1, Num2: num2, Operation: op, ForcedEmoji: forcedEmoji}

	attrs := append(observability.AttributeOperands(num1, num2),
		observability.AttributeOperation(string(op)),
		attribute.Bool("requester.coalesce", r.cfg.Coalesce),
	)
	ctx, span := observability.TraceRequesterFunction(ctx, "generate", attrs...)
	defer observability.FinishSpan(span, &err)

	if err := contextutils.ValidateStruct(spec); err != nil {
		return nil, err
	}

	if !r.cfg.Coalesce {
		return r.race(ctx, spec)
	}

	// The shared call outlives any single caller; the race timer still bounds it.
	sharedCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(spec.Fingerprint(), func() (interface{}, error) {
		return r.race(sharedCtx, spec)
	})

	select {
	case res := <-ch:
		span.SetAttributes(attribute.Bool("requester.shared", res.Shared))
		if res.Err != nil {
			return nil, res.Err
		}
		// every waiter gets its own copy
		return res.Val.(*models.StoryPayload).Clone(), nil
	case <-ctx.Done():
		return nil, abandoned(ctx)
	}
}

// abandoned reports a caller cancellation as a transport failure, keeping ctx.Err() in the chain
func abandoned(ctx context.Context) error {
	return contextutils.WrapErrorf(ErrTransport, "story request abandoned: %w", ctx.Err())
}

// race runs the call against an independent timer. The timer is authoritative: when it fires the
// call is cancelled and Generate returns at once, whether or not the call honours cancellation.
func (r *Requester) race(ctx context.Context, spec models.ProblemSpec) (*models.StoryPayload, error) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan callResult, 1)
	go func() {
		payload, err := r.call(callCtx, spec)
		results <- callResult{payload: payload, err: err}
	}()

	timer := time.NewTimer(r.cfg.Timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		return res.payload, res.err
	case <-timer.C:
		cancel()
		r.logger.Warn(ctx, "Story request timed out", map[string]interface{}{
			"timeout":  r.cfg.Timeout.String(),
			"endpoint": r.cfg.EndpointURL,
		})
		return nil, contextutils.WrapErrorf(ErrRequestTimeout, "story request exceeded %v", r.cfg.Timeout)
	case <-ctx.Done():
		return nil, abandoned(ctx)
	}
}

// call performs the HTTP exchange
func (r *Requester) call(ctx context.Context, spec models.ProblemSpec) (*models.StoryPayload, error) {
	var out models.StoryPayload
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(spec).
		SetResult(&out).
		Post(r.cfg.EndpointURL)
	if err != nil {
		r.logger.Warn(ctx, "Story request failed", map[string]interface{}{"error": err.Error()})
		return nil, contextutils.WrapErrorf(ErrTransport, "story request failed: %w", err)
	}
	if !resp.IsSuccess() {
		r.logger.Warn(ctx, "Story endpoint returned non-2xx", map[string]interface{}{
			"status": resp.StatusCode(),
			"body":   resp.String(),
		})
		return nil, contextutils.WrapErrorf(ErrUnexpectedStatus, "API Error: %d", resp.StatusCode())
	}
	if !out.IsComplete() {
		return nil, contextutils.WrapError(ErrInvalidResponse, "story response is missing story or steps")
	}
	return &out, nil
}
