package observability

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FinishSpan ends a span and records any error pointed to by errPtr.
// Use with a named error return: `defer observability.FinishSpan(span, &err)`
func FinishSpan(span trace.Span, errPtr *error) {
	if span == nil {
		return
	}
	if errPtr != nil && *errPtr != nil {
		span.RecordError(*errPtr, trace.WithStackTrace(true))
		span.SetStatus(codes.Error, (*errPtr).Error())
	}
	span.End()
}

// RecordFallback marks a span whose operation recovered by serving local content.
// The span status stays unset because the caller still received a usable answer.
func RecordFallback(span trace.Span, outcome string, cause error) {
	if span == nil {
		return
	}
	span.SetAttributes(AttributeOutcome(outcome), attribute.Bool("fallback", true))
	if cause != nil {
		span.RecordError(cause)
	}
}
