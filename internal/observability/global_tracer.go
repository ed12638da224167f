package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var globalTracer trace.Tracer

// InitGlobalTracer initializes the global tracer for the application.
func InitGlobalTracer() {
	globalTracer = otel.Tracer(InstrumentationName)
}

// GetGlobalTracer returns the global tracer instance for the application.
func GetGlobalTracer() trace.Tracer {
	if globalTracer == nil {
		globalTracer = otel.Tracer(InstrumentationName)
	}
	return globalTracer
}

// TraceFunction starts a new span with a descriptive name for the given service and function.
func TraceFunction(ctx context.Context, serviceName, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := GetGlobalTracer()
	spanName := fmt.Sprintf("%s.%s", serviceName, functionName)
	return tracer.Start(ctx, spanName, trace.WithAttributes(attributes...))
}

// TraceStoryFunction starts a new span for the story generation service.
func TraceStoryFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "story", functionName, attributes...)
}

// TraceRequesterFunction starts a new span for the content requester.
func TraceRequesterFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "requester", functionName, attributes...)
}

// TraceHandlerFunction starts a new span for a handler function.
func TraceHandlerFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "handler", functionName, attributes...)
}

// TracePuzzleFunction starts a new span for puzzle generation.
func TracePuzzleFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "puzzle", functionName, attributes...)
}

// TraceWorksheetFunction starts a new span for worksheet rendering.
func TraceWorksheetFunction(ctx context.Context, functionName string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	return TraceFunction(ctx, "worksheet", functionName, attributes...)
}

// AttributeOperation returns a tracing attribute for an arithmetic operation.
func AttributeOperation(op string) attribute.KeyValue {
	return attribute.String("problem.operation", op)
}

// AttributeOperands returns tracing attributes for both operands of a problem.
func AttributeOperands(num1, num2 int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("problem.num1", num1),
		attribute.Int("problem.num2", num2),
	}
}

// AttributeOutcome returns a tracing attribute describing how a story was produced.
func AttributeOutcome(outcome string) attribute.KeyValue {
	return attribute.String("story.outcome", outcome)
}

// AttributeActivity returns a tracing attribute for a puzzle activity name.
func AttributeActivity(activity string) attribute.KeyValue {
	return attribute.String("puzzle.activity", activity)
}

// AttributeSeed returns a tracing attribute for a deterministic puzzle seed.
func AttributeSeed(seed int64) attribute.KeyValue {
	return attribute.Int64("puzzle.seed", seed)
}
