package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/paleotrace/platedrift/internal/logging"
)

const tracerName = "github.com/paleotrace/platedrift/internal/httpapi"

// StartSpan starts a server span for an API operation, annotated with the
// request ID when one is on the context.
func StartSpan(ctx context.Context, operation string, extra ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)

	attrs := make([]attribute.KeyValue, 0, len(extra)+1)
	if reqID := logging.RequestIDFromContext(ctx); reqID != "" {
		attrs = append(attrs, attribute.String("request_id", reqID))
	}
	attrs = append(attrs, extra...)

	return tracer.Start(ctx, "API/"+operation,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
}
