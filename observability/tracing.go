// Package observability provides metrics and OpenTelemetry tracing for the
// announcement pipeline.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/byceps/announce"

// Tracer provides OpenTelemetry tracing for the pipeline.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer from the global provider.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(tracerName),
	}
}

// StartAnnounceSpan starts the span covering the fan-out of one event.
func (t *Tracer) StartAnnounceSpan(ctx context.Context, eventName string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "announce.event",
		trace.WithAttributes(
			attribute.String("announce.event_name", eventName),
		),
	)
}

// StartDeliverySpan starts a span for one POST to a webhook. jobID is
// empty for immediate deliveries.
func (t *Tracer) StartDeliverySpan(ctx context.Context, eventName, webhookID, jobID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("announce.event_name", eventName),
		attribute.String("announce.webhook_id", webhookID),
	}
	if jobID != "" {
		attrs = append(attrs, attribute.String("announce.job_id", jobID))
	}
	return t.tracer.Start(ctx, "announce.delivery", trace.WithAttributes(attrs...))
}

// EndDeliverySpan ends a delivery span with result attributes.
func (t *Tracer) EndDeliverySpan(span trace.Span, statusCode, latencyMs int, err error) {
	span.SetAttributes(
		attribute.Int("http.status_code", statusCode),
		attribute.Int("announce.latency_ms", latencyMs),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
