package observability_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/byceps/announce/observability"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *observability.Metrics

	m.RecordEvent("tickets-sold")
	m.RecordDelivery("delivered", 0.2)
	m.RecordFailure("webhook_failure")
	m.JobScheduled()
	m.JobCompleted()
}

func TestTracerSpansWithGlobalProvider(t *testing.T) {
	tr := observability.NewTracer()

	ctx, span := tr.StartAnnounceSpan(context.Background(), "board-topic-created")
	if span == nil {
		t.Fatal("expected a span")
	}

	_, ds := tr.StartDeliverySpan(ctx, "board-topic-created", "whk_01h455vb4pex5vsknk084sn02q", "")
	tr.EndDeliverySpan(ds, 500, 12, errors.New("boom"))
	span.End()

	if !trace.SpanFromContext(ctx).SpanContext().Equal(span.SpanContext()) {
		t.Fatal("context must carry the announce span")
	}
}
