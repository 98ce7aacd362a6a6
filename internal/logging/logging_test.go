package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/byceps/announce/internal/logging"
)

func TestTraceHandlerAddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewTraceHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := logging.WithLogFields(context.Background(), logging.LogFields{EventName: "tickets-sold"})
	ctx = logging.WithLogFields(ctx, logging.LogFields{WebhookID: "whk_1"})

	logger.InfoContext(ctx, "sent")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["event_name"] != "tickets-sold" || rec["webhook_id"] != "whk_1" {
		t.Fatalf("record = %v", rec)
	}
	if _, ok := rec["trace_id"]; ok {
		t.Fatal("no span, no trace_id")
	}
}

func TestTraceHandlerDoesNotDuplicateFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewTraceHandler(slog.NewTextHandler(&buf, nil)))

	ctx := logging.WithLogFields(context.Background(), logging.LogFields{EventName: "tickets-sold"})
	logger.WarnContext(ctx, "failed", "event_name", "tickets-sold")

	if n := strings.Count(buf.String(), "event_name="); n != 1 {
		t.Fatalf("event_name appears %d times: %s", n, buf.String())
	}
}

func TestSetup(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logger, err := logging.Setup(&buf, "warn", "json")
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("level not applied: %s", buf.String())
	}

	if _, err := logging.Setup(&buf, "info", "xml"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
	if _, err := logging.Setup(&buf, "loud", "text"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
