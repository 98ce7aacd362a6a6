package failure_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/store/memory"
)

func ctx() context.Context { return context.Background() }

func newService() (*failure.Service, *memory.Store) {
	store := memory.New()
	return failure.NewService(store, nil), store
}

func TestNewExtractsStatusCode(t *testing.T) {
	whID := id.NewWebhookID()
	err := &delivery.WebhookFailure{WebhookID: whID, StatusCode: 502, Err: delivery.ErrUnexpectedStatus}

	e := failure.New(failure.KindWebhookFailure, "tickets-sold", whID, "https://chat.test", err)

	if e.ID.Prefix() != id.PrefixFailure {
		t.Fatalf("id prefix = %q", e.ID.Prefix())
	}
	if e.StatusCode != 502 {
		t.Fatalf("status = %d, want 502", e.StatusCode)
	}
	if e.Details != err.Error() {
		t.Fatalf("details = %q", e.Details)
	}
	if e.FailedAt.IsZero() || e.FailedAt.Location() != time.UTC {
		t.Fatal("FailedAt must be set in UTC")
	}
}

func TestNewWithoutStatus(t *testing.T) {
	e := failure.New(failure.KindWebhookConfigMalformed, "board-topic-created", id.NewWebhookID(), "", errors.New("bad extra_fields"))
	if e.StatusCode != 0 {
		t.Fatalf("status = %d, want 0", e.StatusCode)
	}
}

func TestRecordAndQuery(t *testing.T) {
	svc, _ := newService()

	whA, whB := id.NewWebhookID(), id.NewWebhookID()
	svc.Record(ctx(), failure.New(failure.KindWebhookFailure, "tickets-sold", whA, "https://a", errors.New("timeout")))
	svc.Record(ctx(), failure.New(failure.KindWebhookFailure, "board-topic-created", whB, "https://b", errors.New("refused")))
	svc.Record(ctx(), failure.New(failure.KindWebhookConfigMalformed, "tickets-sold", whB, "https://b", errors.New("bad")))

	n, err := svc.Count(ctx())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}

	tests := []struct {
		name string
		opts failure.ListOpts
		want int
	}{
		{"all", failure.ListOpts{}, 3},
		{"by kind", failure.ListOpts{Kind: failure.KindWebhookFailure}, 2},
		{"by event name", failure.ListOpts{EventName: "tickets-sold"}, 2},
		{"by webhook", failure.ListOpts{WebhookID: &whB}, 2},
		{"combined", failure.ListOpts{Kind: failure.KindWebhookFailure, WebhookID: &whA}, 1},
		{"limit", failure.ListOpts{Limit: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Fatalf("got %d entries, want %d", len(got), tt.want)
			}
		})
	}
}

func TestGetDeletePurge(t *testing.T) {
	svc, _ := newService()

	old := failure.New(failure.KindWebhookFailure, "tickets-sold", id.NewWebhookID(), "https://a", errors.New("x"))
	old.FailedAt = time.Now().Add(-72 * time.Hour)
	fresh := failure.New(failure.KindWebhookFailure, "tickets-sold", id.NewWebhookID(), "https://a", errors.New("y"))
	svc.Record(ctx(), old)
	svc.Record(ctx(), fresh)

	got, err := svc.Get(ctx(), fresh.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Details != "y" {
		t.Fatalf("details = %q", got.Details)
	}

	purged, err := svc.Purge(ctx(), time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Fatalf("purged %d, want 1", purged)
	}

	if err := svc.Delete(ctx(), fresh.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx(), fresh.ID); !errors.Is(err, failure.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type brokenStore struct{ failure.Store }

func (brokenStore) RecordFailure(context.Context, *failure.Entry) error {
	return errors.New("disk full")
}

func TestRecordLogsStorageErrors(t *testing.T) {
	var buf bytes.Buffer
	svc := failure.NewService(brokenStore{}, slog.New(slog.NewTextHandler(&buf, nil)))

	svc.Record(ctx(), failure.New(failure.KindWebhookFailure, "tickets-sold", id.NewWebhookID(), "", errors.New("x")))

	out := buf.String()
	if !strings.Contains(out, "disk full") || !strings.Contains(out, "error_kind=webhook_failure") {
		t.Fatalf("unexpected log output: %s", out)
	}
}
