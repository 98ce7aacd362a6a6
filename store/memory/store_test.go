package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/byceps/announce"
	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/entity"
	"github.com/byceps/announce/webhook"
)

func ctx() context.Context { return context.Background() }

func newWebhook(enabled bool, eventTypes ...string) *webhook.Webhook {
	return &webhook.Webhook{
		Entity:     entity.New(),
		ID:         id.NewWebhookID(),
		EventTypes: eventTypes,
		Format:     webhook.FormatMattermost,
		URL:        "https://chat.test/hooks/1",
		Enabled:    enabled,
	}
}

// ──────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────

func TestLifecycle(t *testing.T) {
	s := New()

	if err := s.Migrate(ctx()); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx()); !errors.Is(err, announce.ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
}

// ──────────────────────────────────────────────────
// webhook.Store
// ──────────────────────────────────────────────────

func TestWebhookCRUD(t *testing.T) {
	s := New()
	wh := newWebhook(true, "tickets-sold")

	if err := s.CreateWebhook(ctx(), wh); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetWebhook(ctx(), wh.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.URL != wh.URL {
		t.Fatalf("url: got %q", got.URL)
	}

	// Mutating a returned copy must not leak into the store.
	got.EventTypes[0] = "changed"
	again, _ := s.GetWebhook(ctx(), wh.ID)
	if again.EventTypes[0] != "tickets-sold" {
		t.Fatal("store returned a shared slice")
	}

	got.URL = "https://chat.test/hooks/2"
	if err := s.UpdateWebhook(ctx(), got); err != nil {
		t.Fatal(err)
	}
	again, _ = s.GetWebhook(ctx(), wh.ID)
	if again.URL != "https://chat.test/hooks/2" {
		t.Fatal("update not applied")
	}

	if err := s.DeleteWebhook(ctx(), wh.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetWebhook(ctx(), wh.ID); !errors.Is(err, announce.ErrWebhookNotFound) {
		t.Fatalf("expected ErrWebhookNotFound, got %v", err)
	}
	if err := s.DeleteWebhook(ctx(), wh.ID); !errors.Is(err, announce.ErrWebhookNotFound) {
		t.Fatalf("expected ErrWebhookNotFound, got %v", err)
	}
}

func TestListEnabledFor(t *testing.T) {
	s := New()

	a := newWebhook(true, "tickets-sold", "board-topic-created")
	b := newWebhook(false, "tickets-sold")
	c := newWebhook(true, "board-topic-created")
	for _, wh := range []*webhook.Webhook{a, b, c} {
		if err := s.CreateWebhook(ctx(), wh); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListEnabledFor(ctx(), "tickets-sold")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected only the enabled subscriber, got %d", len(got))
	}

	if err := s.SetEnabled(ctx(), b.ID, true); err != nil {
		t.Fatal(err)
	}
	got, _ = s.ListEnabledFor(ctx(), "tickets-sold")
	if len(got) != 2 {
		t.Fatalf("expected 2 after enabling, got %d", len(got))
	}
	if got[0].ID.Compare(got[1].ID) >= 0 {
		t.Fatal("expected ID order")
	}
}

func TestListWebhooksFilters(t *testing.T) {
	s := New()

	for i := range 5 {
		wh := newWebhook(i%2 == 0, "tickets-sold")
		if i == 4 {
			wh.Format = webhook.FormatDiscord
		}
		if err := s.CreateWebhook(ctx(), wh); err != nil {
			t.Fatal(err)
		}
	}

	enabled := true
	got, _ := s.ListWebhooks(ctx(), webhook.ListOpts{Enabled: &enabled})
	if len(got) != 3 {
		t.Fatalf("enabled: got %d", len(got))
	}

	got, _ = s.ListWebhooks(ctx(), webhook.ListOpts{Format: webhook.FormatDiscord})
	if len(got) != 1 {
		t.Fatalf("discord: got %d", len(got))
	}

	got, _ = s.ListWebhooks(ctx(), webhook.ListOpts{Offset: 1, Limit: 2})
	if len(got) != 2 {
		t.Fatalf("page: got %d", len(got))
	}

	got, _ = s.ListWebhooks(ctx(), webhook.ListOpts{Offset: 10})
	if len(got) != 0 {
		t.Fatalf("past the end: got %d", len(got))
	}
}

// ──────────────────────────────────────────────────
// delivery.Store
// ──────────────────────────────────────────────────

func TestDequeueClaimsDueJobsOnce(t *testing.T) {
	s := New()

	req := announcement.Request{WebhookID: id.NewWebhookID(), URL: "https://chat.test"}
	due := delivery.NewJob(req, time.Now().Add(-time.Minute))
	later := delivery.NewJob(req, time.Now().Add(time.Hour))

	for _, j := range []*delivery.Job{due, later} {
		if err := s.Schedule(ctx(), j); err != nil {
			t.Fatal(err)
		}
	}

	batch, err := s.Dequeue(ctx(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 1 || batch[0].ID != due.ID {
		t.Fatalf("expected the due job only, got %d", len(batch))
	}

	// Claimed jobs are not handed out twice.
	batch2, _ := s.Dequeue(ctx(), 10)
	if len(batch2) != 0 {
		t.Fatalf("expected no jobs while claimed, got %d", len(batch2))
	}

	j := batch[0]
	j.State = delivery.StateDelivered
	if err := s.UpdateJob(ctx(), j); err != nil {
		t.Fatal(err)
	}

	batch3, _ := s.Dequeue(ctx(), 10)
	if len(batch3) != 0 {
		t.Fatal("delivered job must not be dequeued again")
	}

	n, _ := s.CountPending(ctx())
	if n != 1 {
		t.Fatalf("pending: got %d, want 1", n)
	}

	state := delivery.StatePending
	pending, _ := s.ListJobs(ctx(), delivery.ListOpts{State: &state})
	if len(pending) != 1 || pending[0].ID != later.ID {
		t.Fatal("expected the later job to stay pending")
	}

	if _, err := s.GetJob(ctx(), id.NewJobID()); !errors.Is(err, announce.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

// ──────────────────────────────────────────────────
// failure.Store
// ──────────────────────────────────────────────────

func TestFailureLog(t *testing.T) {
	s := New()

	old := failure.New(failure.KindWebhookFailure, "tickets-sold", id.NewWebhookID(), "https://a", errors.New("boom"))
	old.FailedAt = time.Now().Add(-48 * time.Hour)
	recent := failure.New(failure.KindWebhookConfigMalformed, "board-topic-created", id.NewWebhookID(), "", errors.New("bad"))

	for _, e := range []*failure.Entry{old, recent} {
		if err := s.RecordFailure(ctx(), e); err != nil {
			t.Fatal(err)
		}
	}

	all, _ := s.ListFailures(ctx(), failure.ListOpts{})
	if len(all) != 2 || all[0].ID != recent.ID {
		t.Fatal("expected newest first")
	}

	malformed, _ := s.ListFailures(ctx(), failure.ListOpts{Kind: failure.KindWebhookConfigMalformed})
	if len(malformed) != 1 {
		t.Fatalf("kind filter: got %d", len(malformed))
	}

	n, _ := s.PurgeFailures(ctx(), time.Now().Add(-24*time.Hour))
	if n != 1 {
		t.Fatalf("purged %d, want 1", n)
	}

	if err := s.DeleteFailure(ctx(), recent.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetFailure(ctx(), recent.ID); !errors.Is(err, announce.ErrFailureNotFound) {
		t.Fatalf("expected ErrFailureNotFound, got %v", err)
	}

	count, _ := s.CountFailures(ctx())
	if count != 0 {
		t.Fatalf("count = %d", count)
	}
}
