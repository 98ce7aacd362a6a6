package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/byceps/announce"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/store/memory"
	"github.com/byceps/announce/webhook"
)

func ctx() context.Context { return context.Background() }

func strPtr(s string) *string { return &s }

var knownNames = map[string]bool{
	"board-topic-created": true,
	"tickets-sold":        true,
}

func newService(opts ...webhook.ServiceOption) (*webhook.Service, *memory.Store) {
	s := memory.New()
	opts = append([]webhook.ServiceOption{webhook.WithKnownNames(func(name string) bool { return knownNames[name] })}, opts...)
	return webhook.NewService(s, nil, opts...), s
}

func validInput() webhook.Input {
	return webhook.Input{
		EventTypes:   []string{"board-topic-created"},
		EventFilters: json.RawMessage(`{"board-topic-created":{"board_id":["B1"]}}`),
		Format:       webhook.FormatWeitersager,
		TextPrefix:   strPtr("[Forum] "),
		ExtraFields:  json.RawMessage(`{"channel":"#lan"}`),
		URL:          "https://irc-bot.test/",
		Enabled:      true,
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newService()

	wh, err := svc.Create(ctx(), validInput())
	if err != nil {
		t.Fatal(err)
	}
	if wh.ID.Prefix() != id.PrefixWebhook {
		t.Fatalf("id prefix = %q", wh.ID.Prefix())
	}

	got, err := svc.Get(ctx(), wh.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Prefix() != "[Forum] " || got.Channel() != "#lan" {
		t.Fatalf("got prefix %q channel %q", got.Prefix(), got.Channel())
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*webhook.Input)
		field string
	}{
		{"no event types", func(in *webhook.Input) { in.EventTypes = nil; in.EventFilters = nil }, "event_types"},
		{"unknown event name", func(in *webhook.Input) { in.EventTypes = []string{"party-started"}; in.EventFilters = nil }, "event_types"},
		{"unsupported format", func(in *webhook.Input) { in.Format = "slack" }, "format"},
		{"relative url", func(in *webhook.Input) { in.URL = "/hooks/1" }, "url"},
		{"filters not an object", func(in *webhook.Input) { in.EventFilters = json.RawMessage(`["B1"]`) }, "event_filters"},
		{"filter for other event", func(in *webhook.Input) {
			in.EventFilters = json.RawMessage(`{"tickets-sold":{"party_id":["p1"]}}`)
		}, "event_filters"},
		{"extra fields nested", func(in *webhook.Input) { in.ExtraFields = json.RawMessage(`{"channel":{"name":"#lan"}}`) }, "extra_fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService()
			in := validInput()
			tt.edit(&in)

			_, err := svc.Create(ctx(), in)
			var ve *webhook.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestNullFiltersAreAccepted(t *testing.T) {
	svc, _ := newService()
	in := validInput()
	in.EventFilters = json.RawMessage(`{"board-topic-created":null}`)

	wh, err := svc.Create(ctx(), in)
	if err != nil {
		t.Fatal(err)
	}

	f, err := wh.Filters()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := f.For("board-topic-created"); ok {
		t.Fatal("null filter must not constrain")
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc, _ := newService()
	wh, err := svc.Create(ctx(), validInput())
	if err != nil {
		t.Fatal(err)
	}

	in := validInput()
	in.URL = "https://irc-bot.test/v2"
	in.TextPrefix = nil
	updated, err := svc.Update(ctx(), wh.ID, in)
	if err != nil {
		t.Fatal(err)
	}
	if updated.URL != "https://irc-bot.test/v2" || updated.Prefix() != "" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := svc.Delete(ctx(), wh.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx(), wh.ID); !errors.Is(err, webhook.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	found, err := svc.Find(ctx(), wh.ID)
	if err != nil || found != nil {
		t.Fatalf("Find after delete = %v, %v", found, err)
	}
}

func TestListEnabledForOrdersByChannel(t *testing.T) {
	svc, _ := newService()

	for _, ch := range []string{"#orga", "#lan", ""} {
		in := validInput()
		in.ExtraFields = nil
		if ch != "" {
			in.ExtraFields = json.RawMessage(`{"channel":"` + ch + `"}`)
		}
		if _, err := svc.Create(ctx(), in); err != nil {
			t.Fatal(err)
		}
	}
	disabled := validInput()
	disabled.Enabled = false
	if _, err := svc.Create(ctx(), disabled); err != nil {
		t.Fatal(err)
	}

	whs, err := svc.ListEnabledFor(ctx(), "board-topic-created")
	if err != nil {
		t.Fatal(err)
	}
	if len(whs) != 3 {
		t.Fatalf("expected 3 enabled webhooks, got %d", len(whs))
	}

	want := []string{"", "#lan", "#orga"}
	for i, wh := range whs {
		if wh.Channel() != want[i] {
			t.Fatalf("position %d: channel %q, want %q", i, wh.Channel(), want[i])
		}
	}
}

func TestCacheInvalidatedByServiceWrites(t *testing.T) {
	svc, s := newService(webhook.WithCacheTTL(time.Minute))

	wh, err := svc.Create(ctx(), validInput())
	if err != nil {
		t.Fatal(err)
	}

	whs, _ := svc.ListEnabledFor(ctx(), "board-topic-created")
	if len(whs) != 1 {
		t.Fatalf("expected 1, got %d", len(whs))
	}

	// A write that bypasses the service is hidden by the cache.
	if err := s.SetEnabled(ctx(), wh.ID, false); err != nil {
		t.Fatal(err)
	}
	whs, _ = svc.ListEnabledFor(ctx(), "board-topic-created")
	if len(whs) != 1 {
		t.Fatal("expected the cached result")
	}

	svc.InvalidateCache()
	whs, _ = svc.ListEnabledFor(ctx(), "board-topic-created")
	if len(whs) != 0 {
		t.Fatalf("expected 0 after invalidation, got %d", len(whs))
	}

	if err := svc.SetEnabled(ctx(), wh.ID, true); err != nil {
		t.Fatal(err)
	}
	whs, _ = svc.ListEnabledFor(ctx(), "board-topic-created")
	if len(whs) != 1 {
		t.Fatal("SetEnabled through the service must invalidate the cache")
	}
}

func TestMissingWebhookUsesRootSentinel(t *testing.T) {
	svc, _ := newService()
	if _, err := svc.Get(ctx(), id.NewWebhookID()); !errors.Is(err, announce.ErrWebhookNotFound) {
		t.Fatalf("expected ErrWebhookNotFound, got %v", err)
	}
}

func TestDecodeExtraFields(t *testing.T) {
	extra, err := webhook.DecodeExtraFields([]byte(`{"key":"k","room_id":"!r:m.test","port":6667}`))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := extra.String("room_id"); v != "!r:m.test" {
		t.Fatalf("room_id = %q", v)
	}
	if _, ok := extra.String("port"); ok {
		t.Fatal("number must not read as string")
	}

	if _, err := webhook.DecodeExtraFields([]byte(`null`)); err != nil {
		t.Fatalf("null: %v", err)
	}
	if _, err := webhook.DecodeExtraFields([]byte(`{"channel":`)); !errors.Is(err, webhook.ErrConfigMalformed) {
		t.Fatalf("expected ErrConfigMalformed, got %v", err)
	}
}
