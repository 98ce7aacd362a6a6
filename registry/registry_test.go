package registry_test

import (
	"errors"
	"testing"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/registry"
	"github.com/byceps/announce/webhook"
)

func silent(string, event.Event, *webhook.Webhook) *announcement.Announcement { return nil }

func loud(string, event.Event, *webhook.Webhook) *announcement.Announcement {
	return &announcement.Announcement{Text: "hi"}
}

func TestRegisterAndLookup(t *testing.T) {
	r := registry.New()
	if err := r.Register(event.KindTicketsSold, "tickets-sold", loud); err != nil {
		t.Fatal(err)
	}

	ev := event.TicketsSold{Quantity: 2}

	name, err := r.NameFor(ev)
	if err != nil {
		t.Fatal(err)
	}
	if name != "tickets-sold" {
		t.Fatalf("NameFor = %q", name)
	}

	again, _ := r.NameFor(ev)
	if again != name {
		t.Fatal("NameFor is not stable")
	}

	h := r.HandlerFor(event.KindTicketsSold)
	if h == nil || h(name, ev, nil).Text != "hi" {
		t.Fatal("HandlerFor returned the wrong handler")
	}

	kind, err := r.KindFor("tickets-sold")
	if err != nil || kind != event.KindTicketsSold {
		t.Fatalf("KindFor = %v, %v", kind, err)
	}
}

func TestUnregisteredEvent(t *testing.T) {
	r := registry.New()

	_, err := r.NameFor(event.PageCreated{})
	if !errors.Is(err, registry.ErrUnregisteredEvent) {
		t.Fatalf("expected ErrUnregisteredEvent, got %v", err)
	}
	if r.HandlerFor(event.KindPageCreated) != nil {
		t.Fatal("expected nil handler")
	}
	if _, err := r.KindFor("page-created"); !errors.Is(err, registry.ErrUnknownEventName) {
		t.Fatalf("expected ErrUnknownEventName, got %v", err)
	}
}

func TestIdenticalReRegistrationIsIdempotent(t *testing.T) {
	r := registry.New()
	r.MustRegister(event.KindPageCreated, "page-created", silent)

	if err := r.Register(event.KindPageCreated, "page-created", silent); err != nil {
		t.Fatalf("identical re-registration: %v", err)
	}
}

func TestConflictingRegistration(t *testing.T) {
	r := registry.New()
	r.MustRegister(event.KindPageCreated, "page-created", silent)

	tests := []struct {
		name    string
		kind    event.Kind
		evName  string
		handler announcement.Handler
	}{
		{"other name", event.KindPageCreated, "page-added", silent},
		{"other handler", event.KindPageCreated, "page-created", loud},
		{"name taken", event.KindPageUpdated, "page-created", silent},
		{"invalid kind", event.KindInvalid, "nothing", silent},
		{"nil handler", event.KindPageDeleted, "page-deleted", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.kind, tt.evName, tt.handler)
			if !errors.Is(err, registry.ErrConflictingRegistration) {
				t.Fatalf("expected ErrConflictingRegistration, got %v", err)
			}
		})
	}
}

func TestKnownNamesAndPatterns(t *testing.T) {
	r := registry.New()
	r.MustRegister(event.KindBoardTopicCreated, "board-topic-created", silent)
	r.MustRegister(event.KindBoardPostingCreated, "board-posting-created", silent)
	r.MustRegister(event.KindTicketsSold, "tickets-sold", silent)

	names := r.KnownNames()
	want := []string{"board-posting-created", "board-topic-created", "tickets-sold"}
	if len(names) != len(want) {
		t.Fatalf("KnownNames = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("KnownNames[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if board := r.Names("board-*"); len(board) != 2 {
		t.Fatalf("Names(board-*) = %v", board)
	}

	if missing := r.Missing(); len(missing) != len(event.AllKinds())-3 {
		t.Fatalf("Missing() has %d kinds", len(missing))
	}
}
