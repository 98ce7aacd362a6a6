package event_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/byceps/announce/event"
)

func TestEveryKindDecodes(t *testing.T) {
	for _, k := range event.AllKinds() {
		ev, err := event.Decode(k, []byte(`{"occurred_at":"2024-05-01T12:00:00Z"}`))
		if err != nil {
			t.Fatalf("Decode(%s): %v", k, err)
		}
		if ev.Kind() != k {
			t.Fatalf("Decode(%s) returned kind %s", k, ev.Kind())
		}
		if !ev.Meta().OccurredAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
			t.Fatalf("Decode(%s) lost occurred_at", k)
		}
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := event.Decode(event.KindInvalid, []byte(`{}`))
	if !errors.Is(err, event.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestDecodePayload(t *testing.T) {
	raw := `{
		"occurred_at": "2024-05-01T12:00:00Z",
		"board_id": "B1",
		"topic_creator": {"id": "2b7f3a5e-0b6a-4c4e-9d0f-7c3b6f1e2a10", "screen_name": "RocketRandy"},
		"topic_title": "Hello",
		"url": "https://website.test/board/topics/T1"
	}`

	ev, err := event.Decode(event.KindBoardTopicCreated, []byte(raw))
	if err != nil {
		t.Fatal(err)
	}

	created, ok := ev.(event.BoardTopicCreated)
	if !ok {
		t.Fatalf("got %T", ev)
	}
	if created.BoardID != "B1" || *created.TopicCreator.ScreenName != "RocketRandy" {
		t.Fatalf("unexpected payload: %+v", created)
	}
	if created.Attributes()[event.AttrBoardID] != "B1" {
		t.Fatalf("board_id attribute = %q", created.Attributes()[event.AttrBoardID])
	}
}

func TestUserAttributeIsLowercaseUUID(t *testing.T) {
	userID := uuid.MustParse("2B7F3A5E-0B6A-4C4E-9D0F-7C3B6F1E2A10")
	ev := event.UserAccountSuspended{User: event.NewUser(userID, "Spammer")}

	got := ev.Attributes()[event.AttrUserID]
	if got != strings.ToLower(got) || got != "2b7f3a5e-0b6a-4c4e-9d0f-7c3b6f1e2a10" {
		t.Fatalf("user_id attribute = %q", got)
	}
}

func TestCarries(t *testing.T) {
	ev := event.BoardTopicCreated{}

	for _, attr := range []string{"board_id", "topic_title", "occurred_at", "url"} {
		if !event.Carries(ev, attr) {
			t.Fatalf("expected BoardTopicCreated to carry %q", attr)
		}
	}
	if event.Carries(ev, "channel_id") {
		t.Fatal("BoardTopicCreated should not carry channel_id")
	}
}

func TestKindString(t *testing.T) {
	if got := event.KindTicketsSold.String(); got != "TicketsSold" {
		t.Fatalf("String() = %q", got)
	}
	if event.KindInvalid.Valid() {
		t.Fatal("KindInvalid must not be valid")
	}
	if n := len(event.AllKinds()); n != 59 {
		t.Fatalf("AllKinds() has %d kinds, want 59", n)
	}
}

func TestNewUserEmptyScreenName(t *testing.T) {
	u := event.NewUser(uuid.New(), "")
	if u.ScreenName != nil {
		t.Fatal("empty screen name should be absent")
	}
}
