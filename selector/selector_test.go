package selector_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/byceps/announce/event"
	"github.com/byceps/announce/selector"
	"github.com/byceps/announce/webhook"
)

func boardWebhook(t *testing.T, filters string) *webhook.Webhook {
	t.Helper()
	wh := &webhook.Webhook{
		EventTypes: []string{"board-topic-created"},
		Format:     webhook.FormatDiscord,
		Enabled:    true,
	}
	if filters != "" {
		wh.EventFilters = json.RawMessage(filters)
	}
	return wh
}

func topicCreated(boardID string) event.BoardTopicCreated {
	return event.BoardTopicCreated{
		Board: event.Board{BoardID: boardID, BrandID: "acme"},
		Topic: event.Topic{TopicTitle: "Hello"},
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		filters string
		boardID string
		want    bool
	}{
		{"no filters", "", "B1", true},
		{"null filter for event", `{"board-topic-created": null}`, "B1", true},
		{"empty constraints", `{"board-topic-created": {}}`, "B1", true},
		{"allowed board", `{"board-topic-created": {"board_id": ["B1"]}}`, "B1", true},
		{"other board", `{"board-topic-created": {"board_id": ["B1"]}}`, "OTHER", false},
		{"one of several", `{"board-topic-created": {"board_id": ["B0", "B1"]}}`, "B1", true},
		{"empty allow-list", `{"board-topic-created": {"board_id": []}}`, "B1", false},
		{"two attributes", `{"board-topic-created": {"board_id": ["B1"], "brand_id": ["acme"]}}`, "B1", true},
		{"second attribute fails", `{"board-topic-created": {"board_id": ["B1"], "brand_id": ["other"]}}`, "B1", false},
		{"carried but not filterable", `{"board-topic-created": {"topic_title": ["nope"]}}`, "B1", true},
		{"not carried", `{"board-topic-created": {"channel_id": ["c1"]}}`, "B1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wh := boardWebhook(t, tt.filters)
			got := selector.Matches("board-topic-created", wh, topicCreated(tt.boardID))
			if got != tt.want {
				t.Fatalf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesRequiresSubscription(t *testing.T) {
	wh := boardWebhook(t, "")
	if selector.Matches("board-topic-hidden", wh, event.BoardTopicHidden{}) {
		t.Fatal("webhook must not match an event name it does not subscribe to")
	}
}

func TestMatchesMalformedFilters(t *testing.T) {
	wh := boardWebhook(t, `{"board-topic-created": ["B1"]}`)
	if selector.Matches("board-topic-created", wh, topicCreated("B1")) {
		t.Fatal("malformed filters must not match")
	}
}

func TestMatchesUUIDAttributes(t *testing.T) {
	userID := uuid.MustParse("6f1c9b58-7fd0-4c7e-a1b5-3c4d2e1f0a99")
	wh := &webhook.Webhook{
		EventTypes:   []string{"user-account-suspended"},
		EventFilters: json.RawMessage(`{"user-account-suspended": {"user_id": ["6f1c9b58-7fd0-4c7e-a1b5-3c4d2e1f0a99"]}}`),
	}

	ev := event.UserAccountSuspended{User: event.NewUser(userID, "Troll")}
	if !selector.Matches("user-account-suspended", wh, ev) {
		t.Fatal("expected match on lowercase uuid")
	}

	other := event.UserAccountSuspended{User: event.NewUser(uuid.New(), "Other")}
	if selector.Matches("user-account-suspended", wh, other) {
		t.Fatal("expected no match for other user")
	}
}

func TestFiltersForOtherEventsDoNotApply(t *testing.T) {
	wh := &webhook.Webhook{
		EventTypes:   []string{"board-topic-created", "board-posting-created"},
		EventFilters: json.RawMessage(`{"board-posting-created": {"board_id": ["B2"]}}`),
	}
	if !selector.Matches("board-topic-created", wh, topicCreated("B1")) {
		t.Fatal("filter for another event must not constrain this one")
	}
}
