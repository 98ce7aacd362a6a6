package format_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/format"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/webhook"
)

func strPtr(s string) *string { return &s }

func newWebhook(f webhook.Format, extra string) *webhook.Webhook {
	wh := &webhook.Webhook{
		ID:         id.NewWebhookID(),
		EventTypes: []string{"board-topic-created"},
		Format:     f,
		URL:        "https://webhoooks.test/board",
		Enabled:    true,
	}
	if extra != "" {
		wh.ExtraFields = json.RawMessage(extra)
	}
	return wh
}

func keys(t *testing.T, body []byte) []string {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("body is not a JSON object: %v", err)
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestBuildDiscordWithPrefix(t *testing.T) {
	wh := newWebhook(webhook.FormatDiscord, "")
	wh.TextPrefix = strPtr("[Forum] ")

	ann := &announcement.Announcement{
		Text: `RocketRandy hat das Thema "Cannot connect to the party network :(" erstellt: <https://website.test/board/topics/T1>`,
	}

	req, err := format.Build(wh, ann, "board-topic-created", nil)
	if err != nil {
		t.Fatal(err)
	}

	want := `{"content":"[Forum] RocketRandy hat das Thema \"Cannot connect to the party network :(\" erstellt: <https://website.test/board/topics/T1>"}`
	if string(req.Body) != want {
		t.Fatalf("body:\n got  %s\n want %s", req.Body, want)
	}
	if req.ExpectedStatus == nil || *req.ExpectedStatus != 204 {
		t.Fatalf("expected status 204, got %v", req.ExpectedStatus)
	}
	if req.URL != wh.URL || req.WebhookID != wh.ID {
		t.Fatal("request must target the webhook")
	}
	if req.EventName != "board-topic-created" {
		t.Fatalf("event name = %q", req.EventName)
	}
}

func TestBuildBodiesPerFormat(t *testing.T) {
	tests := []struct {
		format webhook.Format
		extra  string
		want   string
		status int
	}{
		{webhook.FormatDiscord, "", `{"content":"hi"}`, 204},
		{webhook.FormatMattermost, "", `{"text":"hi"}`, 200},
		{webhook.FormatMatrix, `{"key":"k","room_id":"!r:x"}`, `{"key":"k","room_id":"!r:x","text":"hi"}`, 200},
		{webhook.FormatWeitersager, `{"channel":"#lan"}`, `{"channel":"#lan","text":"hi"}`, 202},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			req, err := format.Build(newWebhook(tt.format, tt.extra), &announcement.Announcement{Text: "hi"}, "x", nil)
			if err != nil {
				t.Fatal(err)
			}
			if string(req.Body) != tt.want {
				t.Fatalf("body: got %s, want %s", req.Body, tt.want)
			}
			if *req.ExpectedStatus != tt.status {
				t.Fatalf("status: got %d, want %d", *req.ExpectedStatus, tt.status)
			}
		})
	}
}

func TestMissingExtrasEncodeNullAndWarn(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	req, err := format.Build(newWebhook(webhook.FormatMatrix, `{"key":"k"}`), &announcement.Announcement{Text: "hi"}, "tickets-sold", logger)
	if err != nil {
		t.Fatal(err)
	}

	if string(req.Body) != `{"key":"k","room_id":null,"text":"hi"}` {
		t.Fatalf("body: %s", req.Body)
	}
	if got := keys(t, req.Body); len(got) != 3 {
		t.Fatalf("matrix body keys: %v", got)
	}
	if !strings.Contains(logs.String(), "room_id") || !strings.Contains(logs.String(), "level=WARN") {
		t.Fatalf("expected a warning naming room_id, got %q", logs.String())
	}

	req, err = format.Build(newWebhook(webhook.FormatWeitersager, ""), &announcement.Announcement{Text: "hi"}, "tickets-sold", logger)
	if err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != `{"channel":null,"text":"hi"}` {
		t.Fatalf("body: %s", req.Body)
	}
}

func TestEmptyExtraCountsAsMissing(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	req, err := format.Build(newWebhook(webhook.FormatWeitersager, `{"channel":""}`), &announcement.Announcement{Text: "hi"}, "tickets-sold", logger)
	if err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != `{"channel":null,"text":"hi"}` {
		t.Fatalf("body: %s", req.Body)
	}
	if !strings.Contains(logs.String(), "channel") || !strings.Contains(logs.String(), "level=WARN") {
		t.Fatalf("expected a warning naming channel, got %q", logs.String())
	}
}

func TestBuildCarriesDeferral(t *testing.T) {
	at := time.Date(2024, 8, 1, 19, 0, 0, 0, time.UTC)

	req, err := format.Build(newWebhook(webhook.FormatMattermost, ""), &announcement.Announcement{Text: "hi", AnnounceAt: &at}, "news-item-published", nil)
	if err != nil {
		t.Fatal(err)
	}
	if req.AnnounceAt == nil || !req.AnnounceAt.Equal(at) {
		t.Fatalf("AnnounceAt = %v", req.AnnounceAt)
	}
	if !req.Deferred(at.Add(-time.Minute)) || req.Deferred(at) {
		t.Fatal("Deferred must hold strictly before AnnounceAt")
	}
}

func TestBuildRejectsUnknownFormat(t *testing.T) {
	_, err := format.Build(newWebhook("telegram", ""), &announcement.Announcement{Text: "hi"}, "x", nil)
	if !errors.Is(err, format.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestBuildRejectsMalformedExtras(t *testing.T) {
	_, err := format.Build(newWebhook(webhook.FormatWeitersager, `["#lan"]`), &announcement.Announcement{Text: "hi"}, "x", nil)
	if !errors.Is(err, webhook.ErrConfigMalformed) {
		t.Fatalf("expected ErrConfigMalformed, got %v", err)
	}
}

func TestMarshalKeepsAngleBrackets(t *testing.T) {
	raw, err := format.Marshal(map[string]string{"content": "<https://a.test/?x=1&y=2>"})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"content":"<https://a.test/?x=1&y=2>"}` {
		t.Fatalf("got %s", raw)
	}
}
