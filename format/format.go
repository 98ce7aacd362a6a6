// Package format turns an announcement into the JSON body and expected
// response status of a webhook's wire format.
package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/webhook"
)

// ErrUnsupportedFormat is returned for a webhook whose format has no encoder.
var ErrUnsupportedFormat = errors.New("announce: unsupported webhook format")

// Encoder builds the body for one wire format.
type Encoder interface {
	// Body returns the value to serialize and the names of required extra
	// fields that were missing. Missing fields are encoded as null.
	Body(text string, extra webhook.ExtraFields) (body any, missing []string)

	// ExpectedStatus is the response status that means "accepted".
	ExpectedStatus() int
}

var encoders = map[webhook.Format]Encoder{
	webhook.FormatDiscord:     discord{},
	webhook.FormatMattermost:  mattermost{},
	webhook.FormatMatrix:      matrix{},
	webhook.FormatWeitersager: weitersager{},
}

// For returns the encoder for f.
func For(f webhook.Format) (Encoder, error) {
	enc, ok := encoders[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return enc, nil
}

// ──────────────────────────────────────────────────
// Encoders
// ──────────────────────────────────────────────────

type discord struct{}

func (discord) Body(text string, _ webhook.ExtraFields) (any, []string) {
	return struct {
		Content string `json:"content"`
	}{text}, nil
}

func (discord) ExpectedStatus() int { return http.StatusNoContent }

type mattermost struct{}

func (mattermost) Body(text string, _ webhook.ExtraFields) (any, []string) {
	return struct {
		Text string `json:"text"`
	}{text}, nil
}

func (mattermost) ExpectedStatus() int { return http.StatusOK }

type matrix struct{}

func (matrix) Body(text string, extra webhook.ExtraFields) (any, []string) {
	var missing []string
	key := required(extra, "key", &missing)
	roomID := required(extra, "room_id", &missing)

	return struct {
		Key    *string `json:"key"`
		RoomID *string `json:"room_id"`
		Text   string  `json:"text"`
	}{key, roomID, text}, missing
}

func (matrix) ExpectedStatus() int { return http.StatusOK }

type weitersager struct{}

func (weitersager) Body(text string, extra webhook.ExtraFields) (any, []string) {
	var missing []string
	channel := required(extra, "channel", &missing)

	return struct {
		Channel *string `json:"channel"`
		Text    string  `json:"text"`
	}{channel, text}, missing
}

func (weitersager) ExpectedStatus() int { return http.StatusAccepted }

func required(extra webhook.ExtraFields, key string, missing *[]string) *string {
	v, ok := extra.String(key)
	if !ok || v == "" {
		*missing = append(*missing, key)
		return nil
	}
	return &v
}

// ──────────────────────────────────────────────────
// Request assembly
// ──────────────────────────────────────────────────

// Build assembles the delivery request for a rendered announcement: the
// webhook's text prefix is prepended, the body encoded for its format and
// the announcement's deferral carried over.
func Build(wh *webhook.Webhook, ann *announcement.Announcement, eventName string, logger *slog.Logger) (announcement.Request, error) {
	if logger == nil {
		logger = slog.Default()
	}

	enc, err := For(wh.Format)
	if err != nil {
		return announcement.Request{}, err
	}

	extra, err := wh.Extra()
	if err != nil {
		return announcement.Request{}, err
	}

	body, missing := enc.Body(wh.Prefix()+ann.Text, extra)
	if len(missing) > 0 {
		logger.Warn("webhook is missing extra fields",
			"event_name", eventName,
			"webhook_id", wh.ID.String(),
			"format", string(wh.Format),
			"missing", missing,
		)
	}

	raw, err := Marshal(body)
	if err != nil {
		return announcement.Request{}, fmt.Errorf("announce: encode %s body: %w", wh.Format, err)
	}

	status := enc.ExpectedStatus()

	return announcement.Request{
		WebhookID:      wh.ID,
		URL:            wh.URL,
		Body:           raw,
		ExpectedStatus: &status,
		AnnounceAt:     ann.AnnounceAt,
		EventName:      eventName,
	}, nil
}

// Marshal encodes v as compact JSON without escaping <, > and &, so that
// Discord's <url> link syntax reaches the target as written.
func Marshal(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
