// Package announcement holds the values passed between the pipeline stages:
// the rendered Announcement a handler produces and the serializable Request
// the dispatcher delivers.
package announcement

import (
	"encoding/json"
	"time"

	"github.com/byceps/announce/event"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/webhook"
)

// Announcement is a rendered line of text for one webhook. Text does not
// include the webhook's text prefix.
type Announcement struct {
	Text string `json:"text"`

	// AnnounceAt defers delivery when set to a future instant.
	AnnounceAt *time.Time `json:"announce_at,omitempty"`
}

// Handler renders an event for a webhook. A nil Announcement suppresses
// delivery to that webhook. Handlers perform no I/O.
type Handler func(eventName string, ev event.Event, wh *webhook.Webhook) *Announcement

// Request is a fully assembled delivery. It is a plain value and is stored
// as is by schedulers.
type Request struct {
	WebhookID      id.ID           `json:"webhook_id"`
	URL            string          `json:"url"`
	Body           json.RawMessage `json:"body"`
	ExpectedStatus *int            `json:"expected_status,omitempty"`
	AnnounceAt     *time.Time      `json:"announce_at,omitempty"`

	// EventName is carried for logging only.
	EventName string `json:"event_name,omitempty"`
}

// Deferred reports whether r should be handed to a scheduler at now.
func (r *Request) Deferred(now time.Time) bool {
	return r.AnnounceAt != nil && r.AnnounceAt.After(now)
}
