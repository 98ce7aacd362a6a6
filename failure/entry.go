// Package failure keeps a log of the errors the pipeline surfaces: events
// without a registration, webhooks with unreadable configuration and
// deliveries the target did not accept.
package failure

import (
	"errors"
	"time"

	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/entity"
)

// ErrNotFound is returned when a failure entry does not exist.
var ErrNotFound = errors.New("announce: failure entry not found")

// Kind classifies a failure. The values double as the error_kind log field.
type Kind string

const (
	KindUnregisteredEvent      Kind = "unregistered_event"
	KindWebhookConfigMalformed Kind = "webhook_config_malformed"
	KindWebhookFailure         Kind = "webhook_failure"
)

// Entry is one recorded failure.
type Entry struct {
	entity.Entity

	ID   id.ID `json:"id"`
	Kind Kind  `json:"kind"`

	// EventName holds the kind's type name for events without a registered
	// name.
	EventName string `json:"event_name,omitempty"`

	// WebhookID is Nil for failures not tied to a webhook.
	WebhookID id.ID  `json:"webhook_id,omitempty"`
	URL       string `json:"url,omitempty"`

	// StatusCode is the response status of a failed delivery, 0 when no
	// response was received.
	StatusCode int    `json:"status_code,omitempty"`
	Details    string `json:"details"`

	FailedAt time.Time `json:"failed_at"`
}

// statusCoder is implemented by delivery errors that carry a response
// status.
type statusCoder interface {
	Status() int
}

// New builds an entry from a surfaced error.
func New(kind Kind, eventName string, webhookID id.ID, url string, err error) *Entry {
	e := &Entry{
		Entity:    entity.New(),
		ID:        id.NewFailureID(),
		Kind:      kind,
		EventName: eventName,
		WebhookID: webhookID,
		URL:       url,
		FailedAt:  time.Now().UTC(),
	}

	if err != nil {
		e.Details = err.Error()

		var sc statusCoder
		if errors.As(err, &sc) {
			e.StatusCode = sc.Status()
		}
	}

	return e
}

// ListOpts configures filtering and pagination for failure listing.
type ListOpts struct {
	Offset    int
	Limit     int
	Kind      Kind
	EventName string
	WebhookID *id.ID
	From      *time.Time
	To        *time.Time
}

// Matches reports whether e passes the filters of opts. Pagination is not
// considered.
func (o ListOpts) Matches(e *Entry) bool {
	if o.Kind != "" && e.Kind != o.Kind {
		return false
	}
	if o.EventName != "" && e.EventName != o.EventName {
		return false
	}
	if o.WebhookID != nil && e.WebhookID.String() != o.WebhookID.String() {
		return false
	}
	if o.From != nil && e.FailedAt.Before(*o.From) {
		return false
	}
	if o.To != nil && e.FailedAt.After(*o.To) {
		return false
	}
	return true
}
