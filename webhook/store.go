package webhook

import (
	"context"

	"github.com/byceps/announce/id"
)

// Store defines the persistence contract for webhooks.
type Store interface {
	// CreateWebhook persists a new webhook.
	CreateWebhook(ctx context.Context, wh *Webhook) error

	// GetWebhook returns a webhook by ID, or ErrNotFound.
	GetWebhook(ctx context.Context, whID id.ID) (*Webhook, error)

	// UpdateWebhook replaces an existing webhook.
	UpdateWebhook(ctx context.Context, wh *Webhook) error

	// DeleteWebhook removes a webhook.
	DeleteWebhook(ctx context.Context, whID id.ID) error

	// ListWebhooks returns webhooks ordered by ID.
	ListWebhooks(ctx context.Context, opts ListOpts) ([]*Webhook, error)

	// ListEnabledFor returns the enabled webhooks subscribed to an event
	// name. This is the hot path, called for every announced event.
	ListEnabledFor(ctx context.Context, eventName string) ([]*Webhook, error)

	// SetEnabled enables or disables a webhook without deleting it.
	SetEnabled(ctx context.Context, whID id.ID, enabled bool) error
}
