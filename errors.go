package announce

import (
	"errors"

	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/registry"
	"github.com/byceps/announce/webhook"
)

// Sentinel errors returned by Announcer operations and store backends.
var (
	// ErrNoStore is returned when an Announcer is created without a store.
	ErrNoStore = errors.New("announce: store is required")

	// ErrStopped is returned by Announce after Stop has been called.
	ErrStopped = errors.New("announce: announcer is stopped")

	// ErrStoreClosed is returned when a store operation is attempted after the store is closed.
	ErrStoreClosed = errors.New("announce: store is closed")

	// ErrMigrationFailed is returned when a database migration fails.
	ErrMigrationFailed = errors.New("announce: migration failed")
)

// The pipeline's error kinds and not-found errors are defined next to the
// code that raises them; they are re-exported here for callers and store
// backends.
var (
	// ErrUnregisteredEvent is returned for an event whose kind has no name
	// or handler. It is a programming error.
	ErrUnregisteredEvent = registry.ErrUnregisteredEvent

	// ErrUnknownEventName is returned for an event name outside the registry.
	ErrUnknownEventName = registry.ErrUnknownEventName

	// ErrWebhookConfigMalformed is returned for a webhook whose
	// event_filters or extra_fields cannot be decoded.
	ErrWebhookConfigMalformed = webhook.ErrConfigMalformed

	// ErrWebhookNotFound is returned when a webhook cannot be found.
	ErrWebhookNotFound = webhook.ErrNotFound

	// ErrJobNotFound is returned when a scheduled job cannot be found.
	ErrJobNotFound = delivery.ErrNotFound

	// ErrFailureNotFound is returned when a failure log entry cannot be found.
	ErrFailureNotFound = failure.ErrNotFound
)

// WebhookFailure is the error for a delivery the target did not accept.
type WebhookFailure = delivery.WebhookFailure
