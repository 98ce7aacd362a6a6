// Package store names what a persistence backend must provide: the webhook
// directory, the delivery job schedule and the failure log, plus lifecycle
// hooks. Backends live in the subpackages.
package store

import (
	"context"

	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/webhook"
)

// Store is implemented by memory, file, postgres, sqlite, mongo and redis.
type Store interface {
	webhook.Store
	delivery.Store
	failure.Store

	// Migrate brings the schema up to date. It is safe to call on every
	// start.
	Migrate(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}
