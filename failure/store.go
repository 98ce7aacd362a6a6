package failure

import (
	"context"
	"time"

	"github.com/byceps/announce/id"
)

// Store defines the persistence contract for the failure log.
type Store interface {
	// RecordFailure appends an entry.
	RecordFailure(ctx context.Context, e *Entry) error

	// ListFailures returns entries, newest first.
	ListFailures(ctx context.Context, opts ListOpts) ([]*Entry, error)

	// GetFailure returns an entry by ID, or ErrNotFound.
	GetFailure(ctx context.Context, failID id.ID) (*Entry, error)

	// DeleteFailure removes one entry.
	DeleteFailure(ctx context.Context, failID id.ID) error

	// PurgeFailures deletes entries that failed before a threshold.
	PurgeFailures(ctx context.Context, before time.Time) (int64, error)

	// CountFailures returns the total number of entries.
	CountFailures(ctx context.Context) (int64, error)
}
