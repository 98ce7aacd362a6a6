package delivery

import (
	"context"

	"github.com/byceps/announce/id"
)

// Store defines the persistence contract for scheduled jobs.
type Store interface {
	// Schedule persists a pending job.
	Schedule(ctx context.Context, j *Job) error

	// Dequeue claims pending jobs whose RunAt has passed (concurrent-safe).
	// A claimed job is not returned again until it is updated.
	Dequeue(ctx context.Context, limit int) ([]*Job, error)

	// UpdateJob records the outcome of a job and releases its claim.
	UpdateJob(ctx context.Context, j *Job) error

	// GetJob returns a job by ID, or ErrNotFound.
	GetJob(ctx context.Context, jobID id.ID) (*Job, error)

	// ListJobs returns jobs ordered by RunAt.
	ListJobs(ctx context.Context, opts ListOpts) ([]*Job, error)

	// CountPending returns the number of jobs not yet attempted.
	CountPending(ctx context.Context) (int64, error)
}
