// Package delivery sends assembled announcement requests to their webhooks.
//
// Immediate requests are POSTed synchronously by the Dispatcher. Requests
// with a future AnnounceAt go to a Scheduler; the StoreScheduler persists
// them as Jobs which the Engine runs once they fall due.
package delivery

import (
	"errors"
	"time"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/entity"
)

// ErrNotFound is returned when a job does not exist.
var ErrNotFound = errors.New("announce: job not found")

// State represents the current state of a job.
type State string

const (
	// StatePending indicates the job waits for its RunAt instant.
	StatePending State = "pending"

	// StateRunning indicates the job was claimed by an engine. Stores
	// that claim jobs in place use it; the memory store tracks claims
	// separately.
	StateRunning State = "running"

	// StateDelivered indicates the target accepted the request.
	StateDelivered State = "delivered"

	// StateFailed indicates the single attempt failed. Jobs are not retried.
	StateFailed State = "failed"
)

// Job is a deferred announcement request.
type Job struct {
	entity.Entity

	ID      id.ID                `json:"id"`
	Request announcement.Request `json:"request"`

	// RunAt is when the request is to be sent.
	RunAt time.Time `json:"run_at"`
	State State     `json:"state"`

	// LastStatusCode is the response status of the attempt, 0 when none
	// was received.
	LastStatusCode int    `json:"last_status_code,omitempty"`
	LastError      string `json:"last_error,omitempty"`
	LastLatencyMs  int    `json:"last_latency_ms,omitempty"`

	// CompletedAt is set once the job was attempted.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewJob returns a pending job for req.
func NewJob(req announcement.Request, runAt time.Time) *Job {
	return &Job{
		Entity:  entity.New(),
		ID:      id.NewJobID(),
		Request: req,
		RunAt:   runAt.UTC(),
		State:   StatePending,
	}
}

// ListOpts configures filtering and pagination for job listing.
type ListOpts struct {
	Offset int
	Limit  int
	State  *State
}
