package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/byceps/announce/announcement"
)

// ErrNoScheduler is returned when a deferred request reaches a dispatcher
// that has no scheduler.
var ErrNoScheduler = errors.New("announce: no scheduler for deferred request")

// Scheduler runs a request at a later instant. The request is captured by
// value. There is no cancellation: a job runs even if its webhook has been
// disabled or deleted in the meantime.
type Scheduler interface {
	RunAt(ctx context.Context, when time.Time, req announcement.Request) error
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(ctx context.Context, when time.Time, req announcement.Request) error

// RunAt calls f.
func (f SchedulerFunc) RunAt(ctx context.Context, when time.Time, req announcement.Request) error {
	return f(ctx, when, req)
}

// StoreScheduler persists requests as jobs for the Engine to run.
type StoreScheduler struct {
	store Store
}

// NewStoreScheduler creates a scheduler backed by store.
func NewStoreScheduler(store Store) *StoreScheduler {
	return &StoreScheduler{store: store}
}

// RunAt schedules req as a pending job.
func (s *StoreScheduler) RunAt(ctx context.Context, when time.Time, req announcement.Request) error {
	return s.store.Schedule(ctx, NewJob(req, when))
}
