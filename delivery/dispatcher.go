package delivery

import (
	"context"
	"time"

	"github.com/byceps/announce/announcement"
)

// Dispatcher delivers requests: deferred ones through the scheduler,
// everything else synchronously through the sender. It holds no per-call
// state and is safe for concurrent use.
type Dispatcher struct {
	sender    *Sender
	scheduler Scheduler
	now       func() time.Time
}

// NewDispatcher creates a dispatcher. scheduler may be nil when no request
// is ever deferred.
func NewDispatcher(sender *Sender, scheduler Scheduler) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// Deliver hands a deferred request to the scheduler, or sends it now.
// It reports whether the request was deferred.
func (d *Dispatcher) Deliver(ctx context.Context, req announcement.Request) (deferred bool, err error) {
	if req.Deferred(d.now()) {
		if d.scheduler == nil {
			return true, ErrNoScheduler
		}
		return true, d.scheduler.RunAt(ctx, *req.AnnounceAt, req)
	}

	_, err = d.sender.Send(ctx, req)
	return false, err
}

// Send is the synchronous path, used for due jobs and test messages.
func (d *Dispatcher) Send(ctx context.Context, req announcement.Request) (Result, error) {
	return d.sender.Send(ctx, req)
}
