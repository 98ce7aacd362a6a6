package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/byceps/announce"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/registry"
	"github.com/byceps/announce/webhook"
)

// Stats summarizes the pipeline state.
type Stats struct {
	Webhooks        int   `json:"webhooks"`
	EnabledWebhooks int   `json:"enabled_webhooks"`
	EventNames      int   `json:"event_names"`
	PendingJobs     int64 `json:"pending_jobs"`
	Failures        int64 `json:"failures"`
}

// TestResult is the outcome of a test delivery the target accepted.
type TestResult struct {
	StatusCode int `json:"status_code"`
	LatencyMs  int `json:"latency_ms"`
}

// AnnounceResult reports an announced event. Failures lists the
// per-webhook errors of the fan-out; they are logged and recorded as well.
type AnnounceResult struct {
	EventName string   `json:"event_name"`
	Failures  []string `json:"failures"`
}

func collectStats(ctx context.Context, a *announce.Announcer) (*Stats, error) {
	whs, err := a.Webhooks().List(ctx, webhook.ListOpts{})
	if err != nil {
		return nil, err
	}
	pending, err := a.Store().CountPending(ctx)
	if err != nil {
		return nil, err
	}
	failures, err := a.Failures().Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Webhooks:    len(whs),
		EventNames:  len(a.Registry().KnownNames()),
		PendingJobs: pending,
		Failures:    failures,
	}
	for _, wh := range whs {
		if wh.Enabled {
			stats.EnabledWebhooks++
		}
	}
	return stats, nil
}

// DecodeEvent decodes body as an event of the kind registered under name.
// A missing occurred_at is stamped with the current time.
func DecodeEvent(reg *registry.Registry, name string, body []byte) (event.Event, error) {
	kind, err := reg.KindFor(name)
	if err != nil {
		return nil, err
	}

	body, err = stampOccurredAt(body)
	if err != nil {
		return nil, err
	}

	ev, err := event.Decode(kind, body)
	if err != nil {
		if errors.Is(err, event.ErrUnknownKind) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return ev, nil
}

func announceJSON(ctx context.Context, a *announce.Announcer, name string, body []byte) (*AnnounceResult, error) {
	ev, err := DecodeEvent(a.Registry(), name, body)
	if err != nil {
		return nil, err
	}

	res := &AnnounceResult{EventName: name, Failures: []string{}}

	err = a.Announce(ctx, ev)
	if errors.Is(err, announce.ErrStopped) {
		return nil, err
	}
	if err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				res.Failures = append(res.Failures, e.Error())
			}
		} else {
			res.Failures = append(res.Failures, err.Error())
		}
	}
	return res, nil
}

func stampOccurredAt(body []byte) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if fields == nil {
		return nil, invalidRequest("event body must be a JSON object")
	}
	if _, ok := fields["occurred_at"]; ok {
		return body, nil
	}

	ts, err := json.Marshal(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	fields["occurred_at"] = ts
	return json.Marshal(fields)
}
