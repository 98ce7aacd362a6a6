// Package memory provides an in-memory Store implementation for tests and
// single-process deployments. Nothing survives a restart.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/byceps/announce"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/id"
	announcestore "github.com/byceps/announce/store"
	"github.com/byceps/announce/webhook"
)

// compile-time interface check.
var _ announcestore.Store = (*Store)(nil)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu sync.RWMutex

	webhooks map[string]*webhook.Webhook // keyed by ID string
	jobs     map[string]*delivery.Job    // keyed by ID string
	locked   map[string]bool             // simulates SKIP LOCKED
	failures map[string]*failure.Entry   // keyed by ID string

	closed bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		webhooks: make(map[string]*webhook.Webhook),
		jobs:     make(map[string]*delivery.Job),
		locked:   make(map[string]bool),
		failures: make(map[string]*failure.Entry),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────

// Migrate is a no-op for the in-memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping fails once the store is closed.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return announce.ErrStoreClosed
	}
	return nil
}

// Close marks the store as closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ──────────────────────────────────────────────────
// webhook.Store
// ──────────────────────────────────────────────────

// copyWebhook returns a copy that shares no slices with wh.
func copyWebhook(wh *webhook.Webhook) *webhook.Webhook {
	cp := *wh
	cp.EventTypes = slices.Clone(wh.EventTypes)
	cp.EventFilters = slices.Clone(wh.EventFilters)
	cp.ExtraFields = slices.Clone(wh.ExtraFields)
	return &cp
}

// CreateWebhook persists a new webhook.
func (s *Store) CreateWebhook(_ context.Context, wh *webhook.Webhook) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.webhooks[wh.ID.String()] = copyWebhook(wh)
	return nil
}

// GetWebhook returns a webhook by ID.
func (s *Store) GetWebhook(_ context.Context, whID id.ID) (*webhook.Webhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wh, ok := s.webhooks[whID.String()]
	if !ok {
		return nil, announce.ErrWebhookNotFound
	}
	return copyWebhook(wh), nil
}

// UpdateWebhook replaces an existing webhook.
func (s *Store) UpdateWebhook(_ context.Context, wh *webhook.Webhook) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.webhooks[wh.ID.String()]; !ok {
		return announce.ErrWebhookNotFound
	}
	wh.Touch()
	s.webhooks[wh.ID.String()] = copyWebhook(wh)
	return nil
}

// DeleteWebhook removes a webhook.
func (s *Store) DeleteWebhook(_ context.Context, whID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.webhooks[whID.String()]; !ok {
		return announce.ErrWebhookNotFound
	}
	delete(s.webhooks, whID.String())
	return nil
}

// ListWebhooks returns webhooks ordered by ID, optionally filtered.
func (s *Store) ListWebhooks(_ context.Context, opts webhook.ListOpts) ([]*webhook.Webhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*webhook.Webhook, 0, len(s.webhooks))
	for _, wh := range s.webhooks {
		if opts.Enabled != nil && wh.Enabled != *opts.Enabled {
			continue
		}
		if opts.Format != "" && wh.Format != opts.Format {
			continue
		}
		result = append(result, copyWebhook(wh))
	}

	sortByID(result)

	result = applyPagination(result, opts.Offset, opts.Limit)
	return result, nil
}

// ListEnabledFor returns the enabled webhooks subscribed to eventName.
func (s *Store) ListEnabledFor(_ context.Context, eventName string) ([]*webhook.Webhook, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*webhook.Webhook
	for _, wh := range s.webhooks {
		if !wh.Enabled || !wh.Subscribes(eventName) {
			continue
		}
		result = append(result, copyWebhook(wh))
	}

	sortByID(result)
	return result, nil
}

// SetEnabled enables or disables a webhook.
func (s *Store) SetEnabled(_ context.Context, whID id.ID, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wh, ok := s.webhooks[whID.String()]
	if !ok {
		return announce.ErrWebhookNotFound
	}
	wh.Enabled = enabled
	wh.Touch()
	return nil
}

// ──────────────────────────────────────────────────
// delivery.Store
// ──────────────────────────────────────────────────

// copyJob returns a shallow copy of the job.
func copyJob(j *delivery.Job) *delivery.Job {
	cp := *j
	return &cp
}

// Schedule persists a pending job.
func (s *Store) Schedule(_ context.Context, j *delivery.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[j.ID.String()] = copyJob(j)
	return nil
}

// Dequeue claims due pending jobs (concurrent-safe). Returns copies so
// callers can mutate without holding a lock.
func (s *Store) Dequeue(_ context.Context, limit int) ([]*delivery.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	candidates := make([]*delivery.Job, 0, len(s.jobs))

	for _, j := range s.jobs {
		if j.State != delivery.StatePending {
			continue
		}
		if j.RunAt.After(now) {
			continue
		}
		if s.locked[j.ID.String()] {
			continue
		}
		candidates = append(candidates, j)
	}

	sort.Slice(candidates, func(i, k int) bool {
		return candidates[i].RunAt.Before(candidates[k].RunAt)
	})

	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}

	result := make([]*delivery.Job, 0, len(candidates))
	for _, j := range candidates {
		s.locked[j.ID.String()] = true
		result = append(result, copyJob(j))
	}

	return result, nil
}

// UpdateJob records a job's outcome and releases its claim.
func (s *Store) UpdateJob(_ context.Context, j *delivery.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[j.ID.String()]; !ok {
		return announce.ErrJobNotFound
	}
	j.Touch()
	s.jobs[j.ID.String()] = copyJob(j)
	delete(s.locked, j.ID.String())
	return nil
}

// GetJob returns a copy of the job by ID.
func (s *Store) GetJob(_ context.Context, jobID id.ID) (*delivery.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[jobID.String()]
	if !ok {
		return nil, announce.ErrJobNotFound
	}
	return copyJob(j), nil
}

// ListJobs returns jobs ordered by RunAt.
func (s *Store) ListJobs(_ context.Context, opts delivery.ListOpts) ([]*delivery.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*delivery.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if opts.State != nil && j.State != *opts.State {
			continue
		}
		result = append(result, copyJob(j))
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].RunAt.Before(result[k].RunAt)
	})

	result = applyPagination(result, opts.Offset, opts.Limit)
	return result, nil
}

// CountPending returns the number of jobs not yet attempted.
func (s *Store) CountPending(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, j := range s.jobs {
		if j.State == delivery.StatePending {
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// failure.Store
// ──────────────────────────────────────────────────

// RecordFailure appends an entry.
func (s *Store) RecordFailure(_ context.Context, e *failure.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[e.ID.String()] = e
	return nil
}

// ListFailures returns entries, newest first.
func (s *Store) ListFailures(_ context.Context, opts failure.ListOpts) ([]*failure.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*failure.Entry, 0, len(s.failures))
	for _, e := range s.failures {
		if !opts.Matches(e) {
			continue
		}
		result = append(result, e)
	}

	sort.Slice(result, func(i, k int) bool {
		if result[i].FailedAt.Equal(result[k].FailedAt) {
			return result[i].ID.Compare(result[k].ID) > 0
		}
		return result[i].FailedAt.After(result[k].FailedAt)
	})

	result = applyPagination(result, opts.Offset, opts.Limit)
	return result, nil
}

// GetFailure returns an entry by ID.
func (s *Store) GetFailure(_ context.Context, failID id.ID) (*failure.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.failures[failID.String()]
	if !ok {
		return nil, announce.ErrFailureNotFound
	}
	return e, nil
}

// DeleteFailure removes an entry.
func (s *Store) DeleteFailure(_ context.Context, failID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.failures[failID.String()]; !ok {
		return announce.ErrFailureNotFound
	}
	delete(s.failures, failID.String())
	return nil
}

// PurgeFailures deletes entries that failed before a threshold.
func (s *Store) PurgeFailures(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for k, e := range s.failures {
		if e.FailedAt.Before(before) {
			delete(s.failures, k)
			count++
		}
	}
	return count, nil
}

// CountFailures returns the total number of entries.
func (s *Store) CountFailures(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.failures)), nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func sortByID(whs []*webhook.Webhook) {
	sort.Slice(whs, func(i, k int) bool {
		return whs[i].ID.Compare(whs[k].ID) < 0
	})
}

func applyPagination[T any](items []*T, offset, limit int) []*T {
	if offset > 0 && offset < len(items) {
		items = items[offset:]
	} else if offset >= len(items) && offset > 0 {
		return nil
	}

	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}
