package failure

import (
	"context"
	"log/slog"
	"time"

	"github.com/byceps/announce/id"
)

// Service manages the failure log.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a failure log service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Record stores an entry. Storage errors are logged, not returned: the
// failure log must never turn one failure into two.
func (svc *Service) Record(ctx context.Context, e *Entry) {
	if err := svc.store.RecordFailure(ctx, e); err != nil {
		svc.logger.ErrorContext(ctx, "record failure",
			"error_kind", string(e.Kind),
			"event_name", e.EventName,
			"webhook_id", e.WebhookID.String(),
			"error", err,
		)
	}
}

// List returns entries matching the given options.
func (svc *Service) List(ctx context.Context, opts ListOpts) ([]*Entry, error) {
	return svc.store.ListFailures(ctx, opts)
}

// Get returns an entry by ID.
func (svc *Service) Get(ctx context.Context, failID id.ID) (*Entry, error) {
	return svc.store.GetFailure(ctx, failID)
}

// Delete removes an entry.
func (svc *Service) Delete(ctx context.Context, failID id.ID) error {
	return svc.store.DeleteFailure(ctx, failID)
}

// Purge removes entries older than before.
func (svc *Service) Purge(ctx context.Context, before time.Time) (int64, error) {
	return svc.store.PurgeFailures(ctx, before)
}

// Count returns the total number of entries.
func (svc *Service) Count(ctx context.Context) (int64, error) {
	return svc.store.CountFailures(ctx)
}
