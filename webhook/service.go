package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/entity"
)

// ErrNotFound is returned by stores when a webhook does not exist.
var ErrNotFound = errors.New("announce: webhook not found")

// Service is the webhook directory: admin CRUD plus the lookup the
// pipeline performs for every event.
type Service struct {
	store     Store
	logger    *slog.Logger
	cacheTTL  time.Duration
	knownName func(string) bool

	mu    sync.RWMutex
	cache map[string]cachedList
}

type cachedList struct {
	webhooks []*Webhook
	loadedAt time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCacheTTL caches ListEnabledFor results per event name. Writes through
// the service invalidate the cache immediately.
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) { s.cacheTTL = ttl }
}

// WithKnownNames rejects event types for which known returns false.
func WithKnownNames(known func(string) bool) ServiceOption {
	return func(s *Service) { s.knownName = known }
}

// NewService creates a webhook service.
func NewService(store Store, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:  store,
		logger: logger,
		cache:  make(map[string]cachedList),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates in and stores a new webhook.
func (svc *Service) Create(ctx context.Context, in Input) (*Webhook, error) {
	if err := svc.validate(in); err != nil {
		return nil, err
	}

	wh := &Webhook{
		Entity:       entity.New(),
		ID:           id.NewWebhookID(),
		EventTypes:   slices.Clone(in.EventTypes),
		EventFilters: in.EventFilters,
		Format:       in.Format,
		TextPrefix:   in.TextPrefix,
		ExtraFields:  in.ExtraFields,
		URL:          in.URL,
		Description:  in.Description,
		Enabled:      in.Enabled,
	}

	if err := svc.store.CreateWebhook(ctx, wh); err != nil {
		return nil, err
	}
	svc.invalidate()

	svc.logger.InfoContext(ctx, "webhook created",
		"webhook_id", wh.ID.String(),
		"format", string(wh.Format),
		"event_types", wh.EventTypes,
	)

	return wh, nil
}

// Get returns a webhook by ID, or ErrNotFound.
func (svc *Service) Get(ctx context.Context, whID id.ID) (*Webhook, error) {
	return svc.store.GetWebhook(ctx, whID)
}

// Find is Get for callers that treat absence as a normal outcome: an
// unknown ID yields nil and no error.
func (svc *Service) Find(ctx context.Context, whID id.ID) (*Webhook, error) {
	wh, err := svc.store.GetWebhook(ctx, whID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil //nolint:nilnil // absence is not an error here
	}
	return wh, err
}

// Update replaces every configurable field of a webhook.
func (svc *Service) Update(ctx context.Context, whID id.ID, in Input) (*Webhook, error) {
	if err := svc.validate(in); err != nil {
		return nil, err
	}

	wh, err := svc.store.GetWebhook(ctx, whID)
	if err != nil {
		return nil, err
	}

	wh.EventTypes = slices.Clone(in.EventTypes)
	wh.EventFilters = in.EventFilters
	wh.Format = in.Format
	wh.TextPrefix = in.TextPrefix
	wh.ExtraFields = in.ExtraFields
	wh.URL = in.URL
	wh.Description = in.Description
	wh.Enabled = in.Enabled
	wh.Touch()

	if err := svc.store.UpdateWebhook(ctx, wh); err != nil {
		return nil, err
	}
	svc.invalidate()

	return wh, nil
}

// Delete removes a webhook. Deferred jobs already scheduled for it still run.
func (svc *Service) Delete(ctx context.Context, whID id.ID) error {
	if err := svc.store.DeleteWebhook(ctx, whID); err != nil {
		return err
	}
	svc.invalidate()
	return nil
}

// List returns all webhooks, including disabled ones.
func (svc *Service) List(ctx context.Context, opts ListOpts) ([]*Webhook, error) {
	return svc.store.ListWebhooks(ctx, opts)
}

// SetEnabled enables or disables a webhook.
func (svc *Service) SetEnabled(ctx context.Context, whID id.ID, enabled bool) error {
	if err := svc.store.SetEnabled(ctx, whID, enabled); err != nil {
		return err
	}
	svc.invalidate()
	return nil
}

// ListEnabledFor returns the enabled webhooks subscribed to eventName,
// ordered by extra_fields.channel, then ID.
func (svc *Service) ListEnabledFor(ctx context.Context, eventName string) ([]*Webhook, error) {
	if cached, ok := svc.cached(eventName); ok {
		return cached, nil
	}

	whs, err := svc.store.ListEnabledFor(ctx, eventName)
	if err != nil {
		return nil, err
	}

	// Stores filter already; a lagging cache or index must not leak
	// disabled or unsubscribed rows.
	whs = slices.DeleteFunc(whs, func(wh *Webhook) bool {
		return !wh.Enabled || !wh.Subscribes(eventName)
	})
	SortForDirectory(whs)

	if svc.cacheTTL > 0 {
		svc.mu.Lock()
		svc.cache[eventName] = cachedList{webhooks: whs, loadedAt: time.Now()}
		svc.mu.Unlock()
	}

	return whs, nil
}

// InvalidateCache drops all cached directory lookups.
func (svc *Service) InvalidateCache() {
	svc.invalidate()
}

func (svc *Service) cached(eventName string) ([]*Webhook, bool) {
	if svc.cacheTTL <= 0 {
		return nil, false
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()

	c, ok := svc.cache[eventName]
	if !ok || time.Since(c.loadedAt) > svc.cacheTTL {
		return nil, false
	}
	return c.webhooks, true
}

func (svc *Service) invalidate() {
	svc.mu.Lock()
	clear(svc.cache)
	svc.mu.Unlock()
}

// SortForDirectory orders webhooks by extra_fields.channel, then ID.
func SortForDirectory(whs []*Webhook) {
	channels := make(map[*Webhook]string, len(whs))
	for _, wh := range whs {
		channels[wh] = wh.Channel()
	}

	sort.SliceStable(whs, func(i, j int) bool {
		ci, cj := channels[whs[i]], channels[whs[j]]
		if ci != cj {
			return ci < cj
		}
		return whs[i].ID.Compare(whs[j].ID) < 0
	})
}

func (svc *Service) validate(in Input) error {
	if len(in.EventTypes) == 0 {
		return &ValidationError{Field: "event_types", Message: "at least one event type required"}
	}
	if svc.knownName != nil {
		for _, name := range in.EventTypes {
			if !svc.knownName(name) {
				return &ValidationError{Field: "event_types", Message: "unknown event name " + name}
			}
		}
	}

	if !in.Format.Supported() {
		return &ValidationError{Field: "format", Message: "unsupported format " + string(in.Format)}
	}

	u, err := url.Parse(in.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return &ValidationError{Field: "url", Message: "absolute URL required"}
	}

	filters, err := DecodeFilters(in.EventFilters)
	if err != nil {
		return &ValidationError{Field: "event_filters", Message: err.Error()}
	}
	for name := range filters {
		if !slices.Contains(in.EventTypes, name) {
			return &ValidationError{Field: "event_filters", Message: "filter for unsubscribed event " + name}
		}
	}

	if _, err := DecodeExtraFields(in.ExtraFields); err != nil {
		return &ValidationError{Field: "extra_fields", Message: err.Error()}
	}

	return nil
}

// ValidationError indicates invalid admin input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "webhook validation: " + e.Field + ": " + e.Message
}
