package announce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/assembly"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/event"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/format"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/logging"
	"github.com/byceps/announce/observability"
	"github.com/byceps/announce/registry"
	"github.com/byceps/announce/selector"
	"github.com/byceps/announce/store"
	"github.com/byceps/announce/webhook"
)

// TestText is the text sent by Test.
const TestText = "Test, test … is this thing on?!"

const testEventName = "webhook-test"

func (a *Announcer) wireServices() error {
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.config.Concurrency <= 0 {
		a.config.Concurrency = 1
	}

	if a.registry == nil {
		r, err := assembly.NewRegistry()
		if err != nil {
			return fmt.Errorf("announce: build registry: %w", err)
		}
		a.registry = r
	}

	known := a.registry.KnownNames()
	a.webhooks = webhook.NewService(a.store, a.logger,
		webhook.WithCacheTTL(a.config.DirectoryCacheTTL),
		webhook.WithKnownNames(func(name string) bool {
			_, found := slices.BinarySearch(known, name)
			return found
		}),
	)
	a.failures = failure.NewService(a.store, a.logger)

	a.sender = delivery.NewSender(a.config.RequestTimeout)
	if a.scheduler == nil {
		a.scheduler = delivery.NewStoreScheduler(a.store)
	}
	_, a.ownJobs = a.scheduler.(*delivery.StoreScheduler)
	a.dispatcher = delivery.NewDispatcher(a.sender, a.scheduler)

	var recorder delivery.FailureRecorder
	if a.config.FailureLogEnabled {
		recorder = a.failures
	}
	a.engine = delivery.NewEngine(a.store, a.sender, recorder, delivery.EngineConfig{
		Concurrency:  a.config.Concurrency,
		PollInterval: a.config.PollInterval,
		BatchSize:    a.config.BatchSize,
		Metrics:      a.metrics,
		Tracer:       a.tracer,
	}, a.logger)

	a.sem = make(chan struct{}, a.config.Concurrency)
	return nil
}

// Announce renders ev for every enabled webhook subscribed to its name and
// delivers or schedules the result. Deliveries to different webhooks run in
// parallel and never affect each other.
//
// Every failure is logged and, when enabled, recorded in the failure log.
// The returned error joins the per-webhook failures for callers that want
// to inspect them. An event without a registered name or handler returns
// ErrUnregisteredEvent before any webhook is looked up.
func (a *Announcer) Announce(ctx context.Context, ev event.Event) error {
	a.mu.RLock()
	if a.stopped {
		a.mu.RUnlock()
		return ErrStopped
	}
	a.inflight.Add(1)
	a.mu.RUnlock()
	defer a.inflight.Done()

	name, err := a.registry.NameFor(ev)
	if err != nil {
		a.surface(ctx, failure.KindUnregisteredEvent, ev.Kind().String(), id.Nil, "", err)
		return err
	}
	handler := a.registry.HandlerFor(ev.Kind())
	if handler == nil {
		err := fmt.Errorf("%w: %s has no handler", registry.ErrUnregisteredEvent, ev.Kind())
		a.surface(ctx, failure.KindUnregisteredEvent, name, id.Nil, "", err)
		return err
	}

	ctx = logging.WithLogFields(ctx, logging.LogFields{EventName: name})

	var span trace.Span
	if a.tracer != nil {
		ctx, span = a.tracer.StartAnnounceSpan(ctx, name)
		defer span.End()
	}

	a.metrics.RecordEvent(name)

	whs, err := a.webhooks.ListEnabledFor(ctx, name)
	if err != nil {
		return fmt.Errorf("announce: list webhooks for %s: %w", name, err)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, wh := range whs {
		select {
		case a.sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return errors.Join(append(errs, ctx.Err())...)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-a.sem }()

			if err := a.announceTo(ctx, name, handler, ev, wh); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// announceTo runs selector, handler, encoder and dispatcher for one webhook.
func (a *Announcer) announceTo(ctx context.Context, name string, handler announcement.Handler, ev event.Event, wh *webhook.Webhook) error {
	ctx = logging.WithLogFields(ctx, logging.LogFields{WebhookID: wh.ID.String()})

	if err := wh.CheckConfig(); err != nil {
		a.surface(ctx, failure.KindWebhookConfigMalformed, name, wh.ID, wh.URL, err)
		return err
	}

	if !selector.Matches(name, wh, ev) {
		return nil
	}

	ann := handler(name, ev, wh)
	if ann == nil {
		a.logger.DebugContext(ctx, "announcement suppressed",
			"event_name", name,
			"webhook_id", wh.ID.String(),
		)
		return nil
	}

	req, err := format.Build(wh, ann, name, a.logger)
	if err != nil {
		a.surface(ctx, failure.KindWebhookConfigMalformed, name, wh.ID, wh.URL, err)
		return err
	}

	start := time.Now()
	deferred, err := a.dispatcher.Deliver(ctx, req)
	latency := time.Since(start).Seconds()

	switch {
	case err != nil:
		a.metrics.RecordDelivery("failed", latency)
		a.surface(ctx, failure.KindWebhookFailure, name, wh.ID, wh.URL, err)
		return err
	case deferred:
		a.metrics.RecordDelivery("scheduled", 0)
		if a.ownJobs {
			a.metrics.JobScheduled()
		}
		a.logger.DebugContext(ctx, "announcement scheduled",
			"event_name", name,
			"webhook_id", wh.ID.String(),
			"announce_at", req.AnnounceAt,
		)
	default:
		a.metrics.RecordDelivery("delivered", latency)
	}

	return nil
}

// surface logs a pipeline failure and records it in the failure log.
func (a *Announcer) surface(ctx context.Context, kind failure.Kind, eventName string, whID id.ID, url string, err error) {
	level := slog.LevelWarn
	if kind == failure.KindUnregisteredEvent {
		level = slog.LevelError
	}

	a.logger.Log(ctx, level, "announcement failed",
		"event_name", eventName,
		"webhook_id", whID.String(),
		"error_kind", string(kind),
		"details", err.Error(),
	)

	a.metrics.RecordFailure(string(kind))

	if a.config.FailureLogEnabled {
		a.failures.Record(ctx, failure.New(kind, eventName, whID, url, err))
	}
}

// Test sends TestText to a webhook right away and returns any error to the
// caller. Nothing is logged or recorded as a failure.
func (a *Announcer) Test(ctx context.Context, whID id.ID) (delivery.Result, error) {
	wh, err := a.webhooks.Get(ctx, whID)
	if err != nil {
		return delivery.Result{}, err
	}

	req, err := format.Build(wh, &announcement.Announcement{Text: TestText}, testEventName, a.logger)
	if err != nil {
		return delivery.Result{}, err
	}

	return a.dispatcher.Send(ctx, req)
}

// Start begins running scheduled jobs as they fall due.
func (a *Announcer) Start(ctx context.Context) error {
	a.mu.RLock()
	stopped := a.stopped
	a.mu.RUnlock()
	if stopped {
		return ErrStopped
	}

	a.engine.Start(ctx)
	a.logger.InfoContext(ctx, "announcer started",
		"concurrency", a.config.Concurrency,
		"poll_interval", a.config.PollInterval,
	)
	return nil
}

// Stop stops accepting events and waits for in-flight announcements and
// scheduled jobs, bounded by the shutdown timeout.
func (a *Announcer) Stop(ctx context.Context) error {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()

	if a.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.ShutdownTimeout)
		defer cancel()
	}

	done := make(chan struct{})
	go func() {
		a.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("announce: waiting for in-flight announcements: %w", ctx.Err())
	}

	if err := a.engine.Stop(ctx); err != nil {
		return fmt.Errorf("announce: stopping job engine: %w", err)
	}

	a.logger.InfoContext(ctx, "announcer stopped")
	return nil
}

// Webhooks returns the webhook directory service.
func (a *Announcer) Webhooks() *webhook.Service { return a.webhooks }

// Failures returns the failure log service.
func (a *Announcer) Failures() *failure.Service { return a.failures }

// Registry returns the event registry.
func (a *Announcer) Registry() *registry.Registry { return a.registry }

// Store returns the underlying store.
func (a *Announcer) Store() store.Store { return a.store }

// Config returns the effective configuration.
func (a *Announcer) Config() Config { return a.config }

// Metrics returns the metrics recorder, which may be nil.
func (a *Announcer) Metrics() *observability.Metrics { return a.metrics }
