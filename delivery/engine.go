package delivery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/observability"
)

// EngineStore is the interface the engine needs for job operations.
type EngineStore interface {
	Dequeue(ctx context.Context, limit int) ([]*Job, error)
	UpdateJob(ctx context.Context, j *Job) error
}

// FailureRecorder receives the failures of due jobs.
type FailureRecorder interface {
	Record(ctx context.Context, e *failure.Entry)
}

// EngineConfig holds engine configuration.
type EngineConfig struct {
	Concurrency  int
	PollInterval time.Duration
	BatchSize    int
	Metrics      *observability.Metrics
	Tracer       *observability.Tracer
}

// Engine runs scheduled jobs once they fall due. Each job is attempted
// exactly once.
type Engine struct {
	store    EngineStore
	sender   *Sender
	failures FailureRecorder
	config   EngineConfig
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates a job engine. failures may be nil.
func NewEngine(store EngineStore, sender *Sender, failures FailureRecorder, cfg EngineConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Engine{
		store:    store,
		sender:   sender,
		failures: failures,
		config:   cfg,
		logger:   logger,
	}
}

// Start begins the poll loop.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.pollLoop(ctx)
	}()
}

// Stop cancels the poll loop and waits for in-flight jobs, or until ctx
// is done.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollLoop periodically dequeues due jobs and dispatches them to workers.
func (e *Engine) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(e.config.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, e.config.Concurrency)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			batch, err := e.store.Dequeue(ctx, e.config.BatchSize)
			if err != nil {
				e.logger.ErrorContext(ctx, "dequeue failed", "error", err)
				continue
			}

			for _, j := range batch {
				select {
				case <-ctx.Done():
					return
				case sem <- struct{}{}:
				}

				e.wg.Add(1)
				go func(job *Job) {
					defer e.wg.Done()
					defer func() { <-sem }()
					// Jobs already claimed are finished even when the loop
					// is being stopped.
					e.process(context.WithoutCancel(ctx), job)
				}(j)
			}
		}
	}
}

// process sends one job and records its outcome.
func (e *Engine) process(ctx context.Context, j *Job) {
	req := j.Request

	var span trace.Span
	if e.config.Tracer != nil {
		ctx, span = e.config.Tracer.StartDeliverySpan(ctx, req.EventName, req.WebhookID.String(), j.ID.String())
	}

	res, err := e.sender.Send(ctx, req)

	now := time.Now().UTC()
	j.CompletedAt = &now
	j.LastStatusCode = res.StatusCode
	j.LastLatencyMs = res.LatencyMs
	latencySeconds := float64(res.LatencyMs) / 1000.0

	if err != nil {
		j.State = StateFailed
		j.LastError = err.Error()

		e.logger.WarnContext(ctx, "scheduled announcement failed",
			"event_name", req.EventName,
			"webhook_id", req.WebhookID.String(),
			"error_kind", string(failure.KindWebhookFailure),
			"details", err.Error(),
			"job_id", j.ID.String(),
		)
		if e.failures != nil {
			e.failures.Record(ctx, failure.New(failure.KindWebhookFailure, req.EventName, req.WebhookID, req.URL, err))
		}
		e.config.Metrics.RecordDelivery("failed", latencySeconds)
		e.config.Metrics.RecordFailure(string(failure.KindWebhookFailure))
	} else {
		j.State = StateDelivered

		e.logger.DebugContext(ctx, "scheduled announcement delivered",
			"event_name", req.EventName,
			"webhook_id", req.WebhookID.String(),
			"job_id", j.ID.String(),
			"status", res.StatusCode,
			"latency_ms", res.LatencyMs,
		)
		e.config.Metrics.RecordDelivery("delivered", latencySeconds)
	}
	e.config.Metrics.JobCompleted()

	if span != nil {
		e.config.Tracer.EndDeliverySpan(span, res.StatusCode, res.LatencyMs, err)
	}

	if updateErr := e.store.UpdateJob(ctx, j); updateErr != nil {
		e.logger.ErrorContext(ctx, "update job failed",
			"job_id", j.ID.String(), "error", updateErr)
	}
}
