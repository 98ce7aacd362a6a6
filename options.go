package announce

import (
	"log/slog"
	"sync"
	"time"

	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/observability"
	"github.com/byceps/announce/registry"
	"github.com/byceps/announce/store"
	"github.com/byceps/announce/webhook"
)

// Announcer is the root of the announcement pipeline.
type Announcer struct {
	config     Config
	store      store.Store
	registry   *registry.Registry
	webhooks   *webhook.Service
	failures   *failure.Service
	sender     *delivery.Sender
	scheduler  delivery.Scheduler
	dispatcher *delivery.Dispatcher
	// ownJobs is set when deferred jobs land in the store and the engine
	// runs them, so the pending gauge is balanced by JobCompleted.
	ownJobs bool
	engine     *delivery.Engine
	metrics    *observability.Metrics
	tracer     *observability.Tracer
	logger     *slog.Logger

	sem chan struct{}

	mu       sync.RWMutex
	stopped  bool
	inflight sync.WaitGroup
}

// Option configures an Announcer.
type Option func(*Announcer) error

// New creates an Announcer with the given options. Without WithRegistry the
// built-in bindings for every event kind are used.
func New(opts ...Option) (*Announcer, error) {
	a := &Announcer{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.store == nil {
		return nil, ErrNoStore
	}
	if err := a.wireServices(); err != nil {
		return nil, err
	}
	return a, nil
}

// WithStore sets the persistence backend.
func WithStore(s store.Store) Option {
	return func(a *Announcer) error {
		a.store = s
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Announcer) error {
		a.logger = logger
		return nil
	}
}

// WithRegistry replaces the built-in event registry.
func WithRegistry(r *registry.Registry) Option {
	return func(a *Announcer) error {
		a.registry = r
		return nil
	}
}

// WithScheduler replaces the store-backed scheduler for deferred
// announcements. The job engine still runs jobs already in the store.
func WithScheduler(s delivery.Scheduler) Option {
	return func(a *Announcer) error {
		a.scheduler = s
		return nil
	}
}

// WithMetrics enables metric recording.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Announcer) error {
		a.metrics = m
		return nil
	}
}

// WithTracer enables OpenTelemetry spans.
func WithTracer(t *observability.Tracer) Option {
	return func(a *Announcer) error {
		a.tracer = t
		return nil
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(a *Announcer) error {
		a.config = cfg
		return nil
	}
}

// WithConcurrency bounds parallel deliveries.
func WithConcurrency(n int) Option {
	return func(a *Announcer) error {
		a.config.Concurrency = n
		return nil
	}
}

// WithPollInterval sets how often the job engine checks for due jobs.
func WithPollInterval(d time.Duration) Option {
	return func(a *Announcer) error {
		a.config.PollInterval = d
		return nil
	}
}

// WithBatchSize sets the maximum number of jobs dequeued per poll cycle.
func WithBatchSize(n int) Option {
	return func(a *Announcer) error {
		a.config.BatchSize = n
		return nil
	}
}

// WithRequestTimeout sets the total time allowed per POST, at most ten
// seconds.
func WithRequestTimeout(d time.Duration) Option {
	return func(a *Announcer) error {
		a.config.RequestTimeout = d
		return nil
	}
}

// WithShutdownTimeout sets the maximum time Stop waits for in-flight work.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *Announcer) error {
		a.config.ShutdownTimeout = d
		return nil
	}
}

// WithDirectoryCacheTTL sets how long webhook lookups are cached.
func WithDirectoryCacheTTL(d time.Duration) Option {
	return func(a *Announcer) error {
		a.config.DirectoryCacheTTL = d
		return nil
	}
}

// WithFailureLog enables or disables persisting surfaced failures.
func WithFailureLog(enabled bool) Option {
	return func(a *Announcer) error {
		a.config.FailureLogEnabled = enabled
		return nil
	}
}
