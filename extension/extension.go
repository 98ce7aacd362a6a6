package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/xraph/forge"

	"github.com/byceps/announce"
	"github.com/byceps/announce/api"
	"github.com/byceps/announce/store"
)

// ErrNotInitialized is returned when the extension is used before Init.
var ErrNotInitialized = errors.New("announce/extension: not initialized")

// Extension embeds an Announcer and its admin API into a host application.
type Extension struct {
	config Config
	store  store.Store
	logger *slog.Logger
	opts   []announce.Option

	announcer *announce.Announcer
}

// New creates an extension. Call Init before serving.
func New(opts ...Option) *Extension {
	e := &Extension{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init builds the Announcer and migrates the store unless disabled.
func (e *Extension) Init(ctx context.Context) error {
	opts := []announce.Option{
		announce.WithStore(e.store),
		announce.WithLogger(e.logger),
	}
	opts = append(opts, e.config.ToAnnounceOptions()...)
	opts = append(opts, e.opts...)

	a, err := announce.New(opts...)
	if err != nil {
		return fmt.Errorf("announce/extension: %w", err)
	}

	if !e.config.DisableMigrate {
		if err := e.store.Migrate(ctx); err != nil {
			return fmt.Errorf("announce/extension: migrate: %w", err)
		}
	}

	e.announcer = a
	return nil
}

// Announcer returns the Announcer built by Init, or nil before Init.
func (e *Extension) Announcer() *announce.Announcer { return e.announcer }

// Prefix returns the configured URL prefix without a trailing slash.
func (e *Extension) Prefix() string { return strings.TrimSuffix(e.config.BasePath, "/") }

// Start starts the job engine.
func (e *Extension) Start(ctx context.Context) error {
	if e.announcer == nil {
		return ErrNotInitialized
	}
	return e.announcer.Start(ctx)
}

// Stop stops accepting events and waits for in-flight work.
func (e *Extension) Stop(ctx context.Context) error {
	if e.announcer == nil {
		return nil
	}
	return e.announcer.Stop(ctx)
}

// Health pings the store.
func (e *Extension) Health(ctx context.Context) error {
	if e.announcer == nil {
		return ErrNotInitialized
	}
	return e.announcer.Store().Ping(ctx)
}

// Handler returns the admin API with the prefix stripped, for mounting at
// Prefix()+"/". With routes disabled it answers 404.
func (e *Extension) Handler() http.Handler {
	if e.announcer == nil || e.config.DisableRoutes {
		return http.NotFoundHandler()
	}
	return http.StripPrefix(e.Prefix(), api.NewHandler(e.announcer, e.logger))
}

// RegisterRoutes mounts the admin API on a Forge router under the prefix.
func (e *Extension) RegisterRoutes(router forge.Router, log forge.Logger) error {
	if e.announcer == nil {
		return ErrNotInitialized
	}
	if e.config.DisableRoutes {
		return nil
	}
	api.NewForgeAPI(e.announcer, log).WithPrefix(e.Prefix()).RegisterRoutes(router)
	return nil
}
