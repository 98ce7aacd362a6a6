package extension

import (
	"log/slog"

	"github.com/byceps/announce"
	"github.com/byceps/announce/store"
)

// Option adjusts an Extension before Init.
type Option func(*Extension)

// WithStore is required; Init fails without it.
func WithStore(s store.Store) Option {
	return func(e *Extension) { e.store = s }
}

// WithLogger sets the logger passed to the Announcer and the admin API.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extension) { e.logger = l }
}

// WithPrefix sets the URL prefix of the admin API.
func WithPrefix(prefix string) Option {
	return func(e *Extension) { e.config.BasePath = prefix }
}

// WithConfig replaces the whole Config, including BasePath.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithAnnounceOption appends a raw announce.Option, applied after Config.
func WithAnnounceOption(opt announce.Option) Option {
	return func(e *Extension) { e.opts = append(e.opts, opt) }
}

// WithDisableRoutes leaves the admin API unmounted.
func WithDisableRoutes() Option {
	return func(e *Extension) { e.config.DisableRoutes = true }
}

// WithDisableMigrations skips store migrations on Init.
func WithDisableMigrations() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}
