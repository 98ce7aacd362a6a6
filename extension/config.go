package extension

import "github.com/byceps/announce"

// Config holds configuration for the extension. It can be set through
// options or loaded from YAML under an "announce" key.
type Config struct {
	// Config embeds the pipeline configuration.
	announce.Config `json:",inline" yaml:",inline"`

	// BasePath is the URL prefix of the admin API (default: "/announce").
	BasePath string `json:"base_path" yaml:"base_path"`

	// DisableRoutes leaves the admin API unmounted.
	DisableRoutes bool `json:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate skips store migrations on Init.
	DisableMigrate bool `json:"disable_migrate" yaml:"disable_migrate"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Config:   announce.DefaultConfig(),
		BasePath: "/announce",
	}
}

// ToAnnounceOptions converts the non-zero pipeline settings into options.
func (c Config) ToAnnounceOptions() []announce.Option {
	var opts []announce.Option

	if c.Concurrency > 0 {
		opts = append(opts, announce.WithConcurrency(c.Concurrency))
	}
	if c.PollInterval > 0 {
		opts = append(opts, announce.WithPollInterval(c.PollInterval))
	}
	if c.BatchSize > 0 {
		opts = append(opts, announce.WithBatchSize(c.BatchSize))
	}
	if c.RequestTimeout > 0 {
		opts = append(opts, announce.WithRequestTimeout(c.RequestTimeout))
	}
	if c.ShutdownTimeout > 0 {
		opts = append(opts, announce.WithShutdownTimeout(c.ShutdownTimeout))
	}
	if c.DirectoryCacheTTL > 0 {
		opts = append(opts, announce.WithDirectoryCacheTTL(c.DirectoryCacheTTL))
	}
	opts = append(opts, announce.WithFailureLog(c.FailureLogEnabled))

	return opts
}
