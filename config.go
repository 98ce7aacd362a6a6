package announce

import "time"

// Config holds the configuration for an Announcer.
type Config struct {
	// Concurrency bounds parallel deliveries, both for the fan-out of
	// announced events and for scheduled jobs.
	Concurrency int `yaml:"concurrency"`

	// PollInterval is how often the job engine checks for due jobs.
	PollInterval time.Duration `yaml:"poll_interval"`

	// BatchSize is the maximum number of jobs dequeued per poll cycle.
	BatchSize int `yaml:"batch_size"`

	// RequestTimeout is the total time allowed per POST. It is capped at
	// ten seconds.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// ShutdownTimeout is the maximum time Stop waits for in-flight work.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// DirectoryCacheTTL is how long enabled-webhook lookups are cached per
	// event name. Set to 0 to disable caching.
	DirectoryCacheTTL time.Duration `yaml:"directory_cache_ttl"`

	// FailureLogEnabled persists every surfaced failure.
	FailureLogEnabled bool `yaml:"failure_log_enabled"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency:       8,
		PollInterval:      1 * time.Second,
		BatchSize:         50,
		RequestTimeout:    10 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		DirectoryCacheTTL: 2 * time.Second,
		FailureLogEnabled: true,
	}
}
