package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/byceps/announce"
)

// Store backends the daemon can open on its own. The grove backends take a
// database handle the embedding application opens.
const (
	backendMemory = "memory"
	backendFile   = "file"
)

type config struct {
	Listen string `yaml:"listen"`

	Store struct {
		Backend     string `yaml:"backend"`
		WebhookFile string `yaml:"webhook_file"`
	} `yaml:"store"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Pipeline announce.Config `yaml:"pipeline"`
}

func defaultConfig() config {
	var cfg config
	cfg.Listen = ":8080"
	cfg.Store.Backend = backendFile
	cfg.Store.WebhookFile = "webhooks.yaml"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Pipeline = announce.DefaultConfig()
	return cfg
}

// loadConfig reads the YAML file at path (if any) over the defaults, then
// applies ANNOUNCE_* variables from the environment and the env file.
func loadConfig(path, envFile string) (config, error) {
	cfg := defaultConfig()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c *config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("ANNOUNCE_LISTEN", &c.Listen)
	setString("ANNOUNCE_STORE", &c.Store.Backend)
	setString("ANNOUNCE_WEBHOOK_FILE", &c.Store.WebhookFile)
	setString("ANNOUNCE_LOG_LEVEL", &c.Log.Level)
	setString("ANNOUNCE_LOG_FORMAT", &c.Log.Format)

	if v, ok := os.LookupEnv("ANNOUNCE_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ANNOUNCE_CONCURRENCY: %w", err)
		}
		c.Pipeline.Concurrency = n
	}
	if v, ok := os.LookupEnv("ANNOUNCE_REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ANNOUNCE_REQUEST_TIMEOUT: %w", err)
		}
		c.Pipeline.RequestTimeout = d
	}
	if v, ok := os.LookupEnv("ANNOUNCE_FAILURE_LOG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ANNOUNCE_FAILURE_LOG: %w", err)
		}
		c.Pipeline.FailureLogEnabled = b
	}
	return nil
}

func (c *config) validate() error {
	var missing []string
	if c.Listen == "" {
		missing = append(missing, "listen")
	}
	switch c.Store.Backend {
	case backendMemory:
	case backendFile:
		if c.Store.WebhookFile == "" {
			missing = append(missing, "store.webhook_file")
		}
	default:
		return fmt.Errorf("unsupported store backend %q (want %s or %s)", c.Store.Backend, backendMemory, backendFile)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing config values: %v", missing)
	}
	return nil
}
