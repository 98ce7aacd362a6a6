// Command announced runs the announcement pipeline: it serves the admin API,
// accepts events over HTTP and delivers scheduled announcements.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/byceps/announce"
	"github.com/byceps/announce/internal/logging"
	announcestore "github.com/byceps/announce/store"
	"github.com/byceps/announce/store/file"
	"github.com/byceps/announce/store/memory"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:           "announced",
	Short:         "Announce BYCEPS events to chat webhooks",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with ANNOUNCE_* overrides")

	rootCmd.AddCommand(serveCmd, webhooksCmd, namesCmd, emitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration, installs the logger and opens the store.
// The caller closes the returned Announcer's store.
func setup() (config, *announce.Announcer, *slog.Logger, error) {
	cfg, err := loadConfig(configPath, envFile)
	if err != nil {
		return cfg, nil, nil, err
	}

	logger, err := logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return cfg, nil, nil, err
	}

	// Reloads of the webhook file drop the directory cache of the
	// Announcer, which only exists once the store is open.
	var current atomic.Pointer[announce.Announcer]
	onReload := func(int) {
		if a := current.Load(); a != nil {
			a.Webhooks().InvalidateCache()
		}
	}

	s, err := openStore(cfg, logger, onReload)
	if err != nil {
		return cfg, nil, nil, err
	}

	a, err := announce.New(
		announce.WithStore(s),
		announce.WithLogger(logger),
		announce.WithConfig(cfg.Pipeline),
	)
	if err != nil {
		_ = s.Close()
		return cfg, nil, nil, err
	}
	current.Store(a)
	return cfg, a, logger, nil
}

func openStore(cfg config, logger *slog.Logger, onReload func(int)) (announcestore.Store, error) {
	switch cfg.Store.Backend {
	case backendMemory:
		return memory.New(), nil
	case backendFile:
		return file.New(cfg.Store.WebhookFile,
			file.WithLogger(logger),
			file.WithOnReload(onReload),
		)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}
