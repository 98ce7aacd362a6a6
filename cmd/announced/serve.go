package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/byceps/announce/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API and the job engine",
	Long: `Run the admin API and the job engine.

Events are accepted with POST /events/{name}. Scheduled announcements are
delivered by the job engine once they are due. SIGINT or SIGTERM stops
accepting events and waits for in-flight deliveries.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, a, logger, err := setup()
		if err != nil {
			return err
		}
		defer a.Store().Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := a.Store().Migrate(ctx); err != nil {
			return err
		}
		if err := a.Start(ctx); err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           api.NewHandler(a, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("admin API listening", "addr", cfg.Listen, "store", cfg.Store.Backend)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil {
				return err
			}
		}

		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.ShutdownTimeout)
		defer cancel()

		httpErr := srv.Shutdown(shutdownCtx)
		return errors.Join(httpErr, a.Stop(shutdownCtx))
	},
}
