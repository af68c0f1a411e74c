package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/netresilience/health"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Probe the server periodically and expose status and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			a, err := newApp(ctx, cfg)
			if err != nil {
				slog.Error("Failed to initialize", "error", err)
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := a.close(shutdownCtx); err != nil {
					slog.Error("Error during telemetry shutdown", "error", err)
				}
			}()

			errCh := make(chan error, 2)

			if cfg.Health.Enabled {
				mon := health.NewMonitor(a.prober, cfg.Server.BaseURL, health.WithInterval(cfg.Health.Interval))
				go func() {
					slog.Info("Health monitor started", "base_url", cfg.Server.BaseURL, "interval", mon.Interval())
					if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						errCh <- err
					}
				}()
			}

			var srv *http.Server
			if cfg.Listen.Address != "" {
				srv = &http.Server{
					Addr:              cfg.Listen.Address,
					Handler:           a.handler(),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					slog.Info("Listening", "address", cfg.Listen.Address)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						errCh <- err
					}
				}()
			}

			select {
			case <-ctx.Done():
				slog.Info("Shutting down")
			case err = <-errCh:
				slog.Error("Component failed", "error", err)
			}

			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if serr := srv.Shutdown(shutdownCtx); serr != nil {
					slog.Error("Error during server shutdown", "error", serr)
				}
			}
			return err
		},
	}
}
