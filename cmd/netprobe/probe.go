package main

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/netresilience/health"
)

var errUnreachable = errors.New("server unreachable")

func newProbeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Probe the server once and print the network status",
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
			defer func() { _ = a.close(ctx) }()

			ok := a.prober.CheckServerHealth(ctx, cfg.Server.BaseURL)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(health.NewStatusResponse(a.tracker.Status())); err != nil {
				return err
			}
			if !ok {
				slog.Warn("Server unreachable", "base_url", cfg.Server.BaseURL)
				return errUnreachable
			}
			return nil
		},
	}
}
