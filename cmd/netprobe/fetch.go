package main

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/netresilience/observe"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	var (
		fallback string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "fetch <path>",
		Short: "GET a path with retries, printing fallback data when offline",
		Args:  cobra.ExactArgs(1),
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

			path := args[0]
			ctx = observe.ContextWithRequest(ctx, observe.RequestMeta{Name: name})

			var fb []byte
			if fallback != "" {
				fb = []byte(fallback)
			}
			out, err := a.client.Fetch(ctx, http.MethodGet, path, nil, fb, cfg.Retry)
			if err != nil {
				slog.Error("Request failed", "path", path, "error", err)
				return err
			}
			if out.IsOffline {
				slog.Warn("Serving fallback data", "path", path, "reason", out.Error)
			}

			_, err = cmd.OutOrStdout().Write(append(out.Data, '\n'))
			return err
		},
	}

	cmd.Flags().StringVar(&fallback, "fallback", "", "body printed when the server is offline")
	cmd.Flags().StringVar(&name, "name", "", "logical request name for telemetry")
	return cmd
}
