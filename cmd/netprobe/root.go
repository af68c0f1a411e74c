package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/jonwraymond/netresilience/config"
)

type rootOptions struct {
	cfgPath string
	envFile string
	isDebug bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "netprobe",
		Short:         "Reachability monitor and resilient fetcher",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadEnv(opts.envFile)
			initLogging(opts.isDebug)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgPath, "config", "netprobe.yaml", "config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config")
	cmd.PersistentFlags().BoolVar(&opts.isDebug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newProbeCmd(opts),
		newFetchCmd(opts),
	)
	return cmd
}

// loadEnv loads a dotenv file. A missing file is not an error.
func loadEnv(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load env file", "path", path, "error", err)
	}
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	stylelog.InitDefault(&tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})
}

func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context(), o.cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "path", o.cfgPath, "error", err)
		return nil, err
	}
	if o.isDebug {
		cfg.Observe.Logging.Level = "debug"
	}
	return cfg, nil
}
