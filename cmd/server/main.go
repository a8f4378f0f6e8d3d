package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirecircle/internal/app"
	"github.com/vovakirdan/wirecircle/internal/config"
	"github.com/vovakirdan/wirecircle/internal/log"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
	)

	cmd := &cobra.Command{
		Use:           "wirecircle",
		Short:         "Real-time chat relay for named circles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := resolveConfig(log.New(overrides.LogLevel), configPath, overrides)
			if err != nil {
				return err
			}

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Int("max_history", cfg.MaxHistory).Msg("starting wirecircle")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}
			if err := application.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to config.yaml")
	flags.StringVar(&overrides.Addr, "addr", "", "HTTP listen address")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.IntVar(&overrides.MaxHistory, "max-history", 0, "messages kept per circle")
	flags.StringVar(&overrides.StaticDir, "static-dir", "", "directory served for non-API paths")

	return cmd
}

// resolveConfig loads the config file and environment, then applies flag
// overrides before validating.
func resolveConfig(logger *zerolog.Logger, path string, overrides config.Config) (config.Config, string, error) {
	cfg, resolved, err := config.Load(logger, path)
	if err != nil {
		return cfg, resolved, err
	}
	cfg.UpdateFrom(overrides)
	if err := cfg.Validate(); err != nil {
		return cfg, resolved, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, resolved, nil
}
