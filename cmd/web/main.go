package main

import (
	"fmt"
	"os"

	"github.com/de-tools/grid-weekly-report/pkg/app"
	"github.com/de-tools/grid-weekly-report/pkg/config"
	"github.com/de-tools/grid-weekly-report/pkg/logging"
	"github.com/de-tools/grid-weekly-report/pkg/scheduler"
	"github.com/de-tools/grid-weekly-report/pkg/server"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the weekly report web service",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the configuration file (environment variables WEEKLY_REPORT_* override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser, err := logging.New(cfg.Log, cfg.Logstash)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logCloser.Close()

	ctx := logger.WithContext(cmd.Context())

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report pipeline: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close warehouse")
		}
	}()

	if cfg.Schedule.Cron != "" {
		sched, err := scheduler.New(logger, a.Runner, cfg.Schedule.Cron)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		sched.Start(ctx)
		defer sched.Stop()
	}

	deps := server.Dependencies{
		Runner:  a.Runner,
		Metrics: a.Metrics.Handler(),
	}
	if a.History != nil {
		deps.History = a.History
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:         cfg.HTTP.Addr(),
		Secret:       cfg.HTTP.Secret,
		Dependencies: deps,
	})

	logger.Info().Msgf("configuration loaded, dumping reports to `%s`", cfg.DumpFolder)

	return webAPI.Start()
}
