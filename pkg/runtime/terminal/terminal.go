package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/app"
	"github.com/de-tools/grid-weekly-report/pkg/calendar"
	"github.com/de-tools/grid-weekly-report/pkg/config"
	"github.com/de-tools/grid-weekly-report/pkg/logging"
	"github.com/de-tools/grid-weekly-report/pkg/runtime/docx"
	"github.com/de-tools/grid-weekly-report/pkg/services/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ErrGenerationFailed is returned when at least one week could not be generated.
var ErrGenerationFailed = errors.New("weekly report generation unsuccessful")

type loadFunc func(path string) (*config.Config, error)
type loggerFunc func(cfg *config.Config) (zerolog.Logger, io.Closer, error)
type buildFunc func(ctx context.Context, cfg *config.Config) (report.Runner, io.Closer, error)

// CLI represents the command-line interface
type CLI struct {
	output   io.Writer
	reporter *Reporter
	rootCmd  *cobra.Command

	load      loadFunc
	newLogger loggerFunc
	build     buildFunc
	now       func() time.Time

	cfgPath   string
	startDate string
	endDate   string
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		output:   opts.Output,
		reporter: NewReporter(opts.Output),
		load: func(path string) (*config.Config, error) {
			return config.Load(path)
		},
		newLogger: func(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
			return logging.New(cfg.Log, cfg.Logstash)
		},
		build: func(ctx context.Context, cfg *config.Config) (report.Runner, io.Closer, error) {
			a, err := app.New(ctx, cfg)
			if err != nil {
				return nil, nil, err
			}
			return a.Runner, a, nil
		},
		now: time.Now,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "weekly-report",
		Short:        "Generate the weekly grid operational report",
		Long:         "Generates one report document per Monday-Sunday week touching the date range. Both dates default to the previous complete week.",
		SilenceUsage: true,
		RunE:         cli.run,
	}

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", "Path to the configuration file (YAML)")
	cmd.Flags().StringVar(&cli.startDate, "start_date", "", "Start date in YYYY-MM-DD format")
	cmd.Flags().StringVar(&cli.endDate, "end_date", "", "End date in YYYY-MM-DD format")

	cmd.AddCommand(cli.newTemplateCmd())

	return cmd
}

func (cli *CLI) newTemplateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a starter report template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create template file: %w", err)
			}
			if err := docx.WriteStarterTemplate(f); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to write template: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close template file: %w", err)
			}
			fmt.Fprintf(cli.output, "Starter template written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "weekly_report_template.docx", "Path of the template to write")

	return cmd
}

func (cli *CLI) run(cmd *cobra.Command, _ []string) error {
	previous := calendar.PreviousWeek(cli.now())
	if cli.startDate == "" {
		cli.startDate = previous.Start.Format(calendar.DateLayout)
	}
	if cli.endDate == "" {
		cli.endDate = previous.End.Format(calendar.DateLayout)
	}

	dates, err := calendar.ParseRange(cli.startDate, cli.endDate, time.Local)
	if err != nil {
		return err
	}

	cfg, err := cli.load(cli.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser, err := cli.newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logCloser.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx)

	runner, closer, err := cli.build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report pipeline: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close warehouse")
		}
	}()

	outcomes := runner.Run(ctx, dates.Start, dates.End)
	if err := cli.reporter.Handle(outcomes); err != nil {
		return fmt.Errorf("failed to print outcomes: %w", err)
	}

	if !outcomes.Succeeded() {
		return ErrGenerationFailed
	}
	return nil
}
