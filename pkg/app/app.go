// Package app wires the configured warehouse, renderer, exporters and
// publisher into a weekly report runner shared by the CLI and the web service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/grid-weekly-report/pkg/config"
	"github.com/de-tools/grid-weekly-report/pkg/metrics"
	"github.com/de-tools/grid-weekly-report/pkg/publish"
	"github.com/de-tools/grid-weekly-report/pkg/runtime/docx"
	"github.com/de-tools/grid-weekly-report/pkg/runtime/export"
	"github.com/de-tools/grid-weekly-report/pkg/services/report"
	"github.com/de-tools/grid-weekly-report/pkg/store/history"
	"github.com/de-tools/grid-weekly-report/pkg/store/warehouse"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type App struct {
	Runner  report.Runner
	Metrics *metrics.Metrics
	History history.Store

	warehouse *warehouse.Warehouse
	historyDB *sql.DB
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	wh, err := warehouse.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}

	m := metrics.New(prometheus.NewRegistry())

	opts := []report.Option{report.WithWeekRecorder(m)}
	if cfg.Exports.XLSX {
		opts = append(opts, report.WithExporters(export.NewWorkbook(cfg.DumpFolder)))
	}
	if cfg.Exports.PDF {
		opts = append(opts, report.WithExporters(export.NewSummaryPDF(cfg.DumpFolder)))
	}
	if cfg.S3.Enabled() {
		awsCfg, err := publish.LoadConfig(ctx, cfg.S3)
		if err != nil {
			_ = wh.Close()
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		opts = append(opts, report.WithPublisher(publish.NewS3Publisher(awsCfg, cfg.S3)))
	}

	assembler := report.NewAssembler(report.WarehouseSources(wh), m)
	generator := report.NewGenerator(assembler, docx.NewRenderer(cfg.TemplatePath, cfg.DumpFolder), opts...)

	logger.Info().
		Str("driver", cfg.DB.Driver).
		Str("dumpFolder", cfg.DumpFolder).
		Str("template", cfg.TemplatePath).
		Bool("xlsx", cfg.Exports.XLSX).
		Bool("pdf", cfg.Exports.PDF).
		Bool("s3", cfg.S3.Enabled()).
		Bool("history", cfg.History.Enabled()).
		Msg("weekly report pipeline configured")

	a := &App{
		Runner:    report.NewDriver(generator),
		Metrics:   m,
		warehouse: wh,
	}

	if cfg.History.Enabled() {
		db, err := history.NewDB(ctx, cfg.History)
		if err != nil {
			_ = wh.Close()
			return nil, fmt.Errorf("failed to open report history: %w", err)
		}
		hs, err := history.NewStore(db)
		if err != nil {
			_ = db.Close()
			_ = wh.Close()
			return nil, err
		}
		a.History = hs
		a.historyDB = db
		a.Runner = report.NewRecordingRunner(a.Runner, hs)
	}

	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if err := a.warehouse.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.historyDB != nil {
		if err := a.historyDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
