package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const ReportRunsSchema = `
	CREATE TABLE IF NOT EXISTS report_runs (
		run_id TEXT NOT NULL,
		requested_start TEXT NOT NULL,
		requested_end TEXT NOT NULL,
		week_start TEXT NOT NULL,
		week_end TEXT NOT NULL,
		success INTEGER NOT NULL,
		file TEXT NOT NULL DEFAULT '',
		degraded TEXT NOT NULL DEFAULT '[]',
		error TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		PRIMARY KEY (run_id, week_start)
	);
`

const ReportRunsIndex = `
	CREATE INDEX IF NOT EXISTS report_runs_created_at ON report_runs (created_at DESC);
`

var bootQueries = []string{
	ReportRunsSchema,
	ReportRunsIndex,
}

type Settings struct {
	DbPath string `mapstructure:"path"`
}

func (s Settings) Enabled() bool {
	return s.DbPath != ""
}

// NewDB opens the history database and creates its schema.
func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	if dir := filepath.Dir(settings.DbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history folder: %w", err)
		}
	}

	db, err := sql.Open("sqlite", settings.DbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	for _, query := range bootQueries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create history schema: %w", err)
		}
	}
	return db, nil
}
