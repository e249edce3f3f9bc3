package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/de-tools/grid-weekly-report/pkg/models/store"
	"github.com/rs/zerolog"
)

const (
	dateLayout   = time.DateOnly
	stampLayout  = "2006-01-02T15:04:05.000000000Z07:00"
	DefaultLimit = 50
)

// Store keeps the week outcomes of every report run.
type Store interface {
	Add(ctx context.Context, runID string, requested domain.DateRange, outcomes domain.Outcomes) error
	List(ctx context.Context, limit int) ([]store.WeekRecord, error)
}

type historyStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &historyStore{
		db:  db,
		now: time.Now,
	}, nil
}

// Add inserts one row per week. It joins the transaction carried by ctx, or
// runs in its own.
func (h *historyStore) Add(ctx context.Context, runID string, requested domain.DateRange, outcomes domain.Outcomes) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx := GetTransaction(ctx)
	owned := tx == nil
	if owned {
		var err error
		tx, err = h.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
	}

	if err := h.insert(ctx, tx, runID, requested, outcomes); err != nil {
		if owned {
			_ = tx.Rollback()
		}
		return err
	}

	if owned {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
	}
	return nil
}

func (h *historyStore) insert(
	ctx context.Context,
	tx *sql.Tx,
	runID string,
	requested domain.DateRange,
	outcomes domain.Outcomes,
) error {
	query := `
		INSERT INTO report_runs (
			run_id, requested_start, requested_end, week_start, week_end,
			success, file, degraded, error, created_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	createdAt := h.now().UTC().Format(stampLayout)
	for _, o := range outcomes {
		degraded := make([]string, 0, len(o.Degraded))
		for _, s := range o.Degraded {
			degraded = append(degraded, string(s))
		}
		degradedJSON, err := json.Marshal(degraded)
		if err != nil {
			return fmt.Errorf("marshal degraded sections: %w", err)
		}

		errMsg := ""
		if o.Err != nil {
			errMsg = o.Err.Error()
		}

		success := 0
		if o.Success {
			success = 1
		}

		_, err = stmt.ExecContext(ctx,
			runID,
			requested.Start.Format(dateLayout),
			requested.End.Format(dateLayout),
			o.Window.Start.Format(dateLayout),
			o.Window.End.Format(dateLayout),
			success,
			o.File,
			string(degradedJSON),
			errMsg,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("insert week %s: %w", o.Window.Start.Format(dateLayout), err)
		}
	}
	return nil
}

// List returns the most recent weeks first. A non-positive limit uses DefaultLimit.
func (h *historyStore) List(ctx context.Context, limit int) ([]store.WeekRecord, error) {
	logger := zerolog.Ctx(ctx)
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `
		SELECT run_id, requested_start, requested_end, week_start, week_end,
		       success, file, degraded, error, created_at
		FROM report_runs
		ORDER BY created_at DESC, week_start ASC
		LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query report runs: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close rows")
		}
	}()

	records := []store.WeekRecord{}
	for rows.Next() {
		var (
			r                                                  store.WeekRecord
			reqStart, reqEnd, weekStart, weekEnd, degraded, at string
			success                                            int
		)
		if err := rows.Scan(&r.RunID, &reqStart, &reqEnd, &weekStart, &weekEnd,
			&success, &r.File, &degraded, &r.Error, &at); err != nil {
			return nil, fmt.Errorf("scan report run: %w", err)
		}

		r.Success = success == 1
		if err := json.Unmarshal([]byte(degraded), &r.Degraded); err != nil {
			return nil, fmt.Errorf("parse degraded sections: %w", err)
		}
		if err := parseTimes(&r, reqStart, reqEnd, weekStart, weekEnd, at); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report runs: %w", err)
	}
	return records, nil
}

func parseTimes(r *store.WeekRecord, reqStart, reqEnd, weekStart, weekEnd, at string) error {
	fields := []struct {
		dst    *time.Time
		value  string
		layout string
	}{
		{&r.RequestedStart, reqStart, dateLayout},
		{&r.RequestedEnd, reqEnd, dateLayout},
		{&r.WeekStart, weekStart, dateLayout},
		{&r.WeekEnd, weekEnd, dateLayout},
		{&r.CreatedAt, at, stampLayout},
	}
	for _, f := range fields {
		t, err := time.Parse(f.layout, f.value)
		if err != nil {
			return fmt.Errorf("parse %q: %w", f.value, err)
		}
		*f.dst = t
	}
	return nil
}
