// Package warehouse reads the report datasets from the MIS warehouse.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/grid-weekly-report/pkg/models/domain"
	"github.com/rs/zerolog"

	_ "github.com/databricks/databricks-sql-go"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/snowflakedb/gosnowflake"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres   = "postgres"
	DriverPgx        = "pgx"
	DriverSQLite     = "sqlite"
	DriverSnowflake  = "snowflake"
	DriverDatabricks = "databricks"
)

// dollarPlaceholders lists the drivers that bind $1, $2... instead of ?
var dollarPlaceholders = map[string]bool{
	DriverPostgres:   true,
	DriverPgx:        true,
	DriverSQLite:     false,
	DriverSnowflake:  false,
	DriverDatabricks: false,
}

// Config selects the database/sql driver and its connection string.
type Config struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Warehouse is a shared handle to the warehouse. Every fetch checks out its
// own connection and returns it before the fetch completes.
type Warehouse struct {
	db     *sql.DB
	driver string
}

// Open prepares a handle without dialing, so an unreachable warehouse
// surfaces as a connection error on the first fetch.
func Open(cfg Config) (*Warehouse, error) {
	if _, ok := dollarPlaceholders[cfg.Driver]; !ok {
		return nil, fmt.Errorf("unsupported warehouse driver %q", cfg.Driver)
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrConnection, cfg.Driver, err)
	}
	return New(db, cfg.Driver), nil
}

// New wraps an existing *sql.DB opened with the named driver.
func New(db *sql.DB, driver string) *Warehouse {
	return &Warehouse{db: db, driver: driver}
}

func (w *Warehouse) Close() error {
	return w.db.Close()
}

// rebind rewrites ? placeholders for drivers that expect $n.
func (w *Warehouse) rebind(query string) string {
	if !dollarPlaceholders[w.driver] {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (w *Warehouse) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	logger := zerolog.Ctx(ctx)

	conn, err := w.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}
	defer func(conn *sql.Conn) {
		if err := conn.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to release warehouse connection")
		}
	}(conn)

	return fn(conn)
}

// queryRows runs query on a dedicated connection and maps every row with scan.
// The result is never nil.
func queryRows[T any](
	ctx context.Context,
	w *Warehouse,
	label string,
	query string,
	args []any,
	scan func(rows *sql.Rows) (T, error),
) ([]T, error) {
	logger := zerolog.Ctx(ctx)
	records := []T{}

	err := w.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, w.rebind(query), args...)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrQuery, label, err)
		}
		defer func(rows *sql.Rows) {
			if err := rows.Close(); err != nil {
				logger.Warn().Err(err).Str("query", label).Msg("failed to close rows")
			}
		}(rows)

		for rows.Next() {
			record, err := scan(rows)
			if err != nil {
				return fmt.Errorf("%w: %s scan: %w", domain.ErrQuery, label, err)
			}
			records = append(records, record)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: %s rows: %w", domain.ErrQuery, label, err)
		}
		return nil
	})
	if err != nil {
		return []T{}, err
	}

	logger.Debug().Str("query", label).Int("rows", len(records)).Msg("warehouse fetch complete")
	return records, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
