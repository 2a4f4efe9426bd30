// Package db loads datasets from SQL databases through sqlx.
package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"gosubgroup/domain/dataset"
	apperrors "gosubgroup/internal/errors"
	"gosubgroup/internal/logging"
)

// TableSource runs one query and turns its result set into a table. Every
// column is read as text and typed the same way file columns are.
type TableSource struct {
	db     *sqlx.DB
	query  string
	args   []interface{}
	logger *zap.Logger
}

// Connect opens and pings a database. driver is a registered database/sql
// driver name such as "postgres" or "sqlite3".
func Connect(ctx context.Context, driver, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	return db, nil
}

// NewTableSource creates a source for query
func NewTableSource(db *sqlx.DB, query string, args ...interface{}) *TableSource {
	return &TableSource{db: db, query: query, args: args, logger: zap.NewNop()}
}

// WithLogger sets the logger used for load timings
func (s *TableSource) WithLogger(l *zap.Logger) *TableSource {
	s.logger = logging.OrNop(l)
	return s
}

func (s *TableSource) Describe() string {
	return fmt.Sprintf("%s query", s.db.DriverName())
}

// Load executes the query. NULL becomes an empty cell. Failures carry the
// DATA_SOURCE_ERROR code.
func (s *TableSource) Load(ctx context.Context) (*dataset.Table, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, apperrors.DataSourceError(s.Describe(), err)
	}
	return table, nil
}

func (s *TableSource) load(ctx context.Context) (*dataset.Table, error) {
	start := time.Now()
	rows, err := s.db.QueryxContext(ctx, s.query, s.args...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records [][]string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("row scan failed: %w", err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = cellString(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("query returned no rows")
	}

	table, err := dataset.FromRecords(headers, records)
	if err != nil {
		return nil, err
	}
	s.logger.Info("query loaded",
		zap.String("driver", s.db.DriverName()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("columns", len(headers)),
		zap.Int("rows", len(records)))
	return table, nil
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
