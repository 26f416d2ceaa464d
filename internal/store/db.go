package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"launch-dashboard/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Store reads launch tables from a sqlite database. It never writes.
type Store struct {
	db   *sql.DB
	path string
}

// OpenReadOnly opens the database at dbPath in read-only mode.
func OpenReadOnly(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_query_only=true", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", dbPath, err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Columns returns the column names of table in declaration order.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s LIMIT 0`, quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("describe table %s: %w", table, err)
	}
	defer rows.Close()
	return rows.Columns()
}

// ReadTable streams every row of table, in rowid order, to fn. Iteration
// stops at the first error returned by fn.
func (s *Store) ReadTable(ctx context.Context, table string, fn func(model.GenericRecord) error) error {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s ORDER BY rowid`, quoteIdent(table)))
	if err != nil {
		return fmt.Errorf("query table %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan table %s: %w", table, err)
		}

		rec := make(model.GenericRecord, len(columns))
		for i, col := range columns {
			switch v := values[i].(type) {
			case []byte:
				rec[col] = string(v)
			case int64:
				rec[col] = int(v)
			default:
				rec[col] = v
			}
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
