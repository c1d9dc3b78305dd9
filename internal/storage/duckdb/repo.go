// Package duckdb implements a DuckDB-backed storage.Repository using
// database/sql. DuckDB is the default sink: a single-file embedded
// analytical store, which is exactly the shape of this pipeline's output
// (write once, query ad hoc).
//
// Batched INSERTs run inside a transaction via a prepared statement; the
// appender API would be faster but is unwarranted at survey volumes.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Repository is a DuckDB-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a DuckDB database at the given DSN and returns a
// Repository plus a Close function for cleanup.
//
// DSN is a database file path, or ":memory:" for an in-memory store. It is
// passed straight through to the driver.
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("duckdb: DSN must not be empty")
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("duckdb: open: %w", err)
	}

	// Fail fast on an unopenable file rather than at first write.
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("duckdb: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sqlStmt string) error {
	if strings.TrimSpace(sqlStmt) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sqlStmt); err != nil {
		return fmt.Errorf("duckdb: exec: %w", err)
	}
	return nil
}

// CopyFrom inserts the given rows into table using a single transaction and
// a prepared multi-value INSERT statement. len(row) must equal len(columns)
// for every row.
func (r *Repository) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("duckdb: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %q (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("duckdb: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("duckdb: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("duckdb: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("duckdb: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("duckdb: commit: %w", err)
	}
	return inserted, nil
}

// Query runs a read-only statement and materializes every row as []any.
func (r *Repository) Query(ctx context.Context, sqlStmt string) ([]string, [][]any, error) {
	rs, err := r.db.QueryContext(ctx, sqlStmt)
	if err != nil {
		return nil, nil, fmt.Errorf("duckdb: query: %w", err)
	}
	defer rs.Close()

	cols, err := rs.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("duckdb: columns: %w", err)
	}

	var out [][]any
	for rs.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("duckdb: scan: %w", err)
		}
		out = append(out, vals)
	}
	if err := rs.Err(); err != nil {
		return nil, nil, fmt.Errorf("duckdb: rows: %w", err)
	}
	return cols, out, nil
}
