// Package storage contains the storage-agnostic contracts used by the survey
// pipeline: the Repository interface, the backend factory, the fixed table
// definitions, and the replace-table writer.
//
// Concrete backends (duckdb, sqlite, postgres) live in subpackages and
// register themselves with the factory at init time; callers select one by
// kind and otherwise stay backend-agnostic.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Repository is the minimal sink contract the pipeline needs: raw DDL
// execution, bulk insert, read-only queries for the ad-hoc layer, and
// cleanup. Implementations are not required to be safe for concurrent use;
// the pipeline is single-threaded.
type Repository interface {
	// Exec executes an arbitrary SQL statement (typically DDL).
	Exec(ctx context.Context, sql string) error

	// CopyFrom bulk-inserts rows into table. Every row must align with
	// columns. It returns the number of rows inserted; the insert is
	// atomic per call (single transaction or COPY).
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// Query runs a read-only statement and materializes the result. Row
	// volumes here are tiny, so no streaming contract is offered.
	Query(ctx context.Context, sql string) (columns []string, rows [][]any, err error)

	// Close releases the underlying connection. Safe to call once.
	Close()
}

// Config selects and configures a backend.
type Config struct {
	// Kind is a registered backend name: "duckdb", "sqlite", "postgres".
	Kind string

	// DSN is the backend connection string (file path for the embedded
	// backends).
	DSN string
}

// Factory constructs a Repository from a Config. Backends register one per
// kind from their init functions.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	facMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the Factory for the given storage kind.
// It is typically called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	facMu.Lock()
	defer facMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind. The caller owns the returned
// Repository and must Close it on every exit path.
func New(ctx context.Context, cfg Config) (Repository, error) {
	facMu.RLock()
	fn, ok := factories[cfg.Kind]
	facMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no storage backend registered for kind=%q", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// Kinds returns the registered backend names, for diagnostics.
func Kinds() []string {
	facMu.RLock()
	defer facMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}
