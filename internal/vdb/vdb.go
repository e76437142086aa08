// Package vdb implements the runtime's Virtual Database abstraction: a
// uniform four-operation interface (query/execute/execute-with-id/
// table-exists) over interchangeable storage backends (SQLite, a JSON
// file, an in-memory map, and a supplemental Postgres backend).
package vdb

import (
	"context"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/config"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// Row is a single result row keyed by column name.
type Row map[string]interface{}

// VirtualDatabase is the uniform storage abstraction every backend
// implements. All four operations bind parameters positionally.
type VirtualDatabase interface {
	// Initialize prepares the backend for use (opens connections,
	// applies pragmas, loads any on-disk state).
	Initialize(ctx context.Context) error

	// Query executes a read statement and returns the matched rows.
	Query(ctx context.Context, sql string, params ...interface{}) ([]Row, error)

	// Execute runs a mutating statement and returns the affected row count.
	Execute(ctx context.Context, sql string, params ...interface{}) (int64, error)

	// ExecuteWithID runs an INSERT and returns an identifier for the
	// inserted row. The JSON and in-memory backends return the row's
	// "id" field, synthesizing and storing a UUIDv4 when the row carries
	// none; the SQLite backend returns the last insert rowid ("" when
	// there is none).
	ExecuteWithID(ctx context.Context, sql string, params ...interface{}) (string, error)

	// TableExists reports whether a table by that name has been created.
	TableExists(ctx context.Context, name string) (bool, error)

	// Close releases any held resources.
	Close() error
}

// errVDB wraps a cause into the shared generic error kind used by every
// backend, matching the single-error-kind failure contract.
func errVDB(op string, cause error) error {
	return errs.Wrap("vdb", errs.KindGeneric, op, cause)
}

// Open constructs the configured backend and initializes it.
func Open(ctx context.Context, cfg config.VDBConfig) (VirtualDatabase, error) {
	log := logging.Get(logging.CategoryVDB)
	timer := logging.StartTimer(logging.CategoryVDB, "Open")
	defer timer.Stop()

	var db VirtualDatabase
	switch cfg.Backend {
	case config.VDBBackendSQLite, "":
		db = NewSQLiteBackend(cfg.Path)
	case config.VDBBackendJSON:
		db = NewJSONBackend(cfg.Path)
	case config.VDBBackendMemory:
		db = NewMemoryBackend()
	case config.VDBBackendPostgres:
		db = NewPostgresBackend(cfg.DSN)
	default:
		return nil, errVDB("open", errs.Newf("vdb", errs.KindConfig, "unknown backend %q", cfg.Backend))
	}

	if err := db.Initialize(ctx); err != nil {
		log.Error("failed to initialize %s backend: %v", cfg.Backend, err)
		return nil, err
	}
	log.Info("opened %s backend", cfg.Backend)
	return db, nil
}
