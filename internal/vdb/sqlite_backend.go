package vdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// SQLiteBackend executes full SQL through a pooled connection with WAL
// journal mode and foreign keys enabled, matching the original
// implementation's pragma set.
type SQLiteBackend struct {
	path string
	db   *sql.DB
}

// NewSQLiteBackend constructs a SQLite-backed VirtualDatabase. The
// underlying driver is selected at build time (see sqlite_driver*.go).
func NewSQLiteBackend(path string) *SQLiteBackend {
	return &SQLiteBackend{path: path}
}

func (b *SQLiteBackend) Initialize(ctx context.Context) error {
	log := logging.Get(logging.CategoryVDB)

	if b.path != "" && b.path != ":memory:" {
		if dir := filepath.Dir(b.path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errVDB("initialize", err)
			}
		}
	}

	dsn := b.path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open(sqlDriverName, dsn)
	if err != nil {
		return errVDB("initialize", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			log.Warn("pragma %q failed: %v", pragma, err)
		}
	}

	b.db = db
	log.Info("sqlite backend ready at %s (driver=%s)", dsn, sqlDriverName)
	return nil
}

// bindParams converts arrays/maps to JSON strings so the driver never
// has to handle anything beyond string/int/float/bool/nil.
func bindParams(params []interface{}) []interface{} {
	out := make([]interface{}, len(params))
	for i, p := range params {
		switch p.(type) {
		case []interface{}, map[string]interface{}:
			data, err := json.Marshal(p)
			if err != nil {
				out[i] = p
				continue
			}
			out[i] = string(data)
		default:
			out[i] = p
		}
	}
	return out
}

func (b *SQLiteBackend) Query(ctx context.Context, query string, params ...interface{}) ([]Row, error) {
	rows, err := b.db.QueryContext(ctx, query, bindParams(params)...)
	if err != nil {
		return nil, errVDB("query", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, errVDB("query", err)
	}

	var out []Row
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errVDB("query", err)
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(vals[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func (b *SQLiteBackend) Execute(ctx context.Context, query string, params ...interface{}) (int64, error) {
	res, err := b.db.ExecContext(ctx, query, bindParams(params)...)
	if err != nil {
		return 0, errVDB("execute", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errVDB("execute", err)
	}
	return n, nil
}

func (b *SQLiteBackend) ExecuteWithID(ctx context.Context, query string, params ...interface{}) (string, error) {
	res, err := b.db.ExecContext(ctx, query, bindParams(params)...)
	if err != nil {
		return "", errVDB("execute_with_id", err)
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		return "", nil
	}
	return strconv.FormatInt(id, 10), nil
}

func (b *SQLiteBackend) TableExists(ctx context.Context, name string) (bool, error) {
	row := b.db.QueryRowContext(ctx, "SELECT 1 FROM sqlite_master WHERE type='table' AND name=?", name)
	var x int
	if err := row.Scan(&x); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, errVDB("table_exists", err)
	}
	return true, nil
}

func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
