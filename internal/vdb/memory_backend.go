package vdb

import (
	"context"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// MemoryBackend has identical semantics to JSONBackend but never
// persists to disk; CREATE TABLE pre-creates an empty row-list so
// subsequent operations find the table.
type MemoryBackend struct {
	engine *tableEngine
}

// NewMemoryBackend constructs an in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{engine: newTableEngine()}
}

func (b *MemoryBackend) Initialize(ctx context.Context) error {
	return nil
}

func (b *MemoryBackend) Query(ctx context.Context, sql string, params ...interface{}) ([]Row, error) {
	return queryViaEngine(b.engine, sql, params)
}

func (b *MemoryBackend) Execute(ctx context.Context, sql string, params ...interface{}) (int64, error) {
	n, _, err := executeViaEngine(b.engine, sql, params)
	return n, err
}

func (b *MemoryBackend) ExecuteWithID(ctx context.Context, sql string, params ...interface{}) (string, error) {
	_, id, err := executeViaEngine(b.engine, sql, params)
	return id, err
}

func (b *MemoryBackend) TableExists(ctx context.Context, name string) (bool, error) {
	return b.engine.tableExists(name), nil
}

func (b *MemoryBackend) Close() error {
	logging.Get(logging.CategoryVDB).Debug("closing in-memory backend")
	return nil
}
