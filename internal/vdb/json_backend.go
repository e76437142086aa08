package vdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// JSONBackend persists tables as one pretty-printed JSON document,
// rewritten on every mutation. The parent directory is created on
// demand.
type JSONBackend struct {
	path   string
	engine *tableEngine
	saveMu sync.Mutex
}

// NewJSONBackend constructs a JSON-file backend at the given path.
func NewJSONBackend(path string) *JSONBackend {
	return &JSONBackend{path: path, engine: newTableEngine()}
}

func (b *JSONBackend) Initialize(ctx context.Context) error {
	dir := filepath.Dir(b.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errVDB("initialize", err)
		}
	}

	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		b.engine.load(nil)
		return nil
	}
	if err != nil {
		return errVDB("initialize", err)
	}

	var tables map[string][]Row
	if err := json.Unmarshal(data, &tables); err != nil {
		return errVDB("initialize", err)
	}
	b.engine.load(tables)
	return nil
}

func (b *JSONBackend) save() error {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()

	data, err := json.MarshalIndent(b.engine.snapshot(), "", "  ")
	if err != nil {
		return errVDB("save", err)
	}
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return errVDB("save", err)
	}
	return nil
}

func (b *JSONBackend) Query(ctx context.Context, sql string, params ...interface{}) ([]Row, error) {
	return queryViaEngine(b.engine, sql, params)
}

func (b *JSONBackend) Execute(ctx context.Context, sql string, params ...interface{}) (int64, error) {
	n, _, err := executeViaEngine(b.engine, sql, params)
	if err != nil {
		return 0, err
	}
	if err := b.save(); err != nil {
		return n, err
	}
	return n, nil
}

func (b *JSONBackend) ExecuteWithID(ctx context.Context, sql string, params ...interface{}) (string, error) {
	_, id, err := executeViaEngine(b.engine, sql, params)
	if err != nil {
		return "", err
	}
	if err := b.save(); err != nil {
		return id, err
	}
	return id, nil
}

func (b *JSONBackend) TableExists(ctx context.Context, name string) (bool, error) {
	return b.engine.tableExists(name), nil
}

func (b *JSONBackend) Close() error {
	logging.Get(logging.CategoryVDB).Debug("closing JSON backend at %s", b.path)
	return nil
}

// queryViaEngine and executeViaEngine are shared by JSONBackend and
// MemoryBackend; the only difference between the two backends is
// whether a mutation is followed by a save-to-disk step.
func queryViaEngine(engine *tableEngine, sql string, params []interface{}) ([]Row, error) {
	st, err := parseStatement(sql)
	if err != nil {
		return nil, errVDB("query", err)
	}
	if st.kind != stmtSelect {
		return nil, errVDB("query", errParse("Query called with a non-SELECT statement"))
	}
	return engine.selectRows(st, params)
}

func executeViaEngine(engine *tableEngine, sql string, params []interface{}) (int64, string, error) {
	st, err := parseStatement(sql)
	if err != nil {
		return 0, "", errVDB("execute", err)
	}

	switch st.kind {
	case stmtCreateTable:
		engine.createTable(st.table)
		return 0, "", nil
	case stmtInsert:
		id, err := engine.insertRow(st, params)
		if err != nil {
			return 0, "", errVDB("execute", err)
		}
		return 1, id, nil
	case stmtUpdate:
		n, err := engine.updateRows(st, params)
		if err != nil {
			return 0, "", errVDB("execute", err)
		}
		return n, "", nil
	case stmtDelete:
		n, err := engine.deleteRows(st, params)
		if err != nil {
			return 0, "", errVDB("execute", err)
		}
		return n, "", nil
	default:
		return 0, "", errVDB("execute", errParse("Execute called with a SELECT statement"))
	}
}
