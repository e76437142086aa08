package vdb

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// tableEngine executes parsedStmt values against an in-memory
// map[string][]Row, shared by the JSON-file and pure in-memory
// backends (they differ only in whether mutations are persisted).
type tableEngine struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

func newTableEngine() *tableEngine {
	return &tableEngine{tables: make(map[string][]Row)}
}

func (e *tableEngine) snapshot() map[string][]Row {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string][]Row, len(e.tables))
	for k, v := range e.tables {
		cp := make([]Row, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

func (e *tableEngine) load(data map[string][]Row) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if data == nil {
		data = make(map[string][]Row)
	}
	e.tables = data
}

func (e *tableEngine) tableExists(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.tables[name]
	return ok
}

// selectRows returns rows matching the statement's first WHERE clause
// (if any) and applying LIMIT/OFFSET; params bind positionally to the
// WHERE clause's single honored column.
func (e *tableEngine) selectRows(st *parsedStmt, params []interface{}) ([]Row, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rows, ok := e.tables[st.table]
	if !ok {
		return nil, nil
	}

	matched := make([]Row, 0, len(rows))
	if len(st.whereCols) > 0 && len(params) > 0 {
		col := st.whereCols[0]
		want := params[0]
		for _, r := range rows {
			if valuesEqual(r[col], want) {
				matched = append(matched, cloneRow(r))
			}
		}
	} else {
		for _, r := range rows {
			matched = append(matched, cloneRow(r))
		}
	}

	if st.hasOffset && st.offset < len(matched) {
		matched = matched[st.offset:]
	} else if st.hasOffset {
		matched = nil
	}
	if st.hasLimit && st.limit < len(matched) {
		matched = matched[:st.limit]
	}

	if st.countStar {
		return []Row{{"count": len(matched)}}, nil
	}
	return matched, nil
}

// insertRow appends a row built from the statement's column list and
// params, synthesizing a UUIDv4 "id" if none is supplied.
func (e *tableEngine) insertRow(st *parsedStmt, params []interface{}) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	row := Row{}
	for i, col := range st.insertCols {
		if i < len(params) {
			row[col] = params[i]
		}
	}

	id, ok := row["id"]
	idStr, isStr := id.(string)
	switch {
	case ok && id != nil && !isStr:
		idStr = fmt.Sprint(id)
	case idStr == "":
		idStr = uuid.NewString()
		row["id"] = idStr
	}

	e.tables[st.table] = append(e.tables[st.table], row)
	return idStr, nil
}

// updateRows sets st.setCol on every row matching the (single-column)
// WHERE clause. params[0] is the new value; params[1] (if a WHERE
// clause is present) is the comparison value.
func (e *tableEngine) updateRows(st *parsedStmt, params []interface{}) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rows, ok := e.tables[st.table]
	if !ok {
		return 0, nil
	}

	var newVal interface{}
	if len(params) > 0 {
		newVal = params[0]
	}

	var whereVal interface{}
	hasWhere := len(st.whereCols) > 0 && len(params) > 1
	if hasWhere {
		whereVal = params[1]
	}

	var count int64
	for i := range rows {
		if hasWhere && !valuesEqual(rows[i][st.whereCols[0]], whereVal) {
			continue
		}
		rows[i][st.setCol] = newVal
		count++
	}
	e.tables[st.table] = rows
	return count, nil
}

func (e *tableEngine) deleteRows(st *parsedStmt, params []interface{}) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rows, ok := e.tables[st.table]
	if !ok {
		return 0, nil
	}

	if len(st.whereCols) == 0 || len(params) == 0 {
		count := int64(len(rows))
		e.tables[st.table] = nil
		return count, nil
	}

	col := st.whereCols[0]
	want := params[0]
	kept := rows[:0:0]
	var count int64
	for _, r := range rows {
		if valuesEqual(r[col], want) {
			count++
			continue
		}
		kept = append(kept, r)
	}
	e.tables[st.table] = kept
	return count, nil
}

func (e *tableEngine) createTable(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.tables[name]; !ok {
		e.tables[name] = []Row{}
	}
}

func cloneRow(r Row) Row {
	cp := make(Row, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// valuesEqual compares values the way JSON-decoded equality should
// behave: numbers compare by float64 value regardless of underlying
// Go type so a bound int matches a decoded float64.
func valuesEqual(a, b interface{}) bool {
	af, aIsNum := toFloat(a)
	bf, bIsNum := toFloat(b)
	if aIsNum && bIsNum {
		return af == bf
	}
	return a == b
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
