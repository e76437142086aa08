//go:build cgo

package vdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"strconv"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

func init() {
	// Registers sqlite-vec as an auto-loadable extension on the
	// mattn/go-sqlite3 driver used when the binary is built with cgo.
	vec.Auto()
}

// VectorSearch performs a nearest-neighbor lookup in a vec0 virtual
// table through sqlite-vec's KNN MATCH query, ordered by vec0's
// distance column. EnsureVectorTable declares no distance metric, so
// that distance is vec0's default (L2). Nothing in internal/rag calls
// VectorSearch: RAG semantic retrieval is always the in-memory
// cosine-similarity search in internal/rag, whichever backend is
// selected.
func (b *SQLiteBackend) VectorSearch(ctx context.Context, table string, query []float32, topK int) ([]Row, error) {
	if topK <= 0 {
		topK = 5
	}
	blob := encodeEmbedding(query)

	sql := "SELECT rowid, distance FROM " + table + " WHERE embedding MATCH ? ORDER BY distance LIMIT ?"
	rows, err := b.db.QueryContext(ctx, sql, blob, topK)
	if err != nil {
		logging.Get(logging.CategoryVDB).Warn("vector search failed on %s: %v", table, err)
		return nil, errVDB("vector_search", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// EnsureVectorTable creates the vec0 virtual table used to store
// document-chunk embeddings, sized to the given dimension count.
func (b *SQLiteBackend) EnsureVectorTable(ctx context.Context, table string, dims int) error {
	stmt := "CREATE VIRTUAL TABLE IF NOT EXISTS " + table + " USING vec0(embedding float[" + strconv.Itoa(dims) + "])"
	_, err := b.db.ExecContext(ctx, stmt)
	if err != nil {
		return errVDB("ensure_vector_table", err)
	}
	return nil
}

func encodeEmbedding(v []float32) []byte {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		return nil
	}
	return buf.Bytes()
}
