//go:build !cgo

package vdb

import (
	_ "modernc.org/sqlite"
)

// sqlDriverName is the registered database/sql driver backing the
// SQLite VirtualDatabase implementation. The pure-Go modernc.org/sqlite
// driver is the default (no cgo required); building with cgo enabled
// switches to mattn/go-sqlite3 (see sqlite_driver_cgo.go) which is
// needed for the sqlite-vec loadable extension used by RAG semantic
// retrieval.
const sqlDriverName = "sqlite"
